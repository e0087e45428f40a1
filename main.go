package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hxsim/calculator"
)

var rootCmd = &cobra.Command{
	Use:   "hxsim",
	Short: "Coaxial and multi-circuit evaporator simulation",
	Long: `hxsim partitions a tube-in-tube evaporator into superheat, two-phase and
subcool zones and solves multi-circuit banks built from it.

Solve a case file with "hxsim solve -f case.yaml" or serve solves over
websocket with "hxsim serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./hxsim.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "logrus level")
	rootCmd.PersistentFlags().String("solver-config", calculator.DefaultConfigPath, "solver ini file")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("solver-config", rootCmd.PersistentFlags().Lookup("solver-config"))

	rootCmd.AddCommand(solveCmd(), serveCmd())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("hxsim")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("HXSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func solverConfig() (calculator.Config, error) {
	return calculator.LoadConfig(viper.GetString("solver-config"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
