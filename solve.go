package main

import (
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hxsim/calculator"
	"hxsim/circuit"
	"hxsim/fluid"
	"hxsim/model"
	"hxsim/report"
)

func solveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a coaxial or multi-circuit case file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := solverConfig()
			if err != nil {
				return err
			}
			f, err := model.LoadCaseFile(viper.GetString("file"))
			if err != nil {
				return err
			}
			items, err := solveCase(f, fluid.Default(), cfg)
			if err != nil {
				return err
			}
			return writeItems(cmd.OutOrStdout(), viper.GetString("format"), items)
		},
	}
	cmd.Flags().StringP("file", "f", "", "case file (YAML)")
	cmd.Flags().String("format", "table", "output format: table or csv")
	_ = cmd.MarkFlagRequired("file")
	_ = viper.BindPFlag("file", cmd.Flags().Lookup("file"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	return cmd
}

func solveCase(f *model.CaseFile, props fluid.Provider, cfg calculator.Config) ([]report.Item, error) {
	start := time.Now()
	if f.Coaxial != nil {
		s := calculator.NewCoaxial(*f.Coaxial, props, cfg)
		if err := s.Calculate(); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"case": f.Coaxial.Name, "elapsed": time.Since(start)}).Info("coaxial solved")
		return append(report.Header(f.Coaxial.Name, "", ""), report.Coaxial(s.Result())...), nil
	}

	mc := *f.MultiCircuit
	res, err := circuit.NewCoordinator(props, cfg).Solve(mc)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"case":     mc.TestName,
		"circuits": mc.Circuits,
		"elapsed":  time.Since(start),
	}).Info("multi-circuit solved")
	return report.MultiCircuit(mc, res), nil
}

func writeItems(w io.Writer, format string, items []report.Item) error {
	switch format {
	case "table":
		return report.WriteTable(w, items)
	case "csv":
		return report.WriteCSV(w, items)
	}
	return fmt.Errorf("unknown output format %q", format)
}

