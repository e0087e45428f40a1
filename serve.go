package main

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hxsim/fluid"
	"hxsim/server"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve solves over websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := solverConfig()
			if err != nil {
				return err
			}
			upgrader.CheckOrigin = func(r *http.Request) bool {
				return true
			}
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			s := server.NewServer(viper.GetString("addr"), upgrader, fluid.Default(), cfg, reg)
			return s.Serve()
		},
	}
	cmd.Flags().String("addr", ":9000", "listen address")
	_ = viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}
