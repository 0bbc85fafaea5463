package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gregos2215/gestapp-sub000/internal/config"
	"github.com/Gregos2215/gestapp-sub000/internal/serverapp"
)

func main() {
	var configPath string
	var addr string

	root := &cobra.Command{
		Use:   "gestapp-server",
		Short: "Care center console server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

			cfg, err := config.Load(configPath)
			if os.IsNotExist(err) {
				logger.Info("config file not found, using defaults", "path", configPath)
				cfg = config.Default()
			} else if err != nil {
				return err
			}
			cfg.ApplyEnv()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			handler, err := serverapp.NewHandler(serverapp.Options{
				Config:        cfg,
				UseDiskStatic: serverapp.UseDiskStaticByEnv(),
				Logger:        logger,
				StartScanner:  true,
			})
			if err != nil {
				return err
			}

			logger.Info("listening", "addr", cfg.Server.Addr)
			return http.ListenAndServe(cfg.Server.Addr, handler)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "gestapp.yml", "path to config file")
	root.Flags().StringVar(&addr, "addr", "", "listen address override")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
