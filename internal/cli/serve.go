package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"reportservice/internal/api"
	"reportservice/internal/logger"
)

func newServeCommand(opts *GlobalOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			ctx := cmd.Context()
			a, err := bootstrap(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				a.close(shutdownCtx)
			}()

			metrics := api.NewMetrics()
			a.service.Recorder = metrics
			server := api.NewServer(a.service, a.scanner, metrics)

			logger.Log.Infof("Scanner service: %s", cfg.ScannerURL)
			logger.Log.Infof("Motor de PDF: %s", cfg.PDFEngine)
			return server.Run(ctx, ":"+cfg.Port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Porta HTTP (padrão: $PORT ou 3500)")
	return cmd
}
