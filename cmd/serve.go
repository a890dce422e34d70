package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dai/internal/app"
)

func newServeCmd() *cobra.Command {
	var (
		metricsAddr string
		watch       bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the configured services until interrupted",
		Long: `Creates and authenticates the configured services and keeps them running
until Ctrl+C. With --metrics-addr (or metrics.enabled in config.yaml) the
lifecycle metrics are served on /metrics. With --watch, changes to
config.yaml rebuild the services in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.NewConfig(debug, configPath)
			cfg.MetricsAddress = metricsAddr
			cfg.Watch = watch

			application, err := app.NewApplication(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload services when config.yaml changes")
	return cmd
}
