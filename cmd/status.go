package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"dai/internal/app"
	"dai/internal/formatting"
	"dai/internal/maker"
)

// NotReadyError is returned by `status --require-ready` when a service has
// not reached READY.
type NotReadyError struct {
	Services []string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%d service(s) not ready: %v", len(e.Services), e.Services)
}

type statusOptions struct {
	output       string
	quiet        bool
	requireReady bool
}

func newStatusCmd() *cobra.Command {
	opts := &statusOptions{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Build the configured services and show their lifecycle state",
		Long: `Loads config.yaml, creates the services of the configured preset and,
when autoAuthenticate is set, initializes, connects and authenticates them
in dependency order. Then prints the state each service reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", string(formatting.FormatTable), "output format: table, console, json or yaml")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress the progress spinner and totals")
	cmd.Flags().BoolVar(&opts.requireReady, "require-ready", false, "exit with code 2 unless every service is READY")
	return cmd
}

func runStatus(cmd *cobra.Command, opts *statusOptions) error {
	format, err := formatting.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	cfg := app.NewConfig(debug, configPath)
	// Logs would interleave with the spinner and structured output.
	cfg.Silent = !debug

	var s *spinner.Spinner
	if !opts.quiet && format == formatting.FormatTable {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = " Starting services..."
		s.Start()
	}

	application, err := app.NewApplication(cmd.Context(), cfg)
	if s != nil {
		if err != nil {
			s.FinalMSG = text.FgRed.Sprint("Failed to start services") + "\n"
		}
		s.Stop()
	}
	if err != nil {
		return err
	}
	defer application.Shutdown()

	status, err := application.Status()
	if err != nil {
		return err
	}

	formatter := formatting.NewFactory().CreateFormatter(formatting.Options{
		Format: format,
		Quiet:  opts.quiet,
		Color:  format == formatting.FormatTable,
		Output: cmd.OutOrStdout(),
	})
	if err := formatter.FormatStatus(status); err != nil {
		return err
	}

	if opts.requireReady {
		if notReady := notReadyServices(status); len(notReady) > 0 {
			return &NotReadyError{Services: notReady}
		}
	}
	return nil
}

func notReadyServices(status []maker.ServiceStatus) []string {
	var out []string
	for _, s := range status {
		if !s.Ready {
			out = append(out, s.Name)
		}
	}
	return out
}
