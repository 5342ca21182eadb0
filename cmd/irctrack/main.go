package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"irctrack/internal/bootstrap"
	"irctrack/internal/modules/tracking/dto"
	"irctrack/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "irctrack",
		Short:         "Track IRC service requests and their work sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", ".irctrack", "directory holding config.yaml, credentials and local databases")

	root.AddCommand(newSummaryCmd(&dataDir))
	root.AddCommand(newReportCmd(&dataDir))
	root.AddCommand(newRequestCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newReindexCmd(&dataDir))
	root.AddCommand(newDashboardCmd(&dataDir))
	root.AddCommand(newDoctorCmd(&dataDir))
	root.AddCommand(newConfigCmd(&dataDir))
	root.AddCommand(newMetricsCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSummaryCmd(dataDir *string) *cobra.Command {
	var refresh, asJSON bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show request counters and the attention list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			out, err := app.TrackingCLI.Summary(context.Background(), refresh)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "total\t%d\n", out.Total)
			_, _ = fmt.Fprintf(w, "pending\t%d\n", out.Pending)
			_, _ = fmt.Fprintf(w, "in progress\t%d\n", out.InProgress)
			_, _ = fmt.Fprintf(w, "completed\t%d\n", out.Completed)
			_, _ = fmt.Fprintf(w, "cancelled\t%d\n", out.Cancelled)
			_, _ = fmt.Fprintf(w, "overdue\t%d\n", out.Overdue)
			_, _ = fmt.Fprintf(w, "needs attention\t%d\n", out.NeedsAttention)
			_, _ = fmt.Fprintf(w, "sessions today\t%d\n", out.SessionsToday)
			_, _ = fmt.Fprintf(w, "sessions this week\t%d\n", out.SessionsThisWeek)
			if len(out.AttentionIDs) > 0 {
				_, _ = fmt.Fprintf(w, "attention\t%s\n", strings.Join(out.AttentionIDs, ", "))
			}
			if out.Issues > 0 {
				_, _ = fmt.Fprintf(w, "row issues\t%d (see log)\n", out.Issues)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop cached rows before reading")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newReportCmd(dataDir *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report [request-id]",
		Short: "Show the progress report of one request, or of all requests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if len(args) == 1 {
				out, err := app.TrackingCLI.Report(ctx, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				printReport(cmd.OutOrStdout(), out)
				return nil
			}
			reports, err := app.TrackingCLI.Reports(ctx, false)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), reports)
			}
			if len(reports) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no requests")
				return nil
			}
			for _, r := range reports {
				flags := ""
				if r.Overdue {
					flags += " overdue"
				}
				if r.NeedsAttention {
					flags += " attention"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.0f%%\t%s\t%s%s\n",
					r.RequestID, r.StatusLabel, r.Percentage, r.Label, r.Service, flags)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printReport(w io.Writer, r dto.ReportOutput) {
	_, _ = fmt.Fprintf(w, "request\t%s\n", r.RequestID)
	_, _ = fmt.Fprintf(w, "service\t%s (%s)\n", r.Service, r.Category)
	_, _ = fmt.Fprintf(w, "status\t%s\n", r.StatusLabel)
	if r.StoredStatus != r.Status {
		_, _ = fmt.Fprintf(w, "stored status\t%s\n", r.StoredStatus)
	}
	_, _ = fmt.Fprintf(w, "progress\t%s (%.1f%%)\n", r.Label, r.Percentage)
	_, _ = fmt.Fprintf(w, "sessions\t%d performed, %d planned\n", r.SessionsPerformed, r.SessionsPlanned)
	if r.LastPerformed != "" {
		_, _ = fmt.Fprintf(w, "last performed\t%s\n", r.LastPerformed)
	}
	if r.NextPlanned != "" {
		_, _ = fmt.Fprintf(w, "next planned\t%s\n", r.NextPlanned)
	}
	if r.Overdue {
		_, _ = fmt.Fprintln(w, "overdue\tyes")
	}
	if r.NeedsAttention {
		_, _ = fmt.Fprintln(w, "needs attention\tyes")
	}
}

func newReindexCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the local report projection from the tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.TrackingCLI.Reindex(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reindex complete")
			return nil
		},
	}
}

func newDashboardCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Run the terminal dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunDashboard(app)
		},
	}
}

func newDoctorCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credentials and store connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "backend\t%s\n", app.Config.Backend)
			_, _ = fmt.Fprintf(w, "session schema\t%s\n", app.Config.SessionSchema)
			identity, err := app.Identity(ctx)
			if err != nil {
				return fmt.Errorf("credentials: %w", err)
			}
			_, _ = fmt.Fprintf(w, "identity\t%s\n", identity)
			title, err := app.Store.Ping(ctx)
			if err != nil {
				return fmt.Errorf("store: %w", err)
			}
			_, _ = fmt.Fprintf(w, "store\t%s\n", title)
			index, err := app.TrackingCLI.IndexStatus(ctx)
			if err != nil {
				return fmt.Errorf("report index: %w", err)
			}
			_, _ = fmt.Fprintf(w, "indexed reports\t%d\n", index.Reports)
			return nil
		},
	}
}

func newConfigCmd(dataDir *string) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Edit config.yaml"}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set-sheet <spreadsheet-id>",
		Short: "Store the spreadsheet id used by the sheets backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New(*dataDir)
			if err != nil {
				return err
			}
			cfg.SpreadsheetID = strings.TrimSpace(args[0])
			if cfg.SpreadsheetID == "" {
				return fmt.Errorf("spreadsheet id is required")
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "spreadsheet set in %s\n", cfg.ConfigPath)
			return nil
		},
	})
	return cfgCmd
}

func newMetricsCmd(dataDir *string) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Run the report pipeline once and print its metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if _, err := app.TrackingCLI.Summary(context.Background(), refresh); err != nil {
				return err
			}
			return app.Metrics.WriteText(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop cached rows before reading")
	return cmd
}
