// Package cli wires the scheduler's commands: the HTTP server and one-shot
// operations against a single session.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/hydracat/notification-scheduler/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Version  string
	EnvFiles []string
	Verbose  bool
}

// NewRootCommand creates the root command for the scheduler binary.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{Version: version}

	cmd := &cobra.Command{
		Use:     "notification-scheduler",
		Short:   "Schedules and reconciles pet treatment reminders",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(opts.EnvFiles...)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewCancelScheduleCommand(opts))
	cmd.AddCommand(NewWeeklySummaryCommand(opts))
	cmd.AddCommand(NewRolloverCommand(opts))

	return cmd
}
