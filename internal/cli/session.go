package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hydracat/notification-scheduler/internal/config"
	"github.com/hydracat/notification-scheduler/internal/domain"
	"github.com/hydracat/notification-scheduler/internal/observability/logging"
	"github.com/hydracat/notification-scheduler/internal/service/reminder"
	"github.com/hydracat/notification-scheduler/internal/service/rollover"
)

// SessionOptions identifies the session a one-shot command acts on.
type SessionOptions struct {
	*RootOptions
	UserID   string
	PetID    string
	PetName  string
	TimeZone string
	Locale   string
}

func (o *SessionOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.UserID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&o.PetID, "pet", "", "pet id (required)")
	cmd.Flags().StringVar(&o.PetName, "pet-name", "", "pet name used in notification text")
	cmd.Flags().StringVar(&o.TimeZone, "tz", "", "IANA time zone of the session (default DEFAULT_TIME_ZONE)")
	cmd.Flags().StringVar(&o.Locale, "locale", "", "notification locale (default DEFAULT_LOCALE)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pet")
}

func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule today's window of reminders for one pet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts, reminder.OperationSchedule, func(ctx context.Context, coord *reminder.Coordinator) (any, domain.Reason) {
				result := coord.ScheduleAllForToday(ctx)
				return result, result.Reason
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile the platform's pending reminders with today's index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts, reminder.OperationReconcile, func(ctx context.Context, coord *reminder.Coordinator) (any, domain.Reason) {
				result := coord.RescheduleAll(ctx)
				return result, result.Reason
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func NewCancelScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}
	var scheduleID string
	var times []string

	cmd := &cobra.Command{
		Use:   "cancel-schedule",
		Short: "Cancel every reminder of one schedule across the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slots := make([]domain.TimeSlot, 0, len(times))
			for _, t := range times {
				slot, err := domain.ParseTimeSlot(t)
				if err != nil {
					return err
				}
				slots = append(slots, slot)
			}
			schedule := domain.Schedule{ID: scheduleID, ReminderTimes: slots}

			return runSession(cmd, opts, reminder.OperationCancelSchedule, func(ctx context.Context, coord *reminder.Coordinator) (any, domain.Reason) {
				result := coord.CancelForSchedule(ctx, schedule)
				return result, result.Reason
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&scheduleID, "schedule", "", "schedule id (required)")
	cmd.Flags().StringSliceVar(&times, "times", nil, "reminder times of the schedule, HH:MM (required)")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("times")
	return cmd
}

func NewWeeklySummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}
	var cancel bool

	cmd := &cobra.Command{
		Use:   "weekly-summary",
		Short: "Schedule next Monday's weekly summary, or cancel upcoming ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			operation := reminder.OperationScheduleWeekly
			if cancel {
				operation = reminder.OperationCancelWeeklySummary
			}
			return runSession(cmd, opts, operation, func(ctx context.Context, coord *reminder.Coordinator) (any, domain.Reason) {
				if cancel {
					result := coord.CancelWeeklySummary(ctx)
					return result, result.Reason
				}
				result := coord.ScheduleWeeklySummary(ctx)
				return result, result.Reason
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&cancel, "cancel", false, "cancel the upcoming summaries instead")
	return cmd
}

func NewRolloverCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Reconcile every registered session whose local date has changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setupCommand(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			job := rollover.NewJob(a.sessions, a.factory, a.recorder, a.cfg.Rollover.Cron)
			return writeJSON(cmd, job.RunOnce(ctx))
		},
	}
}

type sessionOperation func(ctx context.Context, coord *reminder.Coordinator) (any, domain.Reason)

func runSession(cmd *cobra.Command, opts *SessionOptions, operation string, op sessionOperation) error {
	ctx := cmd.Context()

	a, err := setupCommand(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	record := domain.SessionRecord{
		UserID:   opts.UserID,
		PetID:    opts.PetID,
		PetName:  opts.PetName,
		TimeZone: opts.TimeZone,
		Locale:   opts.Locale,
	}
	if record.TimeZone == "" {
		record.TimeZone = a.cfg.Reminder.DefaultTimeZone
	}
	if record.Locale == "" {
		record.Locale = a.cfg.Reminder.DefaultLocale
	}

	session, err := record.Session()
	if err != nil {
		return err
	}
	if err := a.sessions.Save(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to register session", slog.String("error", err.Error()))
	}

	result, reason := op(ctx, a.factory.ForSession(session))
	slog.DebugContext(ctx, "command completed",
		slog.String("operation", operation),
		slog.String("reason", string(reason)),
	)

	if reason == domain.ReasonNone && (operation == reminder.OperationSchedule || operation == reminder.OperationReconcile) {
		date := domain.DateKey(time.Now().In(session.Loc()))
		if err := a.sessions.MarkReconciled(ctx, session.UserID, session.PetID, date); err != nil {
			slog.WarnContext(ctx, "failed to mark session reconciled", slog.String("error", err.Error()))
		}
	}

	if reason != domain.ReasonNone {
		if err := writeJSON(cmd, result); err != nil {
			return err
		}
		return fmt.Errorf("%s short-circuited: %s", operation, reason)
	}
	return writeJSON(cmd, result)
}

// setupCommand configures logging to stderr and builds the app from the environment.
func setupCommand(ctx context.Context, opts *RootOptions) (*app, error) {
	level := logging.ParseLevel(os.Getenv("LOG_LEVEL"))
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, logging.HandlerConfig{
		Service:       logging.ServiceInfo{Name: "notification-scheduler", Version: opts.Version},
		Environment:   logging.EnvDev,
		DefaultModule: logging.Module("cli"),
		Level:         level,
	})))

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := config.ValidateForRun(cfg); err != nil {
		return nil, err
	}

	return newApp(ctx, cfg, appOptions{})
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
