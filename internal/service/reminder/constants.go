package reminder

import "time"

const (
	WindowDays     = 3
	GracePeriod    = 30 * time.Minute
	FollowupOffset = 2 * time.Hour

	// immediateDelay is how far ahead a grace-period reminder is placed.
	immediateDelay = time.Second

	weeklySummaryHour  = 9
	weeklySummaryWeeks = 4
)

const (
	ChannelMedication    = "medication_reminders"
	ChannelFluid         = "fluid_reminders"
	ChannelBundle        = "treatment_reminders"
	ChannelWeeklySummary = "weekly_summaries"
)

const (
	OperationSchedule            = "schedule_all"
	OperationRefresh             = "refresh_all"
	OperationReconcile           = "reschedule_all"
	OperationCancelSchedule      = "cancel_schedule"
	OperationCancelSlot          = "cancel_slot"
	OperationCancelAll           = "cancel_all"
	OperationScheduleWeekly      = "schedule_weekly_summary"
	OperationCancelWeeklySummary = "cancel_weekly_summary"
)

const (
	outcomeScheduled = "scheduled"
	outcomeImmediate = "immediate"
	outcomeMissed    = "missed"
	outcomeFailed    = "failed"
	outcomeCanceled  = "canceled"
)
