package handler

import "github.com/hydracat/notification-scheduler/internal/domain"

func schedulingRecord(r *domain.SchedulingResult) domain.RunRecord {
	return domain.RunRecord{
		Scheduled:  r.Scheduled,
		Immediate:  r.Immediate,
		Missed:     r.Missed,
		ErrorCount: len(r.Errors),
		Reason:     string(r.Reason),
	}
}

func reconciliationRecord(r *domain.ReconciliationResult) domain.RunRecord {
	rec := domain.RunRecord{
		OrphansCanceled: r.OrphansCanceled,
		MissingCount:    r.MissingCount,
		ErrorCount:      len(r.Errors),
		Reason:          string(r.Reason),
	}
	if r.Rescheduled != nil {
		rec.Scheduled = r.Rescheduled.Scheduled
		rec.Immediate = r.Rescheduled.Immediate
		rec.Missed = r.Rescheduled.Missed
	}
	return rec
}

func cancellationRecord(r *domain.CancellationResult) domain.RunRecord {
	rec := domain.RunRecord{
		Canceled:   r.Canceled,
		ErrorCount: len(r.Errors),
		Reason:     string(r.Reason),
	}
	if r.Rescheduled != nil {
		rec.Scheduled = r.Rescheduled.Scheduled
		rec.Immediate = r.Rescheduled.Immediate
		rec.Missed = r.Rescheduled.Missed
	}
	return rec
}

func weeklyRecord(r *domain.WeeklySummaryResult) domain.RunRecord {
	rec := domain.RunRecord{
		Canceled:   r.Canceled,
		ErrorCount: len(r.Errors),
		Reason:     string(r.Reason),
	}
	if r.Scheduled {
		rec.Scheduled = 1
	}
	return rec
}
