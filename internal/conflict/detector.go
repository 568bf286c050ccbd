package conflict

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
)

// ReportSource yields a worker's reported time on a calendar date.
type ReportSource interface {
	FindCommitments(ctx context.Context, workerCode string, date time.Time) ([]Record, error)
}

// PlanSource yields a worker's active planned time on a calendar date.
type PlanSource interface {
	FindCommitments(ctx context.Context, workerCode string, date time.Time) ([]Record, error)
}

// ReassignmentSource yields a worker's stage reassignments on a date.
type ReassignmentSource interface {
	FindCommitments(ctx context.Context, workerCode string, date time.Time) ([]Record, error)
}

// Options tune one check. Exclusion lists let an edit-in-place operation
// ignore the records being edited.
type Options struct {
	ExcludePlanIDs   []uuid.UUID
	ExcludeReportIDs []uuid.UUID
}

type Detector interface {
	// Check gathers, per worker, the existing same-date reports, plans and
	// reassignments, filters by overlap with the candidate, and classifies
	// each hit. Only already-persisted records are consulted, so siblings
	// of the same in-flight request never conflict with each other.
	Check(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts Options) (Result, error)
}

type detector struct {
	reports       ReportSource
	plans         PlanSource
	reassignments ReassignmentSource
	logger        *zap.Logger
}

func NewDetector(reports ReportSource, plans PlanSource, reassignments ReassignmentSource, logger ...*zap.Logger) Detector {
	l := zap.L().Named("conflict.detector")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("conflict.detector")
	}
	return &detector{
		reports:       reports,
		plans:         plans,
		reassignments: reassignments,
		logger:        l,
	}
}

func (d *detector) Check(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts Options) (Result, error) {
	var result Result

	excludedPlans := toSet(opts.ExcludePlanIDs)
	excludedReports := toSet(opts.ExcludeReportIDs)

	for _, workerCode := range workerCodes {
		reports, err := d.reports.FindCommitments(ctx, workerCode, date)
		if err != nil {
			d.degrade(&result, workerCode, KindReport, err)
		} else {
			for _, rec := range reports {
				if excludedReports[rec.ID] {
					continue
				}
				if rec.Interval.Overlaps(candidate) {
					result.Blocking = append(result.Blocking, toConflict(rec, SeverityBlocking))
				}
			}
		}

		plans, err := d.plans.FindCommitments(ctx, workerCode, date)
		if err != nil {
			d.degrade(&result, workerCode, KindPlan, err)
		} else {
			for _, rec := range plans {
				if excludedPlans[rec.ID] {
					continue
				}
				if rec.Interval.Overlaps(candidate) {
					result.Warnings = append(result.Warnings, toConflict(rec, SeverityWarning))
				}
			}
		}

		reassignments, err := d.reassignments.FindCommitments(ctx, workerCode, date)
		if err != nil {
			d.degrade(&result, workerCode, KindReassignment, err)
		} else {
			for _, rec := range reassignments {
				if rec.Interval.Overlaps(candidate) {
					result.Warnings = append(result.Warnings, toConflict(rec, SeverityWarning))
				}
			}
		}
	}

	if result.HasBlocking() || result.HasWarnings() {
		d.logger.Debug("conflicts detected",
			zap.Int("blocking", len(result.Blocking)),
			zap.Int("warnings", len(result.Warnings)),
			zap.Strings("workers", workerCodes),
		)
	}

	return result, nil
}

// degrade records a per-worker read failure without failing the batch.
func (d *detector) degrade(result *Result, workerCode string, source Kind, err error) {
	d.logger.Warn("conflict source read failed",
		zap.String("worker_code", workerCode),
		zap.String("source", string(source)),
		zap.Error(err),
	)
	result.Diagnostics = append(result.Diagnostics, Diagnostic{
		WorkerCode: workerCode,
		Source:     source,
		Reason:     err.Error(),
	})
}

func toConflict(rec Record, severity Severity) Conflict {
	return Conflict{
		WorkerCode:   rec.WorkerCode,
		Kind:         rec.Kind,
		RecordID:     rec.ID,
		WorkOrderRef: rec.WorkOrderRef,
		WorkCode:     rec.WorkCode,
		From:         rec.Interval.From,
		To:           rec.Interval.To,
		Severity:     severity,
	}
}

func toSet(ids []uuid.UUID) map[uuid.UUID]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
