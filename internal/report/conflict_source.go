package report

import (
	"context"
	"time"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/conflict"
)

// ConflictSource adapts the report repository to the conflict detector's
// commitment view. Every non-deleted report is blocking, regardless of its
// approval status: worked time is worked time.
type ConflictSource struct {
	repo Repository
}

func NewConflictSource(repo Repository) *ConflictSource {
	return &ConflictSource{repo: repo}
}

func (s *ConflictSource) FindCommitments(ctx context.Context, workerCode string, date time.Time) ([]conflict.Record, error) {
	reports, err := s.repo.FindByWorkerAndDate(ctx, workerCode, date)
	if err != nil {
		return nil, err
	}

	records := make([]conflict.Record, 0, len(reports))
	for _, r := range reports {
		records = append(records, conflict.Record{
			Kind:         conflict.KindReport,
			ID:           r.ID,
			WorkerCode:   r.WorkerCode,
			StageCode:    r.StageCode,
			WorkOrderRef: r.WorkOrderRef,
			WorkCode:     r.WorkCode,
			Interval:     r.Interval(),
			Status:       r.Status,
		})
	}
	return records, nil
}
