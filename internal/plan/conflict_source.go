package plan

import (
	"context"
	"time"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/conflict"
)

// ConflictSource adapts the plan repository to the conflict detector's
// commitment view.
type ConflictSource struct {
	repo Repository
}

func NewConflictSource(repo Repository) *ConflictSource {
	return &ConflictSource{repo: repo}
}

func (s *ConflictSource) FindCommitments(ctx context.Context, workerCode string, date time.Time) ([]conflict.Record, error) {
	plans, err := s.repo.FindActiveByWorkerAndDate(ctx, workerCode, date)
	if err != nil {
		return nil, err
	}

	records := make([]conflict.Record, 0, len(plans))
	for _, p := range plans {
		if p.IsDeviation() {
			continue
		}
		records = append(records, conflict.Record{
			Kind:         conflict.KindPlan,
			ID:           p.ID,
			WorkerCode:   p.WorkerCode,
			StageCode:    p.StageCode,
			WorkOrderRef: p.WorkOrderRef,
			WorkCode:     p.WorkCode,
			Interval:     p.Interval(),
			Status:       p.Status,
		})
	}
	return records, nil
}
