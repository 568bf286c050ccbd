package reassignment

import (
	"context"
	"time"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/conflict"
)

// ConflictSource adapts the reassignment repository to the conflict
// detector's commitment view. Reassignments are tentative, so they surface
// as warnings, never blocks.
type ConflictSource struct {
	repo Repository
}

func NewConflictSource(repo Repository) *ConflictSource {
	return &ConflictSource{repo: repo}
}

func (s *ConflictSource) FindCommitments(ctx context.Context, workerCode string, date time.Time) ([]conflict.Record, error) {
	rows, err := s.repo.FindActiveByWorkerAndDate(ctx, workerCode, date)
	if err != nil {
		return nil, err
	}

	records := make([]conflict.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, conflict.Record{
			Kind:       conflict.KindReassignment,
			ID:         r.ID,
			WorkerCode: r.WorkerCode,
			StageCode:  r.ToStage,
			Interval:   r.Interval(),
			Status:     r.Status,
		})
	}
	return records, nil
}
