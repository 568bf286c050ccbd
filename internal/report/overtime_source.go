package report

import (
	"context"
	"time"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/overtime"
)

// OvertimeSource feeds the overtime calculator the open report rows for a
// stage and date.
type OvertimeSource struct {
	repo Repository
}

func NewOvertimeSource(repo Repository) *OvertimeSource {
	return &OvertimeSource{repo: repo}
}

func (s *OvertimeSource) ListOpenByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]overtime.ReportLine, error) {
	reports, err := s.repo.FindOpenByStageAndDate(ctx, stageCode, date)
	if err != nil {
		return nil, err
	}

	lines := make([]overtime.ReportLine, 0, len(reports))
	for _, r := range reports {
		lines = append(lines, overtime.ReportLine{
			ReportID:      r.ID,
			WorkerCode:    r.WorkerCode,
			WorkCode:      r.WorkCode,
			Interval:      r.Interval(),
			WorkedMinutes: r.WorkedMinutes(),
		})
	}
	return lines, nil
}
