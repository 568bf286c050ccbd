package shift

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
	shifterrors "github.com/nidhinaz01/kndy-pms-sub001/internal/shift/errors"
)

// ResolvedSchedule is the shift that applies to a stage on a date, with its
// ordered breaks, ready for capacity math.
type ResolvedSchedule struct {
	Shift  Shift
	Breaks []ShiftBreak
	Date   time.Time
}

// Window is the shift span anchored on the resolved date, overnight-wrapped.
func (rs ResolvedSchedule) Window() interval.Interval {
	return interval.New(rs.Date, rs.Shift.StartTime, rs.Shift.EndTime)
}

// BreakMinutes counts only the portion of each break that falls inside the
// shift window; a break wholly outside contributes nothing.
func (rs ResolvedSchedule) BreakMinutes() int {
	window := rs.Window()
	total := 0
	for _, b := range rs.Breaks {
		span := interval.New(rs.Date, b.StartTime, b.EndTime)
		// On an overnight shift a break clocked after midnight anchors
		// before the window start; move it onto the next day.
		if !span.To.After(window.From) {
			span = interval.FromInstants(span.From.Add(24*time.Hour), span.To.Add(24*time.Hour))
		}
		if clamped, ok := span.ClampTo(window); ok {
			total += clamped.Minutes()
		}
	}
	return total
}

// AvailableWorkMinutes is the shift span minus in-window break minutes.
func (rs ResolvedSchedule) AvailableWorkMinutes() int {
	return rs.Window().Minutes() - rs.BreakMinutes()
}

type Service interface {
	// Resolve finds the applicable shift and breaks for a stage on a date.
	// A nil error with a nil result never happens: failure to find any
	// schedule is ErrNoSchedule, which callers treat as capacity unknown.
	Resolve(ctx context.Context, stageCode string, date time.Time) (*ResolvedSchedule, error)
	// ResolveByShiftCode looks up a worker's assigned shift directly.
	ResolveByShiftCode(ctx context.Context, shiftCode string, date time.Time) (*ResolvedSchedule, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("shift.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shift.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Resolve(ctx context.Context, stageCode string, date time.Time) (*ResolvedSchedule, error) {
	associations, err := s.repo.FindStageShifts(ctx, stageCode)
	if err != nil {
		return nil, err
	}

	for _, assoc := range associations {
		sched, err := s.repo.FindActiveSchedule(ctx, assoc.ShiftID, date)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		return s.load(ctx, sched.ShiftID, date)
	}

	// Degraded path: no stage association matched, take any active
	// schedule for the date.
	sched, err := s.repo.FindAnyActiveSchedule(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("no schedule found for date",
				zap.String("stage_code", stageCode),
				zap.String("date", date.Format("2006-01-02")),
			)
			return nil, shifterrors.ErrNoSchedule
		}
		return nil, err
	}

	s.logger.Warn("stage has no scheduled shift, using fallback schedule",
		zap.String("stage_code", stageCode),
		zap.String("date", date.Format("2006-01-02")),
		zap.String("shift_id", sched.ShiftID.String()),
	)
	return s.load(ctx, sched.ShiftID, date)
}

func (s *service) ResolveByShiftCode(ctx context.Context, shiftCode string, date time.Time) (*ResolvedSchedule, error) {
	sh, err := s.repo.FindByCode(ctx, shiftCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shifterrors.ErrShiftNotFound
		}
		return nil, err
	}

	breaks, err := s.repo.FindBreaks(ctx, sh.ID)
	if err != nil {
		return nil, err
	}

	return &ResolvedSchedule{Shift: *sh, Breaks: breaks, Date: date}, nil
}

func (s *service) load(ctx context.Context, shiftID uuid.UUID, date time.Time) (*ResolvedSchedule, error) {
	sh, err := s.repo.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	breaks, err := s.repo.FindBreaks(ctx, sh.ID)
	if err != nil {
		return nil, err
	}

	return &ResolvedSchedule{Shift: *sh, Breaks: breaks, Date: date}, nil
}
