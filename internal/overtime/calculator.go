package overtime

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shift"
	shifterrors "github.com/nidhinaz01/kndy-pms-sub001/internal/shift/errors"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/workforce"
)

// nominalShiftMinutes is the 8-hour baseline the monthly salary is priced
// against, independent of the worker's actual shift length.
const nominalShiftMinutes = 480

// overtimeRateFactor doubles the derived per-minute rate.
const overtimeRateFactor = 2

// ReportLine is one open report row as the calculator sees it, already
// joined to its work identity. WorkedMinutes of zero means the reporter left
// hours_worked_today blank and the wall-clock interval length applies.
type ReportLine struct {
	ReportID      uuid.UUID
	WorkerCode    string
	WorkCode      string
	Interval      interval.Interval
	WorkedMinutes int
}

// ReportSource yields the draft and pending-approval reports for a stage
// and date, the only rows overtime is ever computed over.
type ReportSource interface {
	ListOpenByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]ReportLine, error)
}

// WorkOvertime attributes overtime minutes and money to one report row.
type WorkOvertime struct {
	ReportID uuid.UUID `json:"report_id"`
	WorkCode string    `json:"work_code"`
	Minutes  int       `json:"minutes"`
	Amount   float64   `json:"amount"`
}

type WorkerOvertime struct {
	WorkerCode       string         `json:"worker_code"`
	AvailableMinutes int            `json:"available_minutes"`
	WorkedMinutes    int            `json:"worked_minutes"`
	OvertimeMinutes  int            `json:"overtime_minutes"`
	OvertimeAmount   float64        `json:"overtime_amount"`
	Works            []WorkOvertime `json:"works"`
}

// WorkerError flags a worker excluded from the batch for a data gap. The
// rest of the batch still computes.
type WorkerError struct {
	WorkerCode string `json:"worker_code"`
	Reason     string `json:"reason"`
}

type Result struct {
	StageCode string           `json:"stage_code"`
	Date      string           `json:"date"`
	Workers   []WorkerOvertime `json:"workers"`
	Errors    []WorkerError    `json:"errors,omitempty"`
}

type Calculator interface {
	// Calculate reconciles each worker's open reports for the stage and
	// date against their shift capacity and prices the excess. Safe to
	// re-run: it reads and computes, the caller persists.
	Calculate(ctx context.Context, stageCode string, date time.Time) (Result, error)
}

type calculator struct {
	reports ReportSource
	workers workforce.Repository
	shifts  shift.Service
	logger  *zap.Logger
}

func NewCalculator(reports ReportSource, workers workforce.Repository, shifts shift.Service, logger ...*zap.Logger) Calculator {
	l := zap.L().Named("overtime.calculator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("overtime.calculator")
	}
	return &calculator{
		reports: reports,
		workers: workers,
		shifts:  shifts,
		logger:  l,
	}
}

func (c *calculator) Calculate(ctx context.Context, stageCode string, date time.Time) (Result, error) {
	result := Result{
		StageCode: stageCode,
		Date:      date.Format("2006-01-02"),
	}

	lines, err := c.reports.ListOpenByStageAndDate(ctx, stageCode, date)
	if err != nil {
		return Result{}, err
	}
	if len(lines) == 0 {
		return result, nil
	}

	byWorker := make(map[string][]ReportLine)
	var workerOrder []string
	for _, line := range lines {
		if _, seen := byWorker[line.WorkerCode]; !seen {
			workerOrder = append(workerOrder, line.WorkerCode)
		}
		byWorker[line.WorkerCode] = append(byWorker[line.WorkerCode], line)
	}

	for _, workerCode := range workerOrder {
		wo, werr := c.calculateWorker(ctx, workerCode, date, byWorker[workerCode])
		if werr != nil {
			c.logger.Warn("worker excluded from overtime batch",
				zap.String("stage_code", stageCode),
				zap.String("worker_code", workerCode),
				zap.String("reason", werr.Reason),
			)
			result.Errors = append(result.Errors, *werr)
			continue
		}
		if wo != nil {
			result.Workers = append(result.Workers, *wo)
		}
	}

	c.logger.Info("overtime batch calculated",
		zap.String("stage_code", stageCode),
		zap.String("date", result.Date),
		zap.Int("workers_with_overtime", len(result.Workers)),
		zap.Int("workers_excluded", len(result.Errors)),
	)
	return result, nil
}

// calculateWorker returns (nil, nil) for a worker with no overtime.
func (c *calculator) calculateWorker(ctx context.Context, workerCode string, date time.Time, lines []ReportLine) (*WorkerOvertime, *WorkerError) {
	worker, err := c.workers.FindByCode(ctx, workerCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &WorkerError{WorkerCode: workerCode, Reason: "worker not found"}
		}
		return nil, &WorkerError{WorkerCode: workerCode, Reason: err.Error()}
	}
	if worker.ShiftCode == "" {
		return nil, &WorkerError{WorkerCode: workerCode, Reason: "no shift assigned"}
	}

	schedule, err := c.shifts.ResolveByShiftCode(ctx, worker.ShiftCode, date)
	if err != nil {
		if errors.Is(err, shifterrors.ErrNoSchedule) {
			return nil, &WorkerError{WorkerCode: workerCode, Reason: "capacity unknown, no schedule for shift " + worker.ShiftCode}
		}
		return nil, &WorkerError{WorkerCode: workerCode, Reason: err.Error()}
	}
	available := schedule.AvailableWorkMinutes()

	sorted := make([]ReportLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Interval.From.Before(sorted[j].Interval.From)
	})

	totalWorked := 0
	for _, line := range sorted {
		totalWorked += lineMinutes(line)
	}
	if totalWorked <= available {
		return nil, nil
	}

	salary, err := c.workers.FindSalary(ctx, workerCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &WorkerError{WorkerCode: workerCode, Reason: "no salary on record"}
		}
		return nil, &WorkerError{WorkerCode: workerCode, Reason: err.Error()}
	}

	ratePerMinute := salary.MonthlySalary / float64(daysInMonth(date)) / nominalShiftMinutes * overtimeRateFactor

	wo := &WorkerOvertime{
		WorkerCode:       workerCode,
		AvailableMinutes: available,
		WorkedMinutes:    totalWorked,
	}

	// Walk chronologically: the report that crosses the capacity threshold
	// contributes only its excess, every later report counts in full.
	running := 0
	for _, line := range sorted {
		minutes := lineMinutes(line)
		if running+minutes <= available {
			running += minutes
			continue
		}
		excess := minutes
		if running < available {
			excess = running + minutes - available
		}
		running += minutes

		amount := round2(ratePerMinute * float64(excess))
		wo.Works = append(wo.Works, WorkOvertime{
			ReportID: line.ReportID,
			WorkCode: line.WorkCode,
			Minutes:  excess,
			Amount:   amount,
		})
		wo.OvertimeMinutes += excess
		wo.OvertimeAmount = round2(wo.OvertimeAmount + amount)
	}

	return wo, nil
}

func lineMinutes(line ReportLine) int {
	if line.WorkedMinutes > 0 {
		return line.WorkedMinutes
	}
	return line.Interval.Minutes()
}

func daysInMonth(date time.Time) int {
	return time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, date.Location()).Day()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
