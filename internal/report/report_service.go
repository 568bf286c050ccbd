package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/conflict"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/events"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/messaging/kafka"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/overtime"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/plan"
	reporterrors "github.com/nidhinaz01/kndy-pms-sub001/internal/report/errors"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/contextutil"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/workstatus"
)

const (
	StatusDraft           = "DRAFT"
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusApproved        = "APPROVED"
	StatusRejected        = "REJECTED"
)

// SubmitReportsResponse carries the transitioned reports plus the overtime
// batch that was priced into them.
type SubmitReportsResponse struct {
	Reports  []ReportResponse `json:"reports"`
	Overtime overtime.Result  `json:"overtime"`
}

type Service interface {
	// Create records worked time against an approved plan. The blocking
	// conflict gate re-runs here, at the ground-truth-forming step, even
	// when the plan itself was created with confirmed warnings.
	Create(ctx context.Context, actorID string, req CreateReportRequest) (ReportResponse, error)
	GetByID(ctx context.Context, id string) (ReportResponse, error)
	GetByStageAndDate(ctx context.Context, stageCode, date string) ([]ReportResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateReportRequest) (ReportResponse, error)
	// Submit moves every draft report for the stage and date into the
	// approval pipeline, pricing overtime into the rows as it goes.
	Submit(ctx context.Context, actorID string, req SubmitReportsRequest) (SubmitReportsResponse, error)
	Approve(ctx context.Context, actorID, id string) (ReportResponse, error)
	Reject(ctx context.Context, actorID, id, rejectionReason string) (ReportResponse, error)
	// Supersede soft-deletes a report, reopening the plan for a fresh
	// report chain.
	Supersede(ctx context.Context, actorID, id string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	plans      plan.Repository
	detector   conflict.Detector
	calculator overtime.Calculator
	statuses   workstatus.Service
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	plans plan.Repository,
	detector conflict.Detector,
	calculator overtime.Calculator,
	statuses workstatus.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		plans:      plans,
		detector:   detector,
		calculator: calculator,
		statuses:   statuses,
		outbox:     outbox,
		logger:     l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateReportRequest) (ReportResponse, error) {
	s.logger.Debug("create report requested",
		zap.String("actor_id", actorID),
		zap.String("plan_id", req.PlanID),
		zap.String("work_date", req.WorkDate),
	)

	if actorID == "" {
		return ReportResponse{}, reporterrors.ErrInvalidActorID
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return ReportResponse{}, reporterrors.ErrReportNotFound
	}
	if req.CompletionStatus != CompletionComplete && req.CompletionStatus != CompletionNotComplete {
		return ReportResponse{}, reporterrors.ErrInvalidCompletionStatus
	}
	date, fromTime, toTime, candidate, err := parseWindow(req.WorkDate, req.FromTime, req.ToTime)
	if err != nil {
		return ReportResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create report begin tx failed", zap.Error(err))
		return ReportResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qplans := s.plans.WithTx(tx)

	p, err := qplans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReportResponse{}, reporterrors.ErrReportNotFound
		}
		return ReportResponse{}, err
	}
	if p.IsDeviation() {
		return ReportResponse{}, reporterrors.ErrDeviationNotReportable
	}
	if p.Status != plan.StatusApproved {
		return ReportResponse{}, reporterrors.ErrPlanNotApproved
	}

	if _, err := qtx.FindActiveByPlan(ctx, planID); err == nil {
		return ReportResponse{}, reporterrors.ErrReportExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ReportResponse{}, err
	}

	// The plan being reported is its own commitment; exclude it so it
	// does not warn against itself.
	result, err := s.detector.Check(ctx, []string{p.WorkerCode}, date, candidate, conflict.Options{
		ExcludePlanIDs: []uuid.UUID{planID},
	})
	if err != nil {
		s.logger.Error("create report conflict check failed", zap.Error(err))
		return ReportResponse{}, err
	}
	if err := gateConflicts(result, req.ConfirmWarnings); err != nil {
		s.logger.Warn("create report refused by conflict gate",
			zap.String("plan_id", req.PlanID),
			zap.Int("blocking", len(result.Blocking)),
			zap.Int("warnings", len(result.Warnings)),
		)
		return ReportResponse{}, err
	}

	hoursToday := req.HoursWorkedToday
	if hoursToday == 0 {
		hoursToday = float64(candidate.Minutes()) / 60
	}

	lostMinutes := 0
	for _, lt := range req.LostTime {
		lostMinutes += lt.Minutes
	}

	rep := &WorkReport{
		ID:                  uuid.New(),
		PlanID:              planID,
		StageCode:           p.StageCode,
		WorkOrderRef:        p.WorkOrderRef,
		WorkCode:            p.WorkCode,
		WorkerCode:          p.WorkerCode,
		WorkDate:            date,
		FromTime:            fromTime,
		ToTime:              toTime,
		HoursWorkedTillDate: p.TimeWorkedTillDate + hoursToday,
		HoursWorkedToday:    hoursToday,
		CompletionStatus:    req.CompletionStatus,
		LostTimeMinutes:     lostMinutes,
		Status:              StatusDraft,
		CreatedBy:           actorID,
	}
	if err := qtx.Create(ctx, rep); err != nil {
		s.logger.Error("create report persist failed", zap.Error(err))
		return ReportResponse{}, err
	}

	if len(req.LostTime) > 0 {
		entries := make([]LostTimeEntry, 0, len(req.LostTime))
		for _, lt := range req.LostTime {
			entries = append(entries, LostTimeEntry{
				ID:         uuid.New(),
				ReportID:   rep.ID,
				ReasonCode: lt.ReasonCode,
				Minutes:    lt.Minutes,
				Remarks:    lt.Remarks,
			})
		}
		if err := qtx.CreateLostTime(ctx, entries); err != nil {
			s.logger.Error("create report lost time persist failed", zap.Error(err))
			return ReportResponse{}, err
		}
	}

	p.TimeWorkedTillDate += hoursToday
	p.RemainingTime = p.PlannedHours - p.TimeWorkedTillDate
	if err := qplans.Update(ctx, p); err != nil {
		s.logger.Error("create report plan rollup failed", zap.Error(err))
		return ReportResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create report commit failed", zap.Error(err))
		return ReportResponse{}, err
	}

	s.recomputeStatus(ctx, rep.StageCode, rep.WorkOrderRef, rep.WorkCode)

	s.logger.Info("create report success",
		zap.String("report_id", rep.ID.String()),
		zap.String("plan_id", req.PlanID),
		zap.String("worker_code", rep.WorkerCode),
	)
	return mapToResponse(*rep), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ReportResponse, error) {
	reportID, err := uuid.Parse(id)
	if err != nil {
		return ReportResponse{}, reporterrors.ErrReportNotFound
	}
	rep, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReportResponse{}, reporterrors.ErrReportNotFound
		}
		return ReportResponse{}, err
	}

	resp := mapToResponse(*rep)
	entries, err := s.repo.FindLostTime(ctx, reportID)
	if err != nil {
		return ReportResponse{}, err
	}
	resp.LostTime = mapLostTime(entries)
	return resp, nil
}

func (s *service) GetByStageAndDate(ctx context.Context, stageCode, date string) ([]ReportResponse, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, reporterrors.ErrInvalidDateFormat
	}
	rows, err := s.repo.FindByStageAndDate(ctx, stageCode, d)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateReportRequest) (ReportResponse, error) {
	s.logger.Debug("update report requested",
		zap.String("report_id", id),
		zap.String("actor_id", actorID),
	)

	if actorID == "" {
		return ReportResponse{}, reporterrors.ErrInvalidActorID
	}
	reportID, err := uuid.Parse(id)
	if err != nil {
		return ReportResponse{}, reporterrors.ErrReportNotFound
	}
	if req.CompletionStatus != CompletionComplete && req.CompletionStatus != CompletionNotComplete {
		return ReportResponse{}, reporterrors.ErrInvalidCompletionStatus
	}
	date, fromTime, toTime, candidate, err := parseWindow(req.WorkDate, req.FromTime, req.ToTime)
	if err != nil {
		return ReportResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update report begin tx failed", zap.Error(err))
		return ReportResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rep, err := qtx.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReportResponse{}, reporterrors.ErrReportNotFound
		}
		return ReportResponse{}, err
	}
	if rep.Status != StatusDraft && rep.Status != StatusRejected {
		return ReportResponse{}, reporterrors.ErrReportNotEditable
	}

	result, err := s.detector.Check(ctx, []string{rep.WorkerCode}, date, candidate, conflict.Options{
		ExcludePlanIDs:   []uuid.UUID{rep.PlanID},
		ExcludeReportIDs: []uuid.UUID{reportID},
	})
	if err != nil {
		s.logger.Error("update report conflict check failed", zap.Error(err))
		return ReportResponse{}, err
	}
	if err := gateConflicts(result, req.ConfirmWarnings); err != nil {
		return ReportResponse{}, err
	}

	hoursToday := req.HoursWorkedToday
	if hoursToday == 0 {
		hoursToday = float64(candidate.Minutes()) / 60
	}

	rep.WorkDate = date
	rep.FromTime = fromTime
	rep.ToTime = toTime
	rep.HoursWorkedTillDate += hoursToday - rep.HoursWorkedToday
	rep.HoursWorkedToday = hoursToday
	rep.CompletionStatus = req.CompletionStatus
	// Any edit puts the row back through the approval cycle and voids
	// previously priced overtime.
	rep.Status = StatusDraft
	rep.OvertimeMinutes = 0
	rep.OvertimeAmount = 0
	rep.ApprovedBy = nil
	rep.ApprovedAt = nil
	rep.RejectionReason = nil

	if err := qtx.Update(ctx, rep); err != nil {
		s.logger.Error("update report persist failed",
			zap.String("report_id", id),
			zap.Error(err),
		)
		return ReportResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update report commit failed", zap.String("report_id", id), zap.Error(err))
		return ReportResponse{}, err
	}

	s.recomputeStatus(ctx, rep.StageCode, rep.WorkOrderRef, rep.WorkCode)

	s.logger.Info("update report success", zap.String("report_id", id))
	return mapToResponse(*rep), nil
}

func (s *service) Submit(ctx context.Context, actorID string, req SubmitReportsRequest) (SubmitReportsResponse, error) {
	s.logger.Debug("submit reports requested",
		zap.String("actor_id", actorID),
		zap.String("stage_code", req.StageCode),
		zap.String("work_date", req.WorkDate),
	)

	if actorID == "" {
		return SubmitReportsResponse{}, reporterrors.ErrInvalidActorID
	}
	date, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return SubmitReportsResponse{}, reporterrors.ErrInvalidDateFormat
	}

	// Price overtime before the transition so draft rows are still in
	// the calculator's view.
	otResult, err := s.calculator.Calculate(ctx, req.StageCode, date)
	if err != nil {
		s.logger.Error("submit reports overtime calculation failed", zap.Error(err))
		return SubmitReportsResponse{}, err
	}
	otByReport := make(map[uuid.UUID]overtime.WorkOvertime)
	for _, wo := range otResult.Workers {
		for _, work := range wo.Works {
			otByReport[work.ReportID] = work
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit reports begin tx failed", zap.Error(err))
		return SubmitReportsResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	open, err := qtx.FindOpenByStageAndDate(ctx, req.StageCode, date)
	if err != nil {
		return SubmitReportsResponse{}, err
	}

	qoutbox := s.outbox.WithTx(tx)
	var submitted []WorkReport
	keys := make(map[workstatus.WorkKey]bool)
	for i := range open {
		rep := &open[i]
		if rep.Status != StatusDraft {
			continue
		}

		if work, ok := otByReport[rep.ID]; ok {
			rep.OvertimeMinutes = work.Minutes
			rep.OvertimeAmount = work.Amount
		} else {
			rep.OvertimeMinutes = 0
			rep.OvertimeAmount = 0
		}
		rep.Status = StatusPendingApproval

		if err := qtx.Update(ctx, rep); err != nil {
			s.logger.Error("submit reports persist failed",
				zap.String("report_id", rep.ID.String()),
				zap.Error(err),
			)
			return SubmitReportsResponse{}, err
		}
		if err := s.enqueueSubmittedEvent(ctx, qoutbox, *rep); err != nil {
			s.logger.Error("enqueue report submitted event failed",
				zap.String("report_id", rep.ID.String()),
				zap.Error(err),
			)
			return SubmitReportsResponse{}, err
		}

		submitted = append(submitted, *rep)
		keys[workstatus.WorkKey{
			StageCode:    rep.StageCode,
			WorkOrderRef: rep.WorkOrderRef,
			WorkCode:     rep.WorkCode,
		}] = true
	}

	for _, wo := range otResult.Workers {
		if err := s.enqueueOvertimeEvent(ctx, qoutbox, req.StageCode, req.WorkDate, wo); err != nil {
			s.logger.Error("enqueue overtime event failed",
				zap.String("worker_code", wo.WorkerCode),
				zap.Error(err),
			)
			return SubmitReportsResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit reports commit failed", zap.Error(err))
		return SubmitReportsResponse{}, err
	}

	for key := range keys {
		s.recomputeStatus(ctx, key.StageCode, key.WorkOrderRef, key.WorkCode)
	}

	s.logger.Info("submit reports success",
		zap.String("stage_code", req.StageCode),
		zap.String("work_date", req.WorkDate),
		zap.Int("submitted", len(submitted)),
		zap.Int("workers_with_overtime", len(otResult.Workers)),
	)

	return SubmitReportsResponse{
		Reports:  mapToListResponse(submitted),
		Overtime: otResult,
	}, nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (ReportResponse, error) {
	return s.transitionStatus(ctx, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, actorID, id, rejectionReason string) (ReportResponse, error) {
	return s.transitionStatus(ctx, actorID, id, StatusRejected, &rejectionReason)
}

func (s *service) transitionStatus(ctx context.Context, actorID, id, targetStatus string, rejectionReason *string) (ReportResponse, error) {
	if actorID == "" {
		return ReportResponse{}, reporterrors.ErrInvalidActorID
	}
	reportID, err := uuid.Parse(id)
	if err != nil {
		return ReportResponse{}, reporterrors.ErrReportNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition report status begin tx failed", zap.Error(err))
		return ReportResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rep, err := qtx.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReportResponse{}, reporterrors.ErrReportNotFound
		}
		return ReportResponse{}, err
	}
	if rep.Status != StatusPendingApproval {
		s.logger.Warn("transition report status invalid",
			zap.String("report_id", id),
			zap.String("from_status", rep.Status),
			zap.String("to_status", targetStatus),
		)
		return ReportResponse{}, reporterrors.ErrInvalidStatusTransition
	}

	rep.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		approver := actorID
		rep.ApprovedBy = &approver
		now := time.Now().UTC()
		rep.ApprovedAt = &now
		rep.RejectionReason = nil
	case StatusRejected:
		if rejectionReason == nil || *rejectionReason == "" {
			return ReportResponse{}, reporterrors.ErrRejectionReasonRequired
		}
		rep.ApprovedBy = nil
		rep.ApprovedAt = nil
		rep.RejectionReason = rejectionReason
	}

	if err := qtx.Update(ctx, rep); err != nil {
		s.logger.Error("transition report status persist failed",
			zap.String("report_id", id),
			zap.Error(err),
		)
		return ReportResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("transition report status commit failed",
			zap.String("report_id", id),
			zap.Error(err),
		)
		return ReportResponse{}, err
	}

	s.recomputeStatus(ctx, rep.StageCode, rep.WorkOrderRef, rep.WorkCode)

	s.logger.Info("transition report status success",
		zap.String("report_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*rep), nil
}

func (s *service) Supersede(ctx context.Context, actorID, id string) error {
	if actorID == "" {
		return reporterrors.ErrInvalidActorID
	}
	reportID, err := uuid.Parse(id)
	if err != nil {
		return reporterrors.ErrReportNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qplans := s.plans.WithTx(tx)

	rep, err := qtx.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reporterrors.ErrReportNotFound
		}
		return err
	}

	if err := qtx.SoftDelete(ctx, reportID); err != nil {
		s.logger.Error("supersede report persist failed",
			zap.String("report_id", id),
			zap.Error(err),
		)
		return err
	}

	// Back the worked-time rollup out of the plan.
	p, err := qplans.FindByID(ctx, rep.PlanID)
	if err == nil {
		p.TimeWorkedTillDate -= rep.HoursWorkedToday
		p.RemainingTime = p.PlannedHours - p.TimeWorkedTillDate
		if err := qplans.Update(ctx, p); err != nil {
			return err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.recomputeStatus(ctx, rep.StageCode, rep.WorkOrderRef, rep.WorkCode)

	s.logger.Info("supersede report success",
		zap.String("report_id", id),
		zap.String("actor_id", actorID),
	)
	return nil
}

func (s *service) enqueueSubmittedEvent(ctx context.Context, outbox kafka.OutboxRepository, rep WorkReport) error {
	payload, err := json.Marshal(events.ReportSubmittedEvent{
		ReportID:     rep.ID.String(),
		PlanID:       rep.PlanID.String(),
		StageCode:    rep.StageCode,
		WorkOrderRef: rep.WorkOrderRef,
		WorkCode:     rep.WorkCode,
		WorkerCode:   rep.WorkerCode,
		WorkDate:     rep.WorkDate.Format("2006-01-02"),
	})
	if err != nil {
		return err
	}

	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "work_report",
		AggregateID:   rep.ID.String(),
		EventType:     events.ReportSubmittedEventType,
		Topic:         events.ReportSubmittedTopic,
		Payload:       payload,
	})
}

func (s *service) enqueueOvertimeEvent(ctx context.Context, outbox kafka.OutboxRepository, stageCode, workDate string, wo overtime.WorkerOvertime) error {
	payload, err := json.Marshal(events.OvertimeCalculatedEvent{
		StageCode:       stageCode,
		WorkDate:        workDate,
		WorkerCode:      wo.WorkerCode,
		OvertimeMinutes: wo.OvertimeMinutes,
		OvertimeAmount:  wo.OvertimeAmount,
	})
	if err != nil {
		return err
	}

	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "worker_overtime",
		AggregateID:   wo.WorkerCode,
		EventType:     events.OvertimeCalculatedEventType,
		Topic:         events.OvertimeCalculatedTopic,
		Payload:       payload,
	})
}

func (s *service) recomputeStatus(ctx context.Context, stageCode, workOrderRef, workCode string) {
	key := workstatus.WorkKey{
		StageCode:    stageCode,
		WorkOrderRef: workOrderRef,
		WorkCode:     workCode,
	}
	if _, err := s.statuses.Recompute(ctx, key); err != nil {
		s.logger.Warn("work status recompute failed",
			zap.String("key", key.String()),
			zap.Error(err),
		)
	}
}

func gateConflicts(result conflict.Result, confirmWarnings bool) error {
	if result.HasBlocking() {
		return reporterrors.ErrBlockingConflict.WithDetails(result)
	}
	if result.HasWarnings() && !confirmWarnings {
		return reporterrors.ErrWarningConflict.WithDetails(result)
	}
	return nil
}

func parseWindow(workDate, from, to string) (time.Time, time.Time, time.Time, interval.Interval, error) {
	date, err := time.Parse("2006-01-02", workDate)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, interval.Interval{}, reporterrors.ErrInvalidDateFormat
	}
	fromTime, err := time.Parse("15:04", from)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, interval.Interval{}, reporterrors.ErrInvalidTimeFormat
	}
	toTime, err := time.Parse("15:04", to)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, interval.Interval{}, reporterrors.ErrInvalidTimeFormat
	}
	if fromTime.Equal(toTime) {
		return time.Time{}, time.Time{}, time.Time{}, interval.Interval{}, reporterrors.ErrEmptyInterval
	}
	return date, fromTime, toTime, interval.New(date, fromTime, toTime), nil
}
