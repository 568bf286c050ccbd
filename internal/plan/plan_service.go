package plan

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
	planerrors "github.com/nidhinaz01/kndy-pms-sub001/internal/plan/errors"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/contextutil"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/skill"
	skillerrors "github.com/nidhinaz01/kndy-pms-sub001/internal/skill/errors"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/workstatus"
)

const (
	StatusDraft           = "DRAFT"
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusApproved        = "APPROVED"
	StatusRejected        = "REJECTED"
)

type Service interface {
	// Create expands one skill combination into per-skill plan rows,
	// runs the lockout and conflict gates, and persists the whole group
	// atomically. Blocking conflicts refuse the write; warning conflicts
	// require confirm_warnings.
	Create(ctx context.Context, actorID string, req CreatePlanRequest) ([]PlanResponse, error)
	GetByID(ctx context.Context, id string) (PlanResponse, error)
	GetByWork(ctx context.Context, stageCode, workOrderRef, workCode string) ([]PlanResponse, error)
	GetByStageAndDate(ctx context.Context, stageCode, date string) ([]PlanResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdatePlanRequest) (PlanResponse, error)
	Submit(ctx context.Context, actorID, id string) (PlanResponse, error)
	Approve(ctx context.Context, actorID, id string) (PlanResponse, error)
	Reject(ctx context.Context, actorID, id, rejectionReason string) (PlanResponse, error)
	// Supersede soft-deletes a plan that has not been reported against,
	// keeping the row for audit history.
	Supersede(ctx context.Context, actorID, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	detector conflict.Detector
	skills   skill.Resolver
	statuses workstatus.Service
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	detector conflict.Detector,
	skills skill.Resolver,
	statuses workstatus.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("plan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("plan.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		detector: detector,
		skills:   skills,
		statuses: statuses,
		outbox:   outbox,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreatePlanRequest) ([]PlanResponse, error) {
	s.logger.Debug("create plan requested",
		zap.String("actor_id", actorID),
		zap.String("stage_code", req.StageCode),
		zap.String("work_order_ref", req.WorkOrderRef),
		zap.String("work_code", req.WorkCode),
		zap.String("combo_code", req.ComboCode),
		zap.String("work_date", req.WorkDate),
	)

	if actorID == "" {
		return nil, planerrors.ErrInvalidActorID
	}
	date, fromTime, toTime, candidate, err := parseWindow(req.WorkDate, req.FromTime, req.ToTime)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create plan begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.skills.CheckLockout(ctx, req.StageCode, req.WorkOrderRef, req.WorkCode, req.ComboCode); err != nil {
		s.logger.Warn("create plan combination locked",
			zap.String("work_code", req.WorkCode),
			zap.String("combo_code", req.ComboCode),
			zap.Error(err),
		)
		return nil, err
	}

	assignments, err := s.skills.Resolve(ctx, req.WorkCode, req.ComboCode, req.Workers, req.Deviations)
	if err != nil {
		return nil, err
	}

	workerCodes := assignedWorkers(assignments)
	result, err := s.detector.Check(ctx, workerCodes, date, candidate, conflict.Options{})
	if err != nil {
		s.logger.Error("create plan conflict check failed", zap.Error(err))
		return nil, err
	}
	if err := gateConflicts(result, req.ConfirmWarnings); err != nil {
		s.logger.Warn("create plan refused by conflict gate",
			zap.Int("blocking", len(result.Blocking)),
			zap.Int("warnings", len(result.Warnings)),
			zap.Bool("confirm_warnings", req.ConfirmWarnings),
		)
		return nil, err
	}

	plannedHours := req.PlannedHours
	if plannedHours == 0 {
		plannedHours = float64(candidate.Minutes()) / 60
	}

	rows := make([]WorkPlan, 0, len(assignments))
	for _, a := range assignments {
		p := WorkPlan{
			ID:            uuid.New(),
			StageCode:     req.StageCode,
			WorkOrderRef:  req.WorkOrderRef,
			WorkCode:      req.WorkCode,
			WorkCodeOther: req.WorkCodeOther,
			ComboCode:     req.ComboCode,
			RequiredSkill: a.SkillCode,
			WorkerCode:    a.WorkerCode,
			WorkDate:      date,
			FromTime:      fromTime,
			ToTime:        toTime,
			Status:        StatusDraft,
			PlannedHours:  plannedHours,
			CreatedBy:     actorID,
		}
		if a.IsDeviation() {
			reason := a.DeviationReason
			p.DeviationReason = &reason
		}
		if err := qtx.Create(ctx, &p); err != nil {
			s.logger.Error("create plan persist failed",
				zap.String("required_skill", a.SkillCode),
				zap.Error(err),
			)
			return nil, err
		}
		rows = append(rows, p)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create plan commit failed", zap.Error(err))
		return nil, err
	}

	s.recomputeStatus(ctx, req.StageCode, req.WorkOrderRef, req.WorkCode)

	s.logger.Info("create plan success",
		zap.String("stage_code", req.StageCode),
		zap.String("work_order_ref", req.WorkOrderRef),
		zap.String("work_code", req.WorkCode),
		zap.String("combo_code", req.ComboCode),
		zap.Int("rows", len(rows)),
	)

	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PlanResponse, error) {
	planID, err := uuid.Parse(id)
	if err != nil {
		return PlanResponse{}, planerrors.ErrPlanNotFound
	}
	p, err := s.repo.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PlanResponse{}, planerrors.ErrPlanNotFound
		}
		return PlanResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) GetByWork(ctx context.Context, stageCode, workOrderRef, workCode string) ([]PlanResponse, error) {
	rows, err := s.repo.FindByWork(ctx, stageCode, workOrderRef, workCode)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByStageAndDate(ctx context.Context, stageCode, date string) ([]PlanResponse, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, planerrors.ErrInvalidDateFormat
	}
	rows, err := s.repo.FindByStageAndDate(ctx, stageCode, d)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdatePlanRequest) (PlanResponse, error) {
	s.logger.Debug("update plan requested",
		zap.String("plan_id", id),
		zap.String("actor_id", actorID),
	)

	if actorID == "" {
		return PlanResponse{}, planerrors.ErrInvalidActorID
	}
	planID, err := uuid.Parse(id)
	if err != nil {
		return PlanResponse{}, planerrors.ErrPlanNotFound
	}
	date, fromTime, toTime, candidate, err := parseWindow(req.WorkDate, req.FromTime, req.ToTime)
	if err != nil {
		return PlanResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update plan begin tx failed", zap.Error(err))
		return PlanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PlanResponse{}, planerrors.ErrPlanNotFound
		}
		return PlanResponse{}, err
	}
	if p.Status != StatusDraft && p.Status != StatusRejected {
		return PlanResponse{}, planerrors.ErrPlanNotEditable
	}

	reported, err := qtx.HasActiveReport(ctx, planID)
	if err != nil {
		return PlanResponse{}, err
	}
	if reported {
		return PlanResponse{}, planerrors.ErrPlanAlreadyReported
	}

	if req.WorkerCode == "" && (req.DeviationReason == nil || *req.DeviationReason == "") {
		return PlanResponse{}, skillerrors.UnassignedSkill(p.RequiredSkill)
	}

	if req.WorkerCode != "" {
		// The row being edited must not conflict with itself.
		result, err := s.detector.Check(ctx, []string{req.WorkerCode}, date, candidate, conflict.Options{
			ExcludePlanIDs: []uuid.UUID{planID},
		})
		if err != nil {
			s.logger.Error("update plan conflict check failed", zap.Error(err))
			return PlanResponse{}, err
		}
		if err := gateConflicts(result, req.ConfirmWarnings); err != nil {
			return PlanResponse{}, err
		}
	}

	p.WorkDate = date
	p.FromTime = fromTime
	p.ToTime = toTime
	p.WorkerCode = req.WorkerCode
	p.DeviationReason = nil
	if req.WorkerCode == "" {
		p.DeviationReason = req.DeviationReason
	}
	if req.PlannedHours > 0 {
		p.PlannedHours = req.PlannedHours
	}
	// Any edit puts the row back through the approval cycle.
	p.Status = StatusDraft
	p.ApprovedBy = nil
	p.ApprovedAt = nil
	p.RejectionReason = nil

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("update plan persist failed",
			zap.String("plan_id", id),
			zap.Error(err),
		)
		return PlanResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update plan commit failed", zap.String("plan_id", id), zap.Error(err))
		return PlanResponse{}, err
	}

	s.recomputeStatus(ctx, p.StageCode, p.WorkOrderRef, p.WorkCode)

	s.logger.Info("update plan success",
		zap.String("plan_id", id),
		zap.String("worker_code", p.WorkerCode),
	)
	return mapToResponse(*p), nil
}

func (s *service) Submit(ctx context.Context, actorID, id string) (PlanResponse, error) {
	return s.transitionStatus(ctx, actorID, id, StatusPendingApproval, nil)
}

func (s *service) Approve(ctx context.Context, actorID, id string) (PlanResponse, error) {
	return s.transitionStatus(ctx, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, actorID, id, rejectionReason string) (PlanResponse, error) {
	return s.transitionStatus(ctx, actorID, id, StatusRejected, &rejectionReason)
}

func (s *service) transitionStatus(ctx context.Context, actorID, id, targetStatus string, rejectionReason *string) (PlanResponse, error) {
	s.logger.Debug("transition plan status requested",
		zap.String("plan_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	if actorID == "" {
		return PlanResponse{}, planerrors.ErrInvalidActorID
	}
	planID, err := uuid.Parse(id)
	if err != nil {
		return PlanResponse{}, planerrors.ErrPlanNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition plan status begin tx failed", zap.Error(err))
		return PlanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PlanResponse{}, planerrors.ErrPlanNotFound
		}
		return PlanResponse{}, err
	}
	if !isAllowedStatusTransition(p.Status, targetStatus) {
		s.logger.Warn("transition plan status invalid",
			zap.String("plan_id", id),
			zap.String("from_status", p.Status),
			zap.String("to_status", targetStatus),
		)
		return PlanResponse{}, planerrors.ErrInvalidStatusTransition
	}

	p.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		approver := actorID
		p.ApprovedBy = &approver
		now := time.Now().UTC()
		p.ApprovedAt = &now
		p.RejectionReason = nil
	case StatusRejected:
		if rejectionReason == nil || *rejectionReason == "" {
			return PlanResponse{}, planerrors.ErrRejectionReasonRequired
		}
		p.ApprovedBy = nil
		p.ApprovedAt = nil
		p.RejectionReason = rejectionReason
	default:
		p.ApprovedBy = nil
		p.ApprovedAt = nil
		p.RejectionReason = nil
	}

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("transition plan status persist failed",
			zap.String("plan_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return PlanResponse{}, err
	}

	if targetStatus == StatusApproved {
		if err := s.enqueueApprovedEvent(ctx, tx, p); err != nil {
			s.logger.Error("enqueue plan approved event failed",
				zap.String("plan_id", id),
				zap.Error(err),
			)
			return PlanResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition plan status commit failed",
			zap.String("plan_id", id),
			zap.Error(err),
		)
		return PlanResponse{}, err
	}

	s.recomputeStatus(ctx, p.StageCode, p.WorkOrderRef, p.WorkCode)

	s.logger.Info("transition plan status success",
		zap.String("plan_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*p), nil
}

func (s *service) Supersede(ctx context.Context, actorID, id string) error {
	if actorID == "" {
		return planerrors.ErrInvalidActorID
	}
	planID, err := uuid.Parse(id)
	if err != nil {
		return planerrors.ErrPlanNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return planerrors.ErrPlanNotFound
		}
		return err
	}

	reported, err := qtx.HasActiveReport(ctx, planID)
	if err != nil {
		return err
	}
	if reported {
		return planerrors.ErrPlanAlreadyReported
	}

	if err := qtx.SoftDelete(ctx, planID); err != nil {
		s.logger.Error("supersede plan persist failed",
			zap.String("plan_id", id),
			zap.Error(err),
		)
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.recomputeStatus(ctx, p.StageCode, p.WorkOrderRef, p.WorkCode)

	s.logger.Info("supersede plan success",
		zap.String("plan_id", id),
		zap.String("actor_id", actorID),
	)
	return nil
}

func (s *service) enqueueApprovedEvent(ctx context.Context, tx *sql.Tx, p *WorkPlan) error {
	payload, err := json.Marshal(events.PlanApprovedEvent{
		PlanID:       p.ID.String(),
		StageCode:    p.StageCode,
		WorkOrderRef: p.WorkOrderRef,
		WorkCode:     p.WorkCode,
		WorkerCode:   p.WorkerCode,
		WorkDate:     p.WorkDate.Format("2006-01-02"),
		ApprovedBy:   derefOrEmpty(p.ApprovedBy),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "work_plan",
		AggregateID:   p.ID.String(),
		EventType:     events.PlanApprovedEventType,
		Topic:         events.PlanApprovedTopic,
		Payload:       payload,
	})
}

// recomputeStatus refreshes the derived work status after a committed
// mutation. Failures degrade to a log line: the next read repairs the cache.
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

func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusDraft:
		return targetStatus == StatusPendingApproval
	case StatusPendingApproval:
		return targetStatus == StatusApproved || targetStatus == StatusRejected
	default:
		return false
	}
}

func gateConflicts(result conflict.Result, confirmWarnings bool) error {
	if result.HasBlocking() {
		return planerrors.ErrBlockingConflict.WithDetails(result)
	}
	if result.HasWarnings() && !confirmWarnings {
		return planerrors.ErrWarningConflict.WithDetails(result)
	}
	return nil
}

func parseWindow(workDate, from, to string) (time.Time, time.Time, time.Time, interval.Interval, error) {
	date, err := time.Parse("2006-01-02", workDate)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, interval.Interval{}, planerrors.ErrInvalidDateFormat
	}
	fromTime, err := time.Parse("15:04", from)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, interval.Interval{}, planerrors.ErrInvalidTimeFormat
	}
	toTime, err := time.Parse("15:04", to)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, interval.Interval{}, planerrors.ErrInvalidTimeFormat
	}
	if fromTime.Equal(toTime) {
		return time.Time{}, time.Time{}, time.Time{}, interval.Interval{}, planerrors.ErrEmptyInterval
	}
	return date, fromTime, toTime, interval.New(date, fromTime, toTime), nil
}

func assignedWorkers(assignments []skill.Assignment) []string {
	workers := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if !a.IsDeviation() {
			workers = append(workers, a.WorkerCode)
		}
	}
	return workers
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
