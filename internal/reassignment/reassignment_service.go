package reassignment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/conflict"
	reassignmenterrors "github.com/nidhinaz01/kndy-pms-sub001/internal/reassignment/errors"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
)

type Service interface {
	// Create pulls a worker to another stage for part of a shift. The
	// conflict gate applies: colliding reports block, colliding plans or
	// reassignments warn.
	Create(ctx context.Context, actorID string, req CreateReassignmentRequest) (ReassignmentResponse, error)
	GetByStageAndDate(ctx context.Context, stageCode, date string) ([]ReassignmentResponse, error)
	Cancel(ctx context.Context, actorID, id string) (ReassignmentResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	detector conflict.Detector
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, detector conflict.Detector, logger ...*zap.Logger) Service {
	l := zap.L().Named("reassignment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reassignment.service")
	}
	return &service{db: db, repo: repo, detector: detector, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateReassignmentRequest) (ReassignmentResponse, error) {
	s.logger.Debug("create reassignment requested",
		zap.String("actor_id", actorID),
		zap.String("worker_code", req.WorkerCode),
		zap.String("from_stage", req.FromStage),
		zap.String("to_stage", req.ToStage),
		zap.String("work_date", req.WorkDate),
	)

	if actorID == "" {
		return ReassignmentResponse{}, reassignmenterrors.ErrInvalidActorID
	}
	if req.FromStage == req.ToStage {
		return ReassignmentResponse{}, reassignmenterrors.ErrSameStage
	}

	date, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return ReassignmentResponse{}, reassignmenterrors.ErrInvalidDateFormat
	}
	fromTime, err := time.Parse("15:04", req.FromTime)
	if err != nil {
		return ReassignmentResponse{}, reassignmenterrors.ErrInvalidTimeFormat
	}
	toTime, err := time.Parse("15:04", req.ToTime)
	if err != nil {
		return ReassignmentResponse{}, reassignmenterrors.ErrInvalidTimeFormat
	}
	if fromTime.Equal(toTime) {
		return ReassignmentResponse{}, reassignmenterrors.ErrEmptyInterval
	}
	candidate := interval.New(date, fromTime, toTime)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create reassignment begin tx failed", zap.Error(err))
		return ReassignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	result, err := s.detector.Check(ctx, []string{req.WorkerCode}, date, candidate, conflict.Options{})
	if err != nil {
		s.logger.Error("create reassignment conflict check failed", zap.Error(err))
		return ReassignmentResponse{}, err
	}
	if result.HasBlocking() {
		return ReassignmentResponse{}, reassignmenterrors.ErrBlockingConflict.WithDetails(result)
	}
	if result.HasWarnings() && !req.ConfirmWarnings {
		return ReassignmentResponse{}, reassignmenterrors.ErrWarningConflict.WithDetails(result)
	}

	ra := &StageReassignment{
		ID:         uuid.New(),
		WorkerCode: req.WorkerCode,
		FromStage:  req.FromStage,
		ToStage:    req.ToStage,
		WorkDate:   date,
		FromTime:   fromTime,
		ToTime:     toTime,
		Status:     StatusActive,
		CreatedBy:  actorID,
	}
	if err := qtx.Create(ctx, ra); err != nil {
		s.logger.Error("create reassignment persist failed", zap.Error(err))
		return ReassignmentResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create reassignment commit failed", zap.Error(err))
		return ReassignmentResponse{}, err
	}

	s.logger.Info("create reassignment success",
		zap.String("reassignment_id", ra.ID.String()),
		zap.String("worker_code", req.WorkerCode),
		zap.String("to_stage", req.ToStage),
	)
	return mapToResponse(*ra), nil
}

func (s *service) GetByStageAndDate(ctx context.Context, stageCode, date string) ([]ReassignmentResponse, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, reassignmenterrors.ErrInvalidDateFormat
	}
	rows, err := s.repo.FindByStageAndDate(ctx, stageCode, d)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) Cancel(ctx context.Context, actorID, id string) (ReassignmentResponse, error) {
	if actorID == "" {
		return ReassignmentResponse{}, reassignmenterrors.ErrInvalidActorID
	}
	raID, err := uuid.Parse(id)
	if err != nil {
		return ReassignmentResponse{}, reassignmenterrors.ErrReassignmentNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReassignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ra, err := qtx.FindByID(ctx, raID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReassignmentResponse{}, reassignmenterrors.ErrReassignmentNotFound
		}
		return ReassignmentResponse{}, err
	}
	if ra.Status == StatusCancelled {
		return ReassignmentResponse{}, reassignmenterrors.ErrAlreadyCancelled
	}

	ra.Status = StatusCancelled
	if err := qtx.Update(ctx, ra); err != nil {
		s.logger.Error("cancel reassignment persist failed",
			zap.String("reassignment_id", id),
			zap.Error(err),
		)
		return ReassignmentResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ReassignmentResponse{}, err
	}

	s.logger.Info("cancel reassignment success",
		zap.String("reassignment_id", id),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*ra), nil
}
