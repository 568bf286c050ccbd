package workstatus

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type Service interface {
	// Recompute derives the status from the current plan/report sets and
	// persists it to the cache table. Idempotent: recomputing an
	// unchanged record set writes the same status again.
	Recompute(ctx context.Context, key WorkKey) (Status, error)
	// Get returns the cached status, recomputing on a cache miss.
	Get(ctx context.Context, key WorkKey) (Status, error)
	GetByStage(ctx context.Context, stageCode string) ([]WorkStatus, error)
}

type service struct {
	repo   Repository
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("workstatus.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workstatus.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Recompute(ctx context.Context, key WorkKey) (Status, error) {
	// Concurrent recomputes of the same key collapse into one derivation.
	v, err, _ := s.group.Do(key.String(), func() (interface{}, error) {
		return s.recompute(ctx, key)
	})
	if err != nil {
		return "", err
	}
	return v.(Status), nil
}

func (s *service) recompute(ctx context.Context, key WorkKey) (Status, error) {
	plans, err := s.repo.PlanFacts(ctx, key)
	if err != nil {
		return "", err
	}
	reports, err := s.repo.ReportFacts(ctx, key)
	if err != nil {
		return "", err
	}

	status := Derive(plans, reports)

	ws := &WorkStatus{
		StageCode:     key.StageCode,
		WorkOrderRef:  key.WorkOrderRef,
		WorkCode:      key.WorkCode,
		CurrentStatus: string(status),
	}
	if err := s.repo.Upsert(ctx, ws); err != nil {
		s.logger.Error("work status upsert failed",
			zap.String("key", key.String()),
			zap.Error(err),
		)
		return "", err
	}

	s.logger.Debug("work status recomputed",
		zap.String("key", key.String()),
		zap.String("status", string(status)),
		zap.Int("plans", len(plans)),
		zap.Int("reports", len(reports)),
	)
	return status, nil
}

func (s *service) Get(ctx context.Context, key WorkKey) (Status, error) {
	ws, err := s.repo.Find(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Recompute(ctx, key)
		}
		return "", err
	}
	return Status(ws.CurrentStatus), nil
}

func (s *service) GetByStage(ctx context.Context, stageCode string) ([]WorkStatus, error) {
	return s.repo.FindByStage(ctx, stageCode)
}
