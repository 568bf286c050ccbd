package workforce

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	workforceerrors "github.com/nidhinaz01/kndy-pms-sub001/internal/workforce/errors"
)

type Service interface {
	GetByCode(ctx context.Context, workerCode string) (WorkerResponse, error)
	GetByStage(ctx context.Context, stageCode string) ([]WorkerResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("workforce.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workforce.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetByCode(ctx context.Context, workerCode string) (WorkerResponse, error) {
	w, err := s.repo.FindByCode(ctx, workerCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkerResponse{}, workforceerrors.ErrWorkerNotFound
		}
		return WorkerResponse{}, err
	}
	return mapToResponse(*w), nil
}

func (s *service) GetByStage(ctx context.Context, stageCode string) ([]WorkerResponse, error) {
	rows, err := s.repo.FindByStage(ctx, stageCode)
	if err != nil {
		return nil, err
	}
	res := make([]WorkerResponse, len(rows))
	for i, w := range rows {
		res[i] = mapToResponse(w)
	}
	return res, nil
}

func mapToResponse(w Worker) WorkerResponse {
	return WorkerResponse{
		WorkerCode: w.WorkerCode,
		FullName:   w.FullName,
		SkillShort: w.SkillShort,
		ShiftCode:  w.ShiftCode,
		StageCode:  w.StageCode,
	}
}
