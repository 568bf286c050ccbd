package workforce

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByCode(ctx context.Context, workerCode string) (*Worker, error)
	FindByStage(ctx context.Context, stageCode string) ([]Worker, error)
	FindSalary(ctx context.Context, workerCode string) (*WorkerSalary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByCode(ctx context.Context, workerCode string) (*Worker, error) {
	var w Worker
	err := r.db.WithContext(ctx).
		Where("worker_code = ?", workerCode).
		First(&w).Error
	return &w, err
}

func (r *repository) FindByStage(ctx context.Context, stageCode string) ([]Worker, error) {
	var rows []Worker
	err := r.db.WithContext(ctx).
		Where("stage_code = ?", stageCode).
		Order("worker_code ASC").
		Find(&rows).Error
	return rows, err
}

// FindSalary returns the latest effective salary row for the worker.
func (r *repository) FindSalary(ctx context.Context, workerCode string) (*WorkerSalary, error) {
	var s WorkerSalary
	err := r.db.WithContext(ctx).
		Where("worker_code = ?", workerCode).
		Order("effective_from DESC").
		First(&s).Error
	return &s, err
}
