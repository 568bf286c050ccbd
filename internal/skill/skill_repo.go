package skill

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	FindCombination(ctx context.Context, workCode, comboCode string) (*SkillCombination, error)
	FindCombinationsByWork(ctx context.Context, workCode string) ([]SkillCombination, error)
	FindItems(ctx context.Context, comboID uuid.UUID) ([]SkillCombinationItem, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindCombination(ctx context.Context, workCode, comboCode string) (*SkillCombination, error) {
	var combo SkillCombination
	err := r.db.WithContext(ctx).
		Where("work_code = ?", workCode).
		Where("combo_code = ?", comboCode).
		First(&combo).Error
	return &combo, err
}

func (r *repository) FindCombinationsByWork(ctx context.Context, workCode string) ([]SkillCombination, error) {
	var rows []SkillCombination
	err := r.db.WithContext(ctx).
		Where("work_code = ?", workCode).
		Order("position ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindItems(ctx context.Context, comboID uuid.UUID) ([]SkillCombinationItem, error) {
	var rows []SkillCombinationItem
	err := r.db.WithContext(ctx).
		Where("combo_id = ?", comboID).
		Order("position ASC").
		Find(&rows).Error
	return rows, err
}
