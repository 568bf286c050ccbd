package shift

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	FindByCode(ctx context.Context, shiftCode string) (*Shift, error)
	FindBreaks(ctx context.Context, shiftID uuid.UUID) ([]ShiftBreak, error)
	FindStageShifts(ctx context.Context, stageCode string) ([]StageShift, error)
	FindActiveSchedule(ctx context.Context, shiftID uuid.UUID, date time.Time) (*DailySchedule, error)
	FindAnyActiveSchedule(ctx context.Context, date time.Time) (*DailySchedule, error)
	FindShiftByID(ctx context.Context, shiftID uuid.UUID) (*Shift, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByCode(ctx context.Context, shiftCode string) (*Shift, error) {
	var s Shift
	err := r.db.WithContext(ctx).
		Where("shift_code = ?", shiftCode).
		First(&s).Error
	return &s, err
}

func (r *repository) FindShiftByID(ctx context.Context, shiftID uuid.UUID) (*Shift, error) {
	var s Shift
	err := r.db.WithContext(ctx).
		First(&s, "id = ?", shiftID).Error
	return &s, err
}

func (r *repository) FindBreaks(ctx context.Context, shiftID uuid.UUID) ([]ShiftBreak, error) {
	var rows []ShiftBreak
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("break_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindStageShifts(ctx context.Context, stageCode string) ([]StageShift, error) {
	var rows []StageShift
	err := r.db.WithContext(ctx).
		Where("stage_code = ?", stageCode).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveSchedule(ctx context.Context, shiftID uuid.UUID, date time.Time) (*DailySchedule, error) {
	var d DailySchedule
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Where("schedule_date = ?", date.Format("2006-01-02")).
		Where("active = ?", true).
		First(&d).Error
	return &d, err
}

func (r *repository) FindAnyActiveSchedule(ctx context.Context, date time.Time) (*DailySchedule, error) {
	var d DailySchedule
	err := r.db.WithContext(ctx).
		Where("schedule_date = ?", date.Format("2006-01-02")).
		Where("active = ?", true).
		First(&d).Error
	return &d, err
}
