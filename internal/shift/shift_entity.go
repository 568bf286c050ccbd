package shift

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Shift struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ShiftCode string         `gorm:"column:shift_code;type:varchar(20);not null;uniqueIndex"`
	StartTime time.Time      `gorm:"column:start_time;type:time;not null"`
	EndTime   time.Time      `gorm:"column:end_time;type:time;not null"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Shift) TableName() string {
	return "shifts"
}

// ShiftBreak rows are ordered by BreakNumber within a shift.
type ShiftBreak struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ShiftID     uuid.UUID      `gorm:"column:shift_id;type:uuid;not null;index"`
	BreakNumber int            `gorm:"column:break_number;not null"`
	StartTime   time.Time      `gorm:"column:start_time;type:time;not null"`
	EndTime     time.Time      `gorm:"column:end_time;type:time;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (ShiftBreak) TableName() string {
	return "shift_breaks"
}

// DailySchedule marks a shift as running on a concrete calendar date.
type DailySchedule struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ShiftID      uuid.UUID      `gorm:"column:shift_id;type:uuid;not null;index"`
	ScheduleDate time.Time      `gorm:"column:schedule_date;type:date;not null;index"`
	Active       bool           `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (DailySchedule) TableName() string {
	return "daily_schedules"
}

// StageShift associates a production stage with the shifts it runs.
type StageShift struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	StageCode string         `gorm:"column:stage_code;type:varchar(20);not null;index"`
	ShiftID   uuid.UUID      `gorm:"column:shift_id;type:uuid;not null"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (StageShift) TableName() string {
	return "stage_shifts"
}
