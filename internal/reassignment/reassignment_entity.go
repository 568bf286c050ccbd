package reassignment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
)

const (
	StatusActive    = "ACTIVE"
	StatusCancelled = "CANCELLED"
)

// StageReassignment records a worker pulled to a different stage for part
// of a shift. It counts as a time commitment for conflict purposes but is
// neither a plan nor a report.
type StageReassignment struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerCode string         `gorm:"column:worker_code;type:varchar(30);not null;index"`
	FromStage  string         `gorm:"column:from_stage;type:varchar(20);not null"`
	ToStage    string         `gorm:"column:to_stage;type:varchar(20);not null;index"`
	WorkDate   time.Time      `gorm:"column:work_date;type:date;not null;index"`
	FromTime   time.Time      `gorm:"column:from_time;type:time;not null"`
	ToTime     time.Time      `gorm:"column:to_time;type:time;not null"`
	Status     string         `gorm:"column:status;type:varchar(20);not null;default:ACTIVE"`
	CreatedBy  string         `gorm:"column:created_by;type:varchar(40);not null"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (StageReassignment) TableName() string {
	return "stage_reassignments"
}

func (r StageReassignment) Interval() interval.Interval {
	return interval.New(r.WorkDate, r.FromTime, r.ToTime)
}
