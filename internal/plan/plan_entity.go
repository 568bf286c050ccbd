package plan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
)

// WorkPlan is one worker's scheduled assignment to a unit of work for a time
// interval, prior to execution. Superseded plans are soft-deleted, never
// removed, to preserve audit history.
type WorkPlan struct {
	ID                 uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	StageCode          string         `gorm:"column:stage_code;type:varchar(20);not null;index"`
	WorkOrderRef       string         `gorm:"column:work_order_ref;type:varchar(30);not null;index"`
	WorkCode           string         `gorm:"column:work_code;type:varchar(30);not null;index"`
	WorkCodeOther      *string        `gorm:"column:work_code_other;type:varchar(120)"`
	ComboCode          string         `gorm:"column:combo_code;type:varchar(30);not null"`
	RequiredSkill      string         `gorm:"column:required_skill;type:varchar(30);not null"`
	WorkerCode         string         `gorm:"column:worker_code;type:varchar(30);index"`
	DeviationReason    *string        `gorm:"column:deviation_reason;type:text"`
	WorkDate           time.Time      `gorm:"column:work_date;type:date;not null;index"`
	FromTime           time.Time      `gorm:"column:from_time;type:time;not null"`
	ToTime             time.Time      `gorm:"column:to_time;type:time;not null"`
	Status             string         `gorm:"column:status;type:varchar(20);not null;default:DRAFT"`
	PlannedHours       float64        `gorm:"column:planned_hours;type:numeric(6,2)"`
	TimeWorkedTillDate float64        `gorm:"column:time_worked_till_date;type:numeric(8,2)"`
	RemainingTime      float64        `gorm:"column:remaining_time;type:numeric(8,2)"`
	CreatedBy          string         `gorm:"column:created_by;type:varchar(40);not null"`
	ApprovedBy         *string        `gorm:"column:approved_by;type:varchar(40)"`
	ApprovedAt         *time.Time     `gorm:"column:approved_at;type:timestamptz"`
	RejectionReason    *string        `gorm:"column:rejection_reason;type:text"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (WorkPlan) TableName() string {
	return "work_plans"
}

// IsDeviation reports whether this row records a skipped skill rather than
// an assignment.
func (p WorkPlan) IsDeviation() bool {
	return p.WorkerCode == ""
}

// Interval anchors the planned clock times on the work date, wrapping
// overnight spans.
func (p WorkPlan) Interval() interval.Interval {
	return interval.New(p.WorkDate, p.FromTime, p.ToTime)
}
