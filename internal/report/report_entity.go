package report

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
)

const (
	CompletionComplete    = "C"
	CompletionNotComplete = "NC"
)

// WorkReport records actual worked time against one plan. Reported time is
// ground truth: once persisted it can never be double-booked. A plan has at
// most one active report chain; superseding soft-deletes, never removes.
type WorkReport struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	PlanID              uuid.UUID      `gorm:"column:plan_id;type:uuid;not null;index"`
	StageCode           string         `gorm:"column:stage_code;type:varchar(20);not null;index"`
	WorkOrderRef        string         `gorm:"column:work_order_ref;type:varchar(30);not null;index"`
	WorkCode            string         `gorm:"column:work_code;type:varchar(30);not null;index"`
	WorkerCode          string         `gorm:"column:worker_code;type:varchar(30);not null;index"`
	WorkDate            time.Time      `gorm:"column:work_date;type:date;not null;index"`
	FromTime            time.Time      `gorm:"column:from_time;type:time;not null"`
	ToTime              time.Time      `gorm:"column:to_time;type:time;not null"`
	HoursWorkedTillDate float64        `gorm:"column:hours_worked_till_date;type:numeric(8,2)"`
	HoursWorkedToday    float64        `gorm:"column:hours_worked_today;type:numeric(6,2)"`
	CompletionStatus    string         `gorm:"column:completion_status;type:varchar(2);not null"`
	LostTimeMinutes     int            `gorm:"column:lost_time_minutes;not null;default:0"`
	Status              string         `gorm:"column:status;type:varchar(20);not null;default:DRAFT"`
	OvertimeMinutes     int            `gorm:"column:overtime_minutes;not null;default:0"`
	OvertimeAmount      float64        `gorm:"column:overtime_amount;type:numeric(10,2);not null;default:0"`
	CreatedBy           string         `gorm:"column:created_by;type:varchar(40);not null"`
	ApprovedBy          *string        `gorm:"column:approved_by;type:varchar(40)"`
	ApprovedAt          *time.Time     `gorm:"column:approved_at;type:timestamptz"`
	RejectionReason     *string        `gorm:"column:rejection_reason;type:text"`
	CreatedAt           time.Time      `gorm:"column:created_at"`
	UpdatedAt           time.Time      `gorm:"column:updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (WorkReport) TableName() string {
	return "work_reports"
}

// Interval anchors the reported clock times on the work date, wrapping
// overnight spans.
func (r WorkReport) Interval() interval.Interval {
	return interval.New(r.WorkDate, r.FromTime, r.ToTime)
}

// WorkedMinutes is the reporter's explicit hours_worked_today in minutes,
// or zero when left blank (callers fall back to the wall-clock span).
func (r WorkReport) WorkedMinutes() int {
	return int(r.HoursWorkedToday * 60)
}

// LostTimeEntry is one line of a report's lost-time breakdown.
type LostTimeEntry struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ReportID   uuid.UUID      `gorm:"column:report_id;type:uuid;not null;index"`
	ReasonCode string         `gorm:"column:reason_code;type:varchar(30);not null"`
	Minutes    int            `gorm:"column:minutes;not null"`
	Remarks    string         `gorm:"column:remarks;type:text"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (LostTimeEntry) TableName() string {
	return "report_lost_time_entries"
}
