package workstatus

import (
	"time"

	"github.com/google/uuid"
)

// WorkStatus is the denormalized status cache row. Derived, not
// authoritative: it is recomputed from plans and reports whenever ambiguous.
type WorkStatus struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	StageCode     string    `gorm:"column:stage_code;type:varchar(20);not null;uniqueIndex:idx_work_statuses_key"`
	WorkOrderRef  string    `gorm:"column:work_order_ref;type:varchar(30);not null;uniqueIndex:idx_work_statuses_key"`
	WorkCode      string    `gorm:"column:work_code;type:varchar(30);not null;uniqueIndex:idx_work_statuses_key"`
	CurrentStatus string    `gorm:"column:current_status;type:varchar(20);not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (WorkStatus) TableName() string {
	return "work_statuses"
}

// WorkKey identifies one unit of work across plans, reports and the cache.
type WorkKey struct {
	StageCode    string
	WorkOrderRef string
	WorkCode     string
}

func (k WorkKey) String() string {
	return k.StageCode + "/" + k.WorkOrderRef + "/" + k.WorkCode
}
