package workforce

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Worker is HR master data: owned by the HR system upstream, read-only
// to the scheduling engine.
type Worker struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerCode string         `gorm:"column:worker_code;type:varchar(30);not null;uniqueIndex"`
	FullName   string         `gorm:"column:full_name;type:varchar(150);not null"`
	SkillShort string         `gorm:"column:skill_short;type:varchar(30)"`
	ShiftCode  string         `gorm:"column:shift_code;type:varchar(20);index"`
	StageCode  string         `gorm:"column:stage_code;type:varchar(20);not null;index"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Worker) TableName() string {
	return "workers"
}

type WorkerSalary struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerCode    string         `gorm:"column:worker_code;type:varchar(30);not null;index"`
	MonthlySalary float64        `gorm:"column:monthly_salary;type:numeric(12,2);not null"`
	EffectiveFrom time.Time      `gorm:"column:effective_from;type:date;not null"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (WorkerSalary) TableName() string {
	return "worker_salaries"
}
