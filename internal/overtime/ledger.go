package overtime

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerEntry is the per-worker, per-date overtime record written when a
// reporting batch is submitted. The (worker, date) pair is unique, so event
// redelivery cannot double-book overtime pay.
type LedgerEntry struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	StageCode       string         `gorm:"column:stage_code;type:varchar(20);not null;index"`
	WorkerCode      string         `gorm:"column:worker_code;type:varchar(30);not null;uniqueIndex:uq_overtime_worker_date"`
	WorkDate        time.Time      `gorm:"column:work_date;type:date;not null;uniqueIndex:uq_overtime_worker_date"`
	OvertimeMinutes int            `gorm:"column:overtime_minutes;not null"`
	OvertimeAmount  float64        `gorm:"column:overtime_amount;type:numeric(10,2);not null"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (LedgerEntry) TableName() string {
	return "overtime_ledger"
}

type LedgerRepository interface {
	Create(ctx context.Context, entry *LedgerEntry) error
	FindByWorkerAndMonth(ctx context.Context, workerCode string, year int, month time.Month) ([]LedgerEntry, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) FindByWorkerAndMonth(ctx context.Context, workerCode string, year int, month time.Month) ([]LedgerEntry, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var rows []LedgerEntry
	err := r.db.WithContext(ctx).
		Where("worker_code = ?", workerCode).
		Where("work_date >= ? AND work_date < ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("work_date ASC").
		Find(&rows).Error
	return rows, err
}
