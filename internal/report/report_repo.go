package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *WorkReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*WorkReport, error)
	FindActiveByPlan(ctx context.Context, planID uuid.UUID) (*WorkReport, error)
	FindByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]WorkReport, error)
	FindOpenByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]WorkReport, error)
	FindByWorkerAndDate(ctx context.Context, workerCode string, date time.Time) ([]WorkReport, error)
	Update(ctx context.Context, r *WorkReport) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	CreateLostTime(ctx context.Context, entries []LostTimeEntry) error
	FindLostTime(ctx context.Context, reportID uuid.UUID) ([]LostTimeEntry, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn binds statements to the service transaction when one is set.
// gorm sees the *sql.Tx on the ConnPool and skips its own transaction.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, rep *WorkReport) error {
	return r.conn(ctx).Create(rep).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*WorkReport, error) {
	var rep WorkReport
	err := r.conn(ctx).
		First(&rep, "id = ?", id).Error
	return &rep, err
}

func (r *repository) FindActiveByPlan(ctx context.Context, planID uuid.UUID) (*WorkReport, error) {
	var rep WorkReport
	err := r.conn(ctx).
		Where("plan_id = ?", planID).
		First(&rep).Error
	return &rep, err
}

func (r *repository) FindByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]WorkReport, error) {
	var rows []WorkReport
	err := r.conn(ctx).
		Where("stage_code = ?", stageCode).
		Where("work_date = ?", date.Format("2006-01-02")).
		Order("from_time ASC").
		Find(&rows).Error
	return rows, err
}

// FindOpenByStageAndDate returns the draft and pending-approval reports,
// the only rows the overtime batch considers.
func (r *repository) FindOpenByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]WorkReport, error) {
	var rows []WorkReport
	err := r.conn(ctx).
		Where("stage_code = ?", stageCode).
		Where("work_date = ?", date.Format("2006-01-02")).
		Where("status IN ?", []string{StatusDraft, StatusPendingApproval}).
		Order("from_time ASC").
		Find(&rows).Error
	return rows, err
}

// FindByWorkerAndDate fetches the adjacent dates too: an overnight row
// anchored on the previous day, or a candidate wrapping into the next, can
// still overlap. The interval filter decides, not the query.
func (r *repository) FindByWorkerAndDate(ctx context.Context, workerCode string, date time.Time) ([]WorkReport, error) {
	var rows []WorkReport
	err := r.conn(ctx).
		Where("worker_code = ?", workerCode).
		Where("work_date BETWEEN ? AND ?",
			date.AddDate(0, 0, -1).Format("2006-01-02"),
			date.AddDate(0, 0, 1).Format("2006-01-02"),
		).
		Order("work_date ASC, from_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, rep *WorkReport) error {
	return r.conn(ctx).Save(rep).Error
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&WorkReport{}, "id = ?", id).Error
}

func (r *repository) CreateLostTime(ctx context.Context, entries []LostTimeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&entries).Error
}

func (r *repository) FindLostTime(ctx context.Context, reportID uuid.UUID) ([]LostTimeEntry, error) {
	var rows []LostTimeEntry
	err := r.conn(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
