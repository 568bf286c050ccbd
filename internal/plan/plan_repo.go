package plan

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *WorkPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*WorkPlan, error)
	FindByWork(ctx context.Context, stageCode, workOrderRef, workCode string) ([]WorkPlan, error)
	FindByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]WorkPlan, error)
	FindActiveByWorkerAndDate(ctx context.Context, workerCode string, date time.Time) ([]WorkPlan, error)
	Update(ctx context.Context, p *WorkPlan) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HasActiveReport(ctx context.Context, planID uuid.UUID) (bool, error)
	ActivePlanCombos(ctx context.Context, stageCode, workOrderRef, workCode string) ([]string, error)
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

func (r *repository) Create(ctx context.Context, p *WorkPlan) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*WorkPlan, error) {
	var p WorkPlan
	err := r.conn(ctx).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByWork(ctx context.Context, stageCode, workOrderRef, workCode string) ([]WorkPlan, error) {
	var rows []WorkPlan
	err := r.conn(ctx).
		Where("stage_code = ?", stageCode).
		Where("work_order_ref = ?", workOrderRef).
		Where("work_code = ?", workCode).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]WorkPlan, error) {
	var rows []WorkPlan
	err := r.conn(ctx).
		Where("stage_code = ?", stageCode).
		Where("work_date = ?", date.Format("2006-01-02")).
		Order("from_time ASC").
		Find(&rows).Error
	return rows, err
}

// FindActiveByWorkerAndDate fetches the adjacent dates too: an overnight
// row anchored on the previous day, or a candidate wrapping into the next,
// can still overlap. The interval filter decides, not the query.
func (r *repository) FindActiveByWorkerAndDate(ctx context.Context, workerCode string, date time.Time) ([]WorkPlan, error) {
	var rows []WorkPlan
	err := r.conn(ctx).
		Where("worker_code = ?", workerCode).
		Where("work_date BETWEEN ? AND ?",
			date.AddDate(0, 0, -1).Format("2006-01-02"),
			date.AddDate(0, 0, 1).Format("2006-01-02"),
		).
		Where("status <> ?", StatusRejected).
		Order("work_date ASC, from_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, p *WorkPlan) error {
	return r.conn(ctx).Save(p).Error
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Delete(&WorkPlan{}, "id = ?", id).Error
}

func (r *repository) HasActiveReport(ctx context.Context, planID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("work_reports").
		Where("plan_id = ?", planID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

// ActivePlanCombos lists combo codes holding an active, not-yet-reported
// plan for the work key. Feeds the skill combination lockout.
func (r *repository) ActivePlanCombos(ctx context.Context, stageCode, workOrderRef, workCode string) ([]string, error) {
	var combos []string
	err := r.conn(ctx).
		Model(&WorkPlan{}).
		Distinct("combo_code").
		Where("stage_code = ?", stageCode).
		Where("work_order_ref = ?", workOrderRef).
		Where("work_code = ?", workCode).
		Where("status <> ?", StatusRejected).
		Where("NOT EXISTS (SELECT 1 FROM work_reports WHERE work_reports.plan_id = work_plans.id AND work_reports.deleted_at IS NULL)").
		Pluck("combo_code", &combos).Error
	return combos, err
}
