package workstatus

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, ws *WorkStatus) error
	Find(ctx context.Context, key WorkKey) (*WorkStatus, error)
	FindByStage(ctx context.Context, stageCode string) ([]WorkStatus, error)
	PlanFacts(ctx context.Context, key WorkKey) ([]PlanFact, error)
	ReportFacts(ctx context.Context, key WorkKey) ([]ReportFact, error)
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

func (r *repository) Upsert(ctx context.Context, ws *WorkStatus) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "stage_code"},
				{Name: "work_order_ref"},
				{Name: "work_code"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"current_status", "updated_at"}),
		}).
		Create(ws).Error
}

func (r *repository) Find(ctx context.Context, key WorkKey) (*WorkStatus, error) {
	var ws WorkStatus
	err := r.conn(ctx).
		Where("stage_code = ?", key.StageCode).
		Where("work_order_ref = ?", key.WorkOrderRef).
		Where("work_code = ?", key.WorkCode).
		First(&ws).Error
	return &ws, err
}

func (r *repository) FindByStage(ctx context.Context, stageCode string) ([]WorkStatus, error) {
	var rows []WorkStatus
	err := r.conn(ctx).
		Where("stage_code = ?", stageCode).
		Order("work_order_ref ASC, work_code ASC").
		Find(&rows).Error
	return rows, err
}

// PlanFacts reads the slim derivation view straight off the plans table;
// soft-deleted rows are excluded by the deleted_at filter.
func (r *repository) PlanFacts(ctx context.Context, key WorkKey) ([]PlanFact, error) {
	var facts []PlanFact
	err := r.conn(ctx).
		Table("work_plans").
		Select("id", "status", "updated_at").
		Where("stage_code = ?", key.StageCode).
		Where("work_order_ref = ?", key.WorkOrderRef).
		Where("work_code = ?", key.WorkCode).
		Where("deleted_at IS NULL").
		Scan(&facts).Error
	return facts, err
}

func (r *repository) ReportFacts(ctx context.Context, key WorkKey) ([]ReportFact, error) {
	var facts []ReportFact
	err := r.conn(ctx).
		Table("work_reports").
		Select("work_reports.plan_id", "work_reports.completion_status", "work_reports.updated_at").
		Joins("JOIN work_plans ON work_plans.id = work_reports.plan_id").
		Where("work_plans.stage_code = ?", key.StageCode).
		Where("work_plans.work_order_ref = ?", key.WorkOrderRef).
		Where("work_plans.work_code = ?", key.WorkCode).
		Where("work_plans.deleted_at IS NULL").
		Where("work_reports.deleted_at IS NULL").
		Scan(&facts).Error
	return facts, err
}
