package reassignment

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *StageReassignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*StageReassignment, error)
	FindActiveByWorkerAndDate(ctx context.Context, workerCode string, date time.Time) ([]StageReassignment, error)
	FindByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]StageReassignment, error)
	Update(ctx context.Context, r *StageReassignment) error
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

func (r *repository) Create(ctx context.Context, ra *StageReassignment) error {
	return r.conn(ctx).Create(ra).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*StageReassignment, error) {
	var ra StageReassignment
	err := r.conn(ctx).
		First(&ra, "id = ?", id).Error
	return &ra, err
}

// FindActiveByWorkerAndDate fetches the adjacent dates too: an overnight
// row anchored on the previous day, or a candidate wrapping into the next,
// can still overlap. The interval filter decides, not the query.
func (r *repository) FindActiveByWorkerAndDate(ctx context.Context, workerCode string, date time.Time) ([]StageReassignment, error) {
	var rows []StageReassignment
	err := r.conn(ctx).
		Where("worker_code = ?", workerCode).
		Where("work_date BETWEEN ? AND ?",
			date.AddDate(0, 0, -1).Format("2006-01-02"),
			date.AddDate(0, 0, 1).Format("2006-01-02"),
		).
		Where("status = ?", StatusActive).
		Order("work_date ASC, from_time ASC").
		Find(&rows).Error
	return rows, err
}

// FindByStageAndDate lists reassignments pulling workers into the stage.
func (r *repository) FindByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]StageReassignment, error) {
	var rows []StageReassignment
	err := r.conn(ctx).
		Where("to_stage = ?", stageCode).
		Where("work_date = ?", date.Format("2006-01-02")).
		Order("from_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, ra *StageReassignment) error {
	return r.conn(ctx).Save(ra).Error
}
