package reassignment_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/conflict"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/reassignment"
	reassignmenterrors "github.com/nidhinaz01/kndy-pms-sub001/internal/reassignment/errors"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
)

type fakeRepository struct {
	createFn   func(ctx context.Context, r *reassignment.StageReassignment) error
	findByIDFn func(ctx context.Context, id uuid.UUID) (*reassignment.StageReassignment, error)
	updateFn   func(ctx context.Context, r *reassignment.StageReassignment) error
}

func (f *fakeRepository) WithTx(tx *sql.Tx) reassignment.Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, r *reassignment.StageReassignment) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*reassignment.StageReassignment, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindActiveByWorkerAndDate(ctx context.Context, workerCode string, date time.Time) ([]reassignment.StageReassignment, error) {
	return nil, nil
}

func (f *fakeRepository) FindByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]reassignment.StageReassignment, error) {
	return nil, nil
}

func (f *fakeRepository) Update(ctx context.Context, r *reassignment.StageReassignment) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, r)
	}
	return nil
}

type fakeDetector struct {
	checkFn func(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts conflict.Options) (conflict.Result, error)
}

func (f *fakeDetector) Check(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts conflict.Options) (conflict.Result, error) {
	if f.checkFn != nil {
		return f.checkFn(ctx, workerCodes, date, candidate, opts)
	}
	return conflict.Result{}, nil
}

func setup(t *testing.T) (*sql.DB, sqlmock.Sqlmock, reassignment.Service, *fakeRepository, *fakeDetector) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRepository{}
	detector := &fakeDetector{}
	svc := reassignment.NewService(db, repo, detector)
	return db, sqlMock, svc, repo, detector
}

func validRequest() reassignment.CreateReassignmentRequest {
	return reassignment.CreateReassignmentRequest{
		WorkerCode: "WK-001",
		FromStage:  "CUT",
		ToStage:    "ASSEMBLY",
		WorkDate:   "2026-03-02",
		FromTime:   "10:00",
		ToTime:     "12:00",
	}
}

func TestReassignmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active reassignment", func(t *testing.T) {
		db, sqlMock, svc, repo, detector := setup(t)
		defer db.Close()

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		detector.checkFn = func(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts conflict.Options) (conflict.Result, error) {
			assert.Equal(t, []string{"WK-001"}, workerCodes)
			assert.Equal(t, 120, candidate.Minutes())
			return conflict.Result{}, nil
		}

		var created *reassignment.StageReassignment
		repo.createFn = func(ctx context.Context, r *reassignment.StageReassignment) error {
			created = r
			return nil
		}

		resp, err := svc.Create(ctx, "user-1", validRequest())

		assert.NoError(t, err)
		assert.Equal(t, reassignment.StatusActive, created.Status)
		assert.Equal(t, "ASSEMBLY", resp.ToStage)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("blocking report conflict refuses", func(t *testing.T) {
		db, sqlMock, svc, _, detector := setup(t)
		defer db.Close()

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		detector.checkFn = func(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts conflict.Options) (conflict.Result, error) {
			return conflict.Result{
				Blocking: []conflict.Conflict{{WorkerCode: "WK-001", Kind: conflict.KindReport}},
			}, nil
		}

		_, err := svc.Create(ctx, "user-1", validRequest())

		assert.ErrorIs(t, err, reassignmenterrors.ErrBlockingConflict)
	})

	t.Run("warnings need confirmation", func(t *testing.T) {
		db, sqlMock, svc, _, detector := setup(t)
		defer db.Close()

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		detector.checkFn = func(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts conflict.Options) (conflict.Result, error) {
			return conflict.Result{
				Warnings: []conflict.Conflict{{WorkerCode: "WK-001", Kind: conflict.KindPlan}},
			}, nil
		}

		_, err := svc.Create(ctx, "user-1", validRequest())
		assert.ErrorIs(t, err, reassignmenterrors.ErrWarningConflict)

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		req := validRequest()
		req.ConfirmWarnings = true
		resp, err := svc.Create(ctx, "user-1", req)

		assert.NoError(t, err)
		assert.Equal(t, reassignment.StatusActive, resp.Status)
	})

	t.Run("same stage is invalid", func(t *testing.T) {
		db, _, svc, _, _ := setup(t)
		defer db.Close()

		req := validRequest()
		req.ToStage = req.FromStage

		_, err := svc.Create(ctx, "user-1", req)

		assert.ErrorIs(t, err, reassignmenterrors.ErrSameStage)
	})
}

func TestReassignmentService_Cancel(t *testing.T) {
	ctx := context.Background()
	raID := uuid.New()

	t.Run("cancels an active reassignment", func(t *testing.T) {
		db, sqlMock, svc, repo, _ := setup(t)
		defer db.Close()

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*reassignment.StageReassignment, error) {
			return &reassignment.StageReassignment{ID: raID, Status: reassignment.StatusActive}, nil
		}

		resp, err := svc.Cancel(ctx, "user-1", raID.String())

		assert.NoError(t, err)
		assert.Equal(t, reassignment.StatusCancelled, resp.Status)
	})

	t.Run("double cancel is refused", func(t *testing.T) {
		db, sqlMock, svc, repo, _ := setup(t)
		defer db.Close()

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*reassignment.StageReassignment, error) {
			return &reassignment.StageReassignment{ID: raID, Status: reassignment.StatusCancelled}, nil
		}

		_, err := svc.Cancel(ctx, "user-1", raID.String())

		assert.ErrorIs(t, err, reassignmenterrors.ErrAlreadyCancelled)
	})
}
