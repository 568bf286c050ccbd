package plan_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/conflict"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/messaging/kafka"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/plan"
	planerrors "github.com/nidhinaz01/kndy-pms-sub001/internal/plan/errors"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/interval"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/skill"
	skillerrors "github.com/nidhinaz01/kndy-pms-sub001/internal/skill/errors"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/workstatus"
)

type fakePlanRepository struct {
	createFn                  func(ctx context.Context, p *plan.WorkPlan) error
	findByIDFn                func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error)
	findByWorkFn              func(ctx context.Context, stageCode, workOrderRef, workCode string) ([]plan.WorkPlan, error)
	findByStageAndDateFn      func(ctx context.Context, stageCode string, date time.Time) ([]plan.WorkPlan, error)
	findActiveByWorkerDateFn  func(ctx context.Context, workerCode string, date time.Time) ([]plan.WorkPlan, error)
	updateFn                  func(ctx context.Context, p *plan.WorkPlan) error
	softDeleteFn              func(ctx context.Context, id uuid.UUID) error
	hasActiveReportFn         func(ctx context.Context, planID uuid.UUID) (bool, error)
	activePlanCombosFn        func(ctx context.Context, stageCode, workOrderRef, workCode string) ([]string, error)
}

func (f *fakePlanRepository) WithTx(tx *sql.Tx) plan.Repository { return f }

func (f *fakePlanRepository) Create(ctx context.Context, p *plan.WorkPlan) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, errors.New("not stubbed")
}

func (f *fakePlanRepository) FindByWork(ctx context.Context, stageCode, workOrderRef, workCode string) ([]plan.WorkPlan, error) {
	if f.findByWorkFn != nil {
		return f.findByWorkFn(ctx, stageCode, workOrderRef, workCode)
	}
	return nil, nil
}

func (f *fakePlanRepository) FindByStageAndDate(ctx context.Context, stageCode string, date time.Time) ([]plan.WorkPlan, error) {
	if f.findByStageAndDateFn != nil {
		return f.findByStageAndDateFn(ctx, stageCode, date)
	}
	return nil, nil
}

func (f *fakePlanRepository) FindActiveByWorkerAndDate(ctx context.Context, workerCode string, date time.Time) ([]plan.WorkPlan, error) {
	if f.findActiveByWorkerDateFn != nil {
		return f.findActiveByWorkerDateFn(ctx, workerCode, date)
	}
	return nil, nil
}

func (f *fakePlanRepository) Update(ctx context.Context, p *plan.WorkPlan) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePlanRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if f.softDeleteFn != nil {
		return f.softDeleteFn(ctx, id)
	}
	return nil
}

func (f *fakePlanRepository) HasActiveReport(ctx context.Context, planID uuid.UUID) (bool, error) {
	if f.hasActiveReportFn != nil {
		return f.hasActiveReportFn(ctx, planID)
	}
	return false, nil
}

func (f *fakePlanRepository) ActivePlanCombos(ctx context.Context, stageCode, workOrderRef, workCode string) ([]string, error) {
	if f.activePlanCombosFn != nil {
		return f.activePlanCombosFn(ctx, stageCode, workOrderRef, workCode)
	}
	return nil, nil
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

type fakeSkillResolver struct {
	resolveFn func(ctx context.Context, workCode, comboCode string, workers map[string]string, deviations map[string]string) ([]skill.Assignment, error)
	lockoutFn func(ctx context.Context, stageCode, workOrderRef, workCode, comboCode string) error
}

func (f *fakeSkillResolver) Resolve(ctx context.Context, workCode, comboCode string, workers map[string]string, deviations map[string]string) ([]skill.Assignment, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, workCode, comboCode, workers, deviations)
	}
	return nil, nil
}

func (f *fakeSkillResolver) CheckLockout(ctx context.Context, stageCode, workOrderRef, workCode, comboCode string) error {
	if f.lockoutFn != nil {
		return f.lockoutFn(ctx, stageCode, workOrderRef, workCode, comboCode)
	}
	return nil
}

type fakeStatusService struct {
	recomputed []workstatus.WorkKey
}

func (f *fakeStatusService) Recompute(ctx context.Context, key workstatus.WorkKey) (workstatus.Status, error) {
	f.recomputed = append(f.recomputed, key)
	return workstatus.StatusPlanned, nil
}

func (f *fakeStatusService) Get(ctx context.Context, key workstatus.WorkKey) (workstatus.Status, error) {
	return workstatus.StatusPlanned, nil
}

func (f *fakeStatusService) GetByStage(ctx context.Context, stageCode string) ([]workstatus.WorkStatus, error) {
	return nil, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type planServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  plan.Service
	repo     *fakePlanRepository
	detector *fakeDetector
	skills   *fakeSkillResolver
	statuses *fakeStatusService
	outbox   *fakeOutboxRepository
}

func setupPlanServiceTest(t *testing.T) *planServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePlanRepository{}
	detector := &fakeDetector{}
	skills := &fakeSkillResolver{}
	statuses := &fakeStatusService{}
	outbox := &fakeOutboxRepository{}

	svc := plan.NewService(db, repo, detector, skills, statuses, outbox)

	return &planServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		detector: detector,
		skills:   skills,
		statuses: statuses,
		outbox:   outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func validCreateRequest() plan.CreatePlanRequest {
	return plan.CreatePlanRequest{
		StageCode:    "CUT",
		WorkOrderRef: "WO-1001",
		WorkCode:     "WELD-FRAME",
		ComboCode:    "CMB-A",
		WorkDate:     "2026-03-02",
		FromTime:     "08:00",
		ToTime:       "12:00",
		Workers:      map[string]string{"WELD": "WK-001"},
		Deviations:   map[string]string{"GRIND": "machine down, grinding deferred"},
	}
}

func stubAssignments() []skill.Assignment {
	return []skill.Assignment{
		{SkillCode: "WELD", WorkerCode: "WK-001"},
		{SkillCode: "GRIND", DeviationReason: "machine down, grinding deferred"},
	}
}

func TestPlanService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates one row per assignment", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.skills.resolveFn = func(ctx context.Context, workCode, comboCode string, workers map[string]string, deviations map[string]string) ([]skill.Assignment, error) {
			assert.Equal(t, "WELD-FRAME", workCode)
			assert.Equal(t, "CMB-A", comboCode)
			return stubAssignments(), nil
		}
		deps.detector.checkFn = func(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts conflict.Options) (conflict.Result, error) {
			// Deviation rows carry no worker, so only WK-001 is checked.
			assert.Equal(t, []string{"WK-001"}, workerCodes)
			assert.Equal(t, 240, candidate.Minutes())
			return conflict.Result{}, nil
		}

		var created []plan.WorkPlan
		deps.repo.createFn = func(ctx context.Context, p *plan.WorkPlan) error {
			created = append(created, *p)
			return nil
		}

		resp, err := deps.service.Create(ctx, "user-1", validCreateRequest())

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Len(t, created, 2)
		assert.Equal(t, plan.StatusDraft, created[0].Status)
		assert.Equal(t, "WK-001", created[0].WorkerCode)
		assert.Nil(t, created[0].DeviationReason)
		assert.Equal(t, "", created[1].WorkerCode)
		assert.NotNil(t, created[1].DeviationReason)
		assert.Equal(t, "user-1", created[0].CreatedBy)
		assert.InDelta(t, 4.0, created[0].PlannedHours, 0.001)
		assert.Len(t, deps.statuses.recomputed, 1)
		assert.Equal(t, "CUT", deps.statuses.recomputed[0].StageCode)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("blocking conflict refuses the write", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.skills.resolveFn = func(ctx context.Context, workCode, comboCode string, workers map[string]string, deviations map[string]string) ([]skill.Assignment, error) {
			return stubAssignments(), nil
		}
		deps.detector.checkFn = func(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts conflict.Options) (conflict.Result, error) {
			return conflict.Result{
				Blocking: []conflict.Conflict{{WorkerCode: "WK-001", Kind: conflict.KindReport}},
			}, nil
		}
		deps.repo.createFn = func(ctx context.Context, p *plan.WorkPlan) error {
			t.Fatal("no row may be created on a blocking conflict")
			return nil
		}

		req := validCreateRequest()
		req.ConfirmWarnings = true

		_, err := deps.service.Create(ctx, "user-1", req)

		assert.ErrorIs(t, err, planerrors.ErrBlockingConflict)
		assert.Empty(t, deps.statuses.recomputed)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("warning conflict needs confirmation", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.skills.resolveFn = func(ctx context.Context, workCode, comboCode string, workers map[string]string, deviations map[string]string) ([]skill.Assignment, error) {
			return stubAssignments(), nil
		}
		deps.detector.checkFn = func(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts conflict.Options) (conflict.Result, error) {
			return conflict.Result{
				Warnings: []conflict.Conflict{{WorkerCode: "WK-001", Kind: conflict.KindPlan}},
			}, nil
		}

		_, err := deps.service.Create(ctx, "user-1", validCreateRequest())

		assert.ErrorIs(t, err, planerrors.ErrWarningConflict)
	})

	t.Run("confirmed warnings proceed", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.skills.resolveFn = func(ctx context.Context, workCode, comboCode string, workers map[string]string, deviations map[string]string) ([]skill.Assignment, error) {
			return stubAssignments(), nil
		}
		deps.detector.checkFn = func(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts conflict.Options) (conflict.Result, error) {
			return conflict.Result{
				Warnings: []conflict.Conflict{{WorkerCode: "WK-001", Kind: conflict.KindPlan}},
			}, nil
		}

		req := validCreateRequest()
		req.ConfirmWarnings = true

		resp, err := deps.service.Create(ctx, "user-1", req)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("locked combination refuses before resolving", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.skills.lockoutFn = func(ctx context.Context, stageCode, workOrderRef, workCode, comboCode string) error {
			return skillerrors.ErrCombinationLocked
		}
		deps.skills.resolveFn = func(ctx context.Context, workCode, comboCode string, workers map[string]string, deviations map[string]string) ([]skill.Assignment, error) {
			t.Fatal("resolve must not run when the combination is locked")
			return nil, nil
		}

		_, err := deps.service.Create(ctx, "user-1", validCreateRequest())

		assert.ErrorIs(t, err, skillerrors.ErrCombinationLocked)
	})

	t.Run("invalid time window", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()
		req.FromTime = "08:00"
		req.ToTime = "08:00"

		_, err := deps.service.Create(ctx, "user-1", req)

		assert.ErrorIs(t, err, planerrors.ErrEmptyInterval)
	})
}

func TestPlanService_Update(t *testing.T) {
	ctx := context.Background()
	planID := uuid.New()

	draftPlan := func() *plan.WorkPlan {
		return &plan.WorkPlan{
			ID:            planID,
			StageCode:     "CUT",
			WorkOrderRef:  "WO-1001",
			WorkCode:      "WELD-FRAME",
			ComboCode:     "CMB-A",
			RequiredSkill: "WELD",
			WorkerCode:    "WK-001",
			Status:        plan.StatusDraft,
		}
	}

	validUpdate := plan.UpdatePlanRequest{
		WorkDate:   "2026-03-02",
		FromTime:   "13:00",
		ToTime:     "17:00",
		WorkerCode: "WK-002",
	}

	t.Run("excludes the edited row from the conflict check", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			return draftPlan(), nil
		}
		deps.detector.checkFn = func(ctx context.Context, workerCodes []string, date time.Time, candidate interval.Interval, opts conflict.Options) (conflict.Result, error) {
			assert.Equal(t, []string{"WK-002"}, workerCodes)
			assert.Equal(t, []uuid.UUID{planID}, opts.ExcludePlanIDs)
			return conflict.Result{}, nil
		}

		var saved *plan.WorkPlan
		deps.repo.updateFn = func(ctx context.Context, p *plan.WorkPlan) error {
			saved = p
			return nil
		}

		resp, err := deps.service.Update(ctx, "user-1", planID.String(), validUpdate)

		assert.NoError(t, err)
		assert.Equal(t, "WK-002", saved.WorkerCode)
		assert.Equal(t, plan.StatusDraft, saved.Status)
		assert.Equal(t, "WK-002", resp.WorkerCode)
		assert.Len(t, deps.statuses.recomputed, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved plan is not editable", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			p := draftPlan()
			p.Status = plan.StatusApproved
			return p, nil
		}

		_, err := deps.service.Update(ctx, "user-1", planID.String(), validUpdate)

		assert.ErrorIs(t, err, planerrors.ErrPlanNotEditable)
	})

	t.Run("reported plan is not editable", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			return draftPlan(), nil
		}
		deps.repo.hasActiveReportFn = func(ctx context.Context, id uuid.UUID) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Update(ctx, "user-1", planID.String(), validUpdate)

		assert.ErrorIs(t, err, planerrors.ErrPlanAlreadyReported)
	})

	t.Run("clearing the worker needs a deviation reason", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			return draftPlan(), nil
		}

		req := validUpdate
		req.WorkerCode = ""

		_, err := deps.service.Update(ctx, "user-1", planID.String(), req)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "deviation reason")
	})
}

func TestPlanService_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	planID := uuid.New()

	planWithStatus := func(status string) *plan.WorkPlan {
		return &plan.WorkPlan{
			ID:           planID,
			StageCode:    "CUT",
			WorkOrderRef: "WO-1001",
			WorkCode:     "WELD-FRAME",
			WorkerCode:   "WK-001",
			WorkDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Status:       status,
		}
	}

	t.Run("submit moves draft to pending approval", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			return planWithStatus(plan.StatusDraft), nil
		}

		resp, err := deps.service.Submit(ctx, "user-1", planID.String())

		assert.NoError(t, err)
		assert.Equal(t, plan.StatusPendingApproval, resp.Status)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approve stamps approver and enqueues event", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			return planWithStatus(plan.StatusPendingApproval), nil
		}

		resp, err := deps.service.Approve(ctx, "approver-1", planID.String())

		assert.NoError(t, err)
		assert.Equal(t, plan.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, "approver-1", *resp.ApprovedBy)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "plan.approved", deps.outbox.created[0].EventType)
		assert.Equal(t, planID.String(), deps.outbox.created[0].AggregateID)
		assert.Len(t, deps.statuses.recomputed, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approve from draft is refused", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			return planWithStatus(plan.StatusDraft), nil
		}

		_, err := deps.service.Approve(ctx, "approver-1", planID.String())

		assert.ErrorIs(t, err, planerrors.ErrInvalidStatusTransition)
		assert.Empty(t, deps.outbox.created)
	})

	t.Run("reject needs a reason", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			return planWithStatus(plan.StatusPendingApproval), nil
		}

		_, err := deps.service.Reject(ctx, "approver-1", planID.String(), "")

		assert.ErrorIs(t, err, planerrors.ErrRejectionReasonRequired)
	})

	t.Run("reject records the reason", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			return planWithStatus(plan.StatusPendingApproval), nil
		}

		resp, err := deps.service.Reject(ctx, "approver-1", planID.String(), "wrong worker for the shift")

		assert.NoError(t, err)
		assert.Equal(t, plan.StatusRejected, resp.Status)
		assert.NotNil(t, resp.RejectionReason)
		assert.Equal(t, "wrong worker for the shift", *resp.RejectionReason)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPlanService_Supersede(t *testing.T) {
	ctx := context.Background()
	planID := uuid.New()

	t.Run("soft deletes an unreported plan", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			return &plan.WorkPlan{ID: planID, StageCode: "CUT", WorkOrderRef: "WO-1001", WorkCode: "WELD-FRAME", Status: plan.StatusDraft}, nil
		}

		var deleted uuid.UUID
		deps.repo.softDeleteFn = func(ctx context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		}

		err := deps.service.Supersede(ctx, "user-1", planID.String())

		assert.NoError(t, err)
		assert.Equal(t, planID, deleted)
		assert.Len(t, deps.statuses.recomputed, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reported plan cannot be superseded", func(t *testing.T) {
		deps := setupPlanServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*plan.WorkPlan, error) {
			return &plan.WorkPlan{ID: planID, Status: plan.StatusApproved}, nil
		}
		deps.repo.hasActiveReportFn = func(ctx context.Context, id uuid.UUID) (bool, error) {
			return true, nil
		}

		err := deps.service.Supersede(ctx, "user-1", planID.String())

		assert.ErrorIs(t, err, planerrors.ErrPlanAlreadyReported)
	})
}
