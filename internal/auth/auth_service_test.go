package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/auth"
	autherrors "github.com/nidhinaz01/kndy-pms-sub001/internal/auth/errors"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/domain"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/workforce"
)

type fakeAuthRepository struct {
	createFn     func(ctx context.Context, user *auth.User) error
	getByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (f *fakeAuthRepository) Create(ctx context.Context, user *auth.User) error {
	return f.createFn(ctx, user)
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return f.getByEmailFn(ctx, email)
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return f.getByIDFn(ctx, id)
}

type fakeRBACService struct {
	loadedStages []string
	loadErr      error
}

func (f *fakeRBACService) LoadStagePolicy(stageCode string) error {
	f.loadedStages = append(f.loadedStages, stageCode)
	return f.loadErr
}

func (f *fakeRBACService) Enforce(req domain.EnforceRequest) (bool, error) {
	return true, nil
}

type fakeWorkerRepository struct {
	workers map[string]*workforce.Worker
}

func (f *fakeWorkerRepository) FindByCode(ctx context.Context, workerCode string) (*workforce.Worker, error) {
	w, ok := f.workers[workerCode]
	if !ok {
		return nil, errors.New("record not found")
	}
	return w, nil
}

func (f *fakeWorkerRepository) FindByStage(ctx context.Context, stageCode string) ([]workforce.Worker, error) {
	return nil, nil
}

func (f *fakeWorkerRepository) FindSalary(ctx context.Context, workerCode string) (*workforce.WorkerSalary, error) {
	return nil, errors.New("record not found")
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	password := "password123"
	pw, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	workerCode := "WK-001"
	user := &auth.User{
		ID:         uuid.New(),
		WorkerCode: &workerCode,
		StageCode:  "GLAZE",
		Email:      "operator@example.com",
		Password:   string(pw),
		Role:       "OPERATOR",
		IsActive:   true,
	}

	newService := func(u *auth.User) (auth.Service, *fakeRBACService) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				if email == u.Email {
					return u, nil
				}
				return nil, errors.New("record not found")
			},
		}
		rbacSvc := &fakeRBACService{}
		svc := auth.NewService(repo, rbacSvc, &fakeWorkerRepository{})
		return svc, rbacSvc
	}

	t.Run("success loads stage policy and issues tokens", func(t *testing.T) {
		svc, rbacSvc := newService(user)

		token, refreshToken, resp, err := svc.Login(context.Background(), user.Email, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, "GLAZE", resp.StageCode)
		assert.Equal(t, "WK-001", resp.WorkerCode)
		assert.Equal(t, []string{"GLAZE"}, rbacSvc.loadedStages)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newService(user)

		_, _, _, err := svc.Login(context.Background(), user.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("inactive user refused", func(t *testing.T) {
		inactive := *user
		inactive.IsActive = false
		svc, _ := newService(&inactive)

		_, _, _, err := svc.Login(context.Background(), user.Email, password)
		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _ := newService(user)

		_, _, _, err := svc.Login(context.Background(), "nobody@example.com", password)
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestService_Register(t *testing.T) {
	t.Run("worker login inherits the roster stage", func(t *testing.T) {
		var created *auth.User
		repo := &fakeAuthRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				created = user
				return nil
			},
		}
		rbacSvc := &fakeRBACService{}
		workers := &fakeWorkerRepository{workers: map[string]*workforce.Worker{
			"WK-001": {WorkerCode: "WK-001", StageCode: "GLAZE", FullName: "Ravi"},
		}}
		svc := auth.NewService(repo, rbacSvc, workers)

		resp, err := svc.Register(context.Background(), auth.RegisterRequest{
			StageCode:  "POLISH",
			WorkerCode: "WK-001",
			Email:      "ravi@example.com",
			Name:       "Ravi",
			Password:   "password123",
		})

		assert.NoError(t, err)
		assert.Equal(t, "GLAZE", resp.StageCode)
		assert.Equal(t, "WK-001", resp.WorkerCode)
		assert.NotNil(t, created)
		assert.Equal(t, "GLAZE", created.StageCode)
		assert.Equal(t, []string{"GLAZE"}, rbacSvc.loadedStages)
	})

	t.Run("unknown worker code refused", func(t *testing.T) {
		repo := &fakeAuthRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				t.Fatal("create should not run")
				return nil
			},
		}
		svc := auth.NewService(repo, &fakeRBACService{}, &fakeWorkerRepository{})

		_, err := svc.Register(context.Background(), auth.RegisterRequest{
			StageCode:  "GLAZE",
			WorkerCode: "WK-404",
			Email:      "ghost@example.com",
			Name:       "Ghost",
			Password:   "password123",
		})
		assert.ErrorIs(t, err, autherrors.ErrWorkerNotFound)
	})

	t.Run("planner login keeps the requested stage", func(t *testing.T) {
		var created *auth.User
		repo := &fakeAuthRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				created = user
				return nil
			},
		}
		svc := auth.NewService(repo, &fakeRBACService{}, &fakeWorkerRepository{})

		resp, err := svc.Register(context.Background(), auth.RegisterRequest{
			StageCode: "GLAZE",
			Email:     "planner@example.com",
			Name:      "Planner",
			Password:  "password123",
		})

		assert.NoError(t, err)
		assert.Equal(t, "GLAZE", resp.StageCode)
		assert.Empty(t, resp.WorkerCode)
		assert.Nil(t, created.WorkerCode)
	})
}

func TestService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	password := "password123"
	pw, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	user := &auth.User{
		ID:        uuid.New(),
		StageCode: "GLAZE",
		Email:     "operator@example.com",
		Password:  string(pw),
		Role:      "OPERATOR",
		IsActive:  true,
	}

	repo := &fakeAuthRepository{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		},
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, errors.New("record not found")
		},
	}
	svc := auth.NewService(repo, &fakeRBACService{}, &fakeWorkerRepository{})

	_, refreshToken, _, err := svc.Login(context.Background(), user.Email, password)
	assert.NoError(t, err)

	t.Run("valid refresh rotates both tokens", func(t *testing.T) {
		newAccess, newRefresh, resp, err := svc.RefreshToken(context.Background(), refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, user.Email, resp.Email)
	})

	t.Run("garbage token refused", func(t *testing.T) {
		_, _, _, err := svc.RefreshToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}
