package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/user"
	usererrors "github.com/nidhinaz01/kndy-pms-sub001/internal/user/errors"
)

type fakeUserRepository struct {
	users         map[string]*user.User
	updated       []*user.User
	assignedRoles [][3]string
}

func (f *fakeUserRepository) FindByID(ctx context.Context, stageCode, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok || u.StageCode != stageCode {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (f *fakeUserRepository) FindAllByStage(ctx context.Context, stageCode string) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.StageCode == stageCode {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepository) FindAllByStageWithRoles(ctx context.Context, stageCode string) ([]user.UserWithRoles, error) {
	return nil, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	f.updated = append(f.updated, u)
	return nil
}

func (f *fakeUserRepository) AssignRole(ctx context.Context, userID, roleID, stageCode string) error {
	f.assignedRoles = append(f.assignedRoles, [3]string{userID, roleID, stageCode})
	return nil
}

func seedUser(stageCode string) *user.User {
	pw, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	return &user.User{
		ID:        uuid.New(),
		StageCode: stageCode,
		Email:     "op@example.com",
		Password:  string(pw),
		Role:      "OPERATOR",
		IsActive:  true,
	}
}

func TestService_AssignRole(t *testing.T) {
	u := seedUser("GLAZE")
	repo := &fakeUserRepository{users: map[string]*user.User{u.ID.String(): u}}
	svc := user.NewService(repo)

	t.Run("assigns a known role for the stage", func(t *testing.T) {
		err := svc.AssignRole(context.Background(), "GLAZE", u.ID.String(), "planner")

		assert.NoError(t, err)
		assert.Len(t, repo.assignedRoles, 1)
		assert.Equal(t, [3]string{u.ID.String(), "PLANNER", "GLAZE"}, repo.assignedRoles[0])
	})

	t.Run("unknown role refused", func(t *testing.T) {
		err := svc.AssignRole(context.Background(), "GLAZE", u.ID.String(), "WIZARD")
		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})

	t.Run("user from another stage invisible", func(t *testing.T) {
		err := svc.AssignRole(context.Background(), "POLISH", u.ID.String(), "PLANNER")
		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestService_ToggleStatus(t *testing.T) {
	u := seedUser("GLAZE")
	repo := &fakeUserRepository{users: map[string]*user.User{u.ID.String(): u}}
	svc := user.NewService(repo)

	err := svc.ToggleStatus(context.Background(), "GLAZE", u.ID.String(), false)

	assert.NoError(t, err)
	assert.Len(t, repo.updated, 1)
	assert.False(t, repo.updated[0].IsActive)
}

func TestService_ChangePassword(t *testing.T) {
	t.Run("correct current password", func(t *testing.T) {
		u := seedUser("GLAZE")
		repo := &fakeUserRepository{users: map[string]*user.User{u.ID.String(): u}}
		svc := user.NewService(repo)

		err := svc.ChangePassword(context.Background(), "GLAZE", u.ID.String(), "oldpassword", "newpassword")

		assert.NoError(t, err)
		assert.Len(t, repo.updated, 1)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(repo.updated[0].Password), []byte("newpassword"),
		))
	})

	t.Run("wrong current password refused", func(t *testing.T) {
		u := seedUser("GLAZE")
		repo := &fakeUserRepository{users: map[string]*user.User{u.ID.String(): u}}
		svc := user.NewService(repo)

		err := svc.ChangePassword(context.Background(), "GLAZE", u.ID.String(), "wrong", "newpassword")

		assert.ErrorIs(t, err, usererrors.ErrWrongPassword)
		assert.Empty(t, repo.updated)
	})
}

func TestService_GetAll(t *testing.T) {
	u := seedUser("GLAZE")
	other := seedUser("POLISH")
	other.Email = "polish@example.com"
	repo := &fakeUserRepository{users: map[string]*user.User{
		u.ID.String():     u,
		other.ID.String(): other,
	}}
	svc := user.NewService(repo)

	resp, err := svc.GetAll(context.Background(), "GLAZE")

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, "op@example.com", resp[0].Email)
}
