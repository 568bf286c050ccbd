package user

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/shared/contextutil"
	usererrors "github.com/nidhinaz01/kndy-pms-sub001/internal/user/errors"
)

// Roles known to the floor policy tables.
var knownRoles = map[string]bool{
	"ADMIN":      true,
	"SUPERVISOR": true,
	"PLANNER":    true,
	"OPERATOR":   true,
}

type Service interface {
	GetAll(ctx context.Context, stageCode string) ([]UserResponse, error)
	GetAllWithRoles(ctx context.Context, stageCode string) ([]UserWithRolesResponse, error)
	GetByID(ctx context.Context, stageCode, id string) (UserResponse, error)

	AssignRole(ctx context.Context, stageCode, userID, roleID string) error
	ToggleStatus(ctx context.Context, stageCode, id string, isActive bool) error

	ChangePassword(ctx context.Context, stageCode, userID, currentPassword, newPassword string) error
	ResetPassword(ctx context.Context, stageCode, userID, newPassword string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAll(ctx context.Context, stageCode string) ([]UserResponse, error) {
	users, err := s.repo.FindAllByStage(ctx, stageCode)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}

	return resp, nil
}

func (s *service) GetAllWithRoles(ctx context.Context, stageCode string) ([]UserWithRolesResponse, error) {
	users, err := s.repo.FindAllByStageWithRoles(ctx, stageCode)
	if err != nil {
		return nil, err
	}

	resp := make([]UserWithRolesResponse, 0, len(users))
	for _, u := range users {
		roles := []string{}
		if strings.TrimSpace(u.RolesRaw) != "" {
			roles = strings.Split(u.RolesRaw, ",")
		}

		resp = append(resp, UserWithRolesResponse{
			ID:         u.ID,
			WorkerCode: u.WorkerCode,
			StageCode:  u.StageCode,
			Email:      u.Email,
			Name:       u.Name,
			IsActive:   u.IsActive,
			Roles:      roles,
			CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return resp, nil
}

func (s *service) GetByID(ctx context.Context, stageCode, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, stageCode, id)
	if err != nil {
		return UserResponse{}, usererrors.ErrUserNotFound
	}

	return mapToResponse(*u), nil
}

func (s *service) AssignRole(ctx context.Context, stageCode, userID, roleID string) error {
	l := contextutil.GetLogger(ctx, nil)

	roleID = strings.ToUpper(strings.TrimSpace(roleID))
	if !knownRoles[roleID] {
		return usererrors.ErrInvalidRole
	}

	u, err := s.repo.FindByID(ctx, stageCode, userID)
	if err != nil {
		return usererrors.ErrUserNotFound
	}

	l.Info("assigning role",
		zap.String("user_id", u.ID.String()),
		zap.String("role_id", roleID),
		zap.String("stage_code", stageCode),
	)

	return s.repo.AssignRole(ctx, u.ID.String(), roleID, stageCode)
}

func (s *service) ToggleStatus(ctx context.Context, stageCode, id string, isActive bool) error {
	l := contextutil.GetLogger(ctx, nil)

	u, err := s.repo.FindByID(ctx, stageCode, id)
	if err != nil {
		l.Error("failed to find user", zap.Error(err))
		return usererrors.ErrUserNotFound
	}

	u.IsActive = isActive

	if err := s.repo.Update(ctx, u); err != nil {
		l.Error("failed to update user status", zap.Error(err))
		return err
	}

	return nil
}

func (s *service) ChangePassword(ctx context.Context, stageCode, userID, currentPassword, newPassword string) error {
	l := contextutil.GetLogger(ctx, nil)

	u, err := s.repo.FindByID(ctx, stageCode, userID)
	if err != nil {
		return usererrors.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		l.Error("failed to hash new password", zap.Error(err))
		return err
	}

	u.Password = string(hashed)
	return s.repo.Update(ctx, u)
}

func (s *service) ResetPassword(ctx context.Context, stageCode, userID, newPassword string) error {
	u, err := s.repo.FindByID(ctx, stageCode, userID)
	if err != nil {
		return usererrors.ErrUserNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hashed)
	return s.repo.Update(ctx, u)
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		StageCode: u.StageCode,
		Email:     u.Email,
		Name:      u.Name,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if u.WorkerCode != nil {
		resp.WorkerCode = *u.WorkerCode
	}
	return resp
}
