package auth

import (
	"context"
	"os"
	"time"

	autherrors "github.com/nidhinaz01/kndy-pms-sub001/internal/auth/errors"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/rbac"
	"github.com/nidhinaz01/kndy-pms-sub001/internal/workforce"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)

	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	repo    Repository
	rbac    rbac.Service
	workers workforce.Repository
}

func NewService(repo Repository, rbac rbac.Service, workers workforce.Repository) Service {
	return &service{repo: repo, rbac: rbac, workers: workers}
}

func (s *service) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	// Warm up the stage policy so the first authorized call does not pay
	// the load.
	if err := s.rbac.LoadStagePolicy(user.StageCode); err != nil {
		return "", "", AuthResponse{}, err
	}

	accessToken, err = s.generateToken(user, time.Minute*15)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err = s.generateToken(user, time.Hour*24*7)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, mapToResponse(user), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}

	newAccessToken, err := s.generateToken(user, time.Minute*15)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	newRefreshToken, err := s.generateToken(user, time.Hour*24*7)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, mapToResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := mapToResponse(u)
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	stageCode := req.StageCode
	var workerCode *string
	if req.WorkerCode != "" {
		worker, err := s.workers.FindByCode(ctx, req.WorkerCode)
		if err != nil {
			return AuthResponse{}, autherrors.ErrWorkerNotFound
		}
		// Worker logins belong to the worker's roster stage.
		stageCode = worker.StageCode
		workerCode = &worker.WorkerCode
	}

	user := &User{
		ID:         uuid.New(),
		WorkerCode: workerCode,
		StageCode:  stageCode,
		Email:      req.Email,
		Name:       req.Name,
		Password:   string(hashed),
		Role:       "OPERATOR",
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	if err := s.rbac.LoadStagePolicy(user.StageCode); err != nil {
		return AuthResponse{}, err
	}

	return mapToResponse(user), nil
}

func (s *service) generateToken(user *User, expiry time.Duration) (string, error) {
	workerCode := ""
	if user.WorkerCode != nil {
		workerCode = *user.WorkerCode
	}

	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"worker_id":  workerCode,
		"stage_code": user.StageCode,
		"role":       user.Role,
		"exp":        time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToResponse(u *User) AuthResponse {
	workerCode := ""
	if u.WorkerCode != nil {
		workerCode = *u.WorkerCode
	}
	return AuthResponse{
		ID:         u.ID.String(),
		StageCode:  u.StageCode,
		WorkerCode: workerCode,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
	}
}
