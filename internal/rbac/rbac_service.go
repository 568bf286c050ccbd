package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/domain"
)

type Service interface {
	LoadStagePolicy(stageCode string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadStagePolicy(stageCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadStagePolicyUnlocked(stageCode)
}

func (s *service) loadStagePolicyUnlocked(stageCode string) error {
	s.enforcer.ClearPolicy()

	userRoles, err := s.repo.GetUserRoles(stageCode)
	if err != nil {
		return err
	}

	for _, ur := range userRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ur.UserID, ur.RoleID, stageCode); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(stageCode)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, stageCode, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("stage policy loaded",
		zap.String("stage_code", stageCode),
		zap.Int("user_roles", len(userRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadStagePolicyUnlocked(req.StageCode); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.UserID,
		req.StageCode,
		req.Resource,
		req.Action,
	)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("user_id", req.UserID),
			zap.String("stage_code", req.StageCode),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("user_id", req.UserID),
		zap.String("stage_code", req.StageCode),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}
