package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer builds an enforcer with the stage-scoped RBAC model.
// Policies are loaded per stage at runtime, not from a policy file.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
