package skill

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	skillerrors "github.com/nidhinaz01/kndy-pms-sub001/internal/skill/errors"
)

// Assignment pairs one required skill with either a worker or an explicit
// deviation reason. Exactly one of WorkerCode / DeviationReason is set.
type Assignment struct {
	SkillCode       string
	WorkerCode      string
	DeviationReason string
}

func (a Assignment) IsDeviation() bool {
	return a.WorkerCode == ""
}

// PlanSource is the narrow view of the plan store the resolver needs for
// combination lockout.
type PlanSource interface {
	// ActivePlanCombos returns the combo codes that currently hold an
	// active (non-reported, non-deleted) plan for the work key.
	ActivePlanCombos(ctx context.Context, stageCode, workOrderRef, workCode string) ([]string, error)
}

type Resolver interface {
	// Resolve expands the chosen combination into per-skill assignments.
	// Every required skill must carry a worker or a non-empty deviation
	// reason, otherwise the assignment set is incomplete.
	Resolve(ctx context.Context, workCode, comboCode string, workers map[string]string, deviations map[string]string) ([]Assignment, error)
	// CheckLockout refuses a combination when a sibling combination for
	// the same work already holds an active plan. Two breakdowns of the
	// same physical task must never be counted at once.
	CheckLockout(ctx context.Context, stageCode, workOrderRef, workCode, comboCode string) error
}

type resolver struct {
	repo   Repository
	plans  PlanSource
	logger *zap.Logger
}

func NewResolver(repo Repository, plans PlanSource, logger ...*zap.Logger) Resolver {
	l := zap.L().Named("skill.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("skill.resolver")
	}
	return &resolver{repo: repo, plans: plans, logger: l}
}

func (r *resolver) Resolve(ctx context.Context, workCode, comboCode string, workers map[string]string, deviations map[string]string) ([]Assignment, error) {
	combo, err := r.repo.FindCombination(ctx, workCode, comboCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, skillerrors.ErrCombinationNotFound
		}
		return nil, err
	}

	items, err := r.repo.FindItems(ctx, combo.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, skillerrors.ErrCombinationEmpty
	}

	assignments := make([]Assignment, 0, len(items))
	for _, item := range items {
		worker := workers[item.SkillCode]
		reason := deviations[item.SkillCode]

		switch {
		case worker != "":
			assignments = append(assignments, Assignment{
				SkillCode:  item.SkillCode,
				WorkerCode: worker,
			})
		case reason != "":
			assignments = append(assignments, Assignment{
				SkillCode:       item.SkillCode,
				DeviationReason: reason,
			})
		default:
			r.logger.Warn("skill left unassigned without deviation reason",
				zap.String("work_code", workCode),
				zap.String("combo_code", comboCode),
				zap.String("skill_code", item.SkillCode),
			)
			return nil, skillerrors.UnassignedSkill(item.SkillCode)
		}
	}

	return assignments, nil
}

func (r *resolver) CheckLockout(ctx context.Context, stageCode, workOrderRef, workCode, comboCode string) error {
	active, err := r.plans.ActivePlanCombos(ctx, stageCode, workOrderRef, workCode)
	if err != nil {
		return err
	}

	for _, c := range active {
		if c != comboCode {
			r.logger.Warn("combination locked by sibling plan",
				zap.String("work_code", workCode),
				zap.String("requested_combo", comboCode),
				zap.String("holding_combo", c),
			)
			return skillerrors.ErrCombinationLocked.WithDetails(map[string]string{
				"holding_combo": c,
			})
		}
	}

	return nil
}
