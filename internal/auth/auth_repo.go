package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return &user, err
	}
	if err := r.resolveEffectiveRole(ctx, &user); err != nil {
		return &user, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return &user, err
	}
	if err := r.resolveEffectiveRole(ctx, &user); err != nil {
		return &user, err
	}
	return &user, nil
}

// resolveEffectiveRole picks the strongest role assigned for the user's own
// stage. The column default stands in when no assignment exists yet.
func (r *repository) resolveEffectiveRole(ctx context.Context, user *User) error {
	var roleID string
	err := r.db.WithContext(ctx).
		Table("user_roles").
		Select("role_id").
		Where("user_id = ?", user.ID.String()).
		Where("stage_code = ?", user.StageCode).
		Order(`
			CASE UPPER(role_id)
				WHEN 'ADMIN' THEN 1
				WHEN 'SUPERVISOR' THEN 2
				WHEN 'PLANNER' THEN 3
				WHEN 'OPERATOR' THEN 4
				ELSE 99
			END ASC`).
		Limit(1).
		Scan(&roleID).Error
	if err != nil {
		return err
	}

	if strings.TrimSpace(roleID) == "" {
		roleID = user.Role
	}
	if strings.TrimSpace(roleID) == "" {
		roleID = "OPERATOR"
	}
	user.Role = strings.ToUpper(strings.TrimSpace(roleID))
	return nil
}
