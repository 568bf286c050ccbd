package user

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nidhinaz01/kndy-pms-sub001/internal/rbac"
)

type Repository interface {
	FindByID(ctx context.Context, stageCode, id string) (*User, error)
	FindAllByStage(ctx context.Context, stageCode string) ([]User, error)
	FindAllByStageWithRoles(ctx context.Context, stageCode string) ([]UserWithRoles, error)
	Update(ctx context.Context, u *User) error
	AssignRole(ctx context.Context, userID, roleID, stageCode string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, stageCode, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("stage_code = ?", stageCode).
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindAllByStage(ctx context.Context, stageCode string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("stage_code = ?", stageCode).
		Order("email ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindAllByStageWithRoles(ctx context.Context, stageCode string) ([]UserWithRoles, error) {
	var rows []UserWithRoles
	err := r.db.WithContext(ctx).
		Table("users").
		Select(`users.id, COALESCE(users.worker_code, '') AS worker_code, users.stage_code,
			users.email, users.name, users.is_active, users.created_at,
			COALESCE(string_agg(ur.role_id, ',' ORDER BY ur.role_id), '') AS roles_raw`).
		Joins("LEFT JOIN user_roles ur ON ur.user_id = users.id::text AND ur.stage_code = users.stage_code").
		Where("users.stage_code = ?", stageCode).
		Where("users.deleted_at IS NULL").
		Group("users.id").
		Order("users.email ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// AssignRole upserts one user_roles row. The rbac service reloads stage
// policies on every enforce, so no cache invalidation is needed.
func (r *repository) AssignRole(ctx context.Context, userID, roleID, stageCode string) error {
	row := rbac.UserRole{
		UserID:    userID,
		RoleID:    roleID,
		StageCode: stageCode,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}
