package rbac

import (
	"gorm.io/gorm"
)

type UserRole struct {
	UserID    string `gorm:"column:user_id"`
	RoleID    string `gorm:"column:role_id"`
	StageCode string `gorm:"column:stage_code"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type RolePermission struct {
	RoleID    string `gorm:"column:role_id"`
	StageCode string `gorm:"column:stage_code"`
	Resource  string `gorm:"column:resource"`
	Action    string `gorm:"column:action"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type Repository interface {
	GetUserRoles(stageCode string) ([]UserRole, error)
	GetRolePermissions(stageCode string) ([]RolePermission, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetUserRoles(stageCode string) ([]UserRole, error) {
	var rows []UserRole
	err := r.db.
		Where("stage_code = ?", stageCode).
		Find(&rows).Error
	return rows, err
}

func (r *repository) GetRolePermissions(stageCode string) ([]RolePermission, error) {
	var rows []RolePermission
	err := r.db.
		Where("stage_code = ?", stageCode).
		Find(&rows).Error
	return rows, err
}
