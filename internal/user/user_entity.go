package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors the auth login row for administration. Listing, role
// assignment and status toggling live here; credential flows live in auth.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerCode *string   `gorm:"type:varchar(30);uniqueIndex"`
	StageCode  string    `gorm:"type:varchar(20);not null;index"`
	Name       string    `gorm:"type:varchar(150);not null"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password   string    `gorm:"type:varchar(255);not null"`
	Role       string    `gorm:"type:varchar(50);not null;default:'OPERATOR'"`
	IsActive   bool      `gorm:"default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// UserWithRoles is the read model for the roles listing: RolesRaw is the
// comma-joined aggregate from user_roles.
type UserWithRoles struct {
	ID         string
	WorkerCode string
	StageCode  string
	Email      string
	Name       string
	IsActive   bool
	RolesRaw   string
	CreatedAt  time.Time
}
