package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an application login. WorkerCode is set for operators who also
// appear on the floor roster; planners and supervisors may have no worker row.
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
