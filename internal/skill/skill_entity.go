package skill

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkillCombination is a named alternative breakdown of one unit of work
// into individual required skills.
type SkillCombination struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ComboCode string         `gorm:"column:combo_code;type:varchar(30);not null;index"`
	WorkCode  string         `gorm:"column:work_code;type:varchar(30);not null;index"`
	Position  int            `gorm:"column:position;not null"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (SkillCombination) TableName() string {
	return "skill_combinations"
}

// SkillCombinationItem rows are the ordered individual skills of a combination.
type SkillCombinationItem struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ComboID   uuid.UUID      `gorm:"column:combo_id;type:uuid;not null;index"`
	SkillCode string         `gorm:"column:skill_code;type:varchar(30);not null"`
	Position  int            `gorm:"column:position;not null"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (SkillCombinationItem) TableName() string {
	return "skill_combination_items"
}
