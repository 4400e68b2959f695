package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
)

type TagCategory string

const (
	TagCategoryBodyPart   TagCategory = "body-part"
	TagCategoryEquipment  TagCategory = "equipment"
	TagCategoryGoal       TagCategory = "goal"
	TagCategoryDifficulty TagCategory = "difficulty"
	TagCategoryFocus      TagCategory = "focus"
	TagCategoryCustom     TagCategory = "custom"
)

func (c TagCategory) Valid() bool {
	switch c {
	case TagCategoryBodyPart, TagCategoryEquipment, TagCategoryGoal, TagCategoryDifficulty, TagCategoryFocus, TagCategoryCustom:
		return true
	default:
		return false
	}
}

type Tag struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string      `gorm:"column:name;not null" json:"name"`
	Category  TagCategory `gorm:"column:category;not null;default:'custom'" json:"category"`
	Color     string      `gorm:"column:color" json:"color,omitempty"`
	CreatedAt time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (Tag) TableName() string { return "tag" }

func (t *Tag) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil tag", apperrors.ErrInvalidArgument)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: tag name must not be empty", apperrors.ErrInvalidArgument)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: unknown tag category %q", apperrors.ErrInvalidArgument, t.Category)
	}
	return nil
}
