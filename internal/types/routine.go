package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
)

// Routine is a named, ordered collection of cards. Card order is the playback
// order; TotalDuration is derived from the cards and never stored stale.
type Routine struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title         string    `gorm:"column:title;not null" json:"title"`
	Description   string    `gorm:"column:description" json:"description,omitempty"`
	IsPublic      bool      `gorm:"column:is_public;not null;default:false" json:"is_public"`
	Cards         []*Card   `gorm:"constraint:OnDelete:CASCADE;foreignKey:RoutineID;references:ID" json:"cards"`
	Tags          []*Tag    `gorm:"many2many:routine_tag" json:"tags,omitempty"`
	TotalDuration int       `gorm:"column:total_duration;not null;default:0" json:"total_duration"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Routine) TableName() string { return "routine" }

func (r *Routine) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil routine", apperrors.ErrInvalidArgument)
	}
	if r.Title == "" {
		return fmt.Errorf("%w: routine title must not be empty", apperrors.ErrInvalidArgument)
	}
	seen := make(map[uuid.UUID]struct{}, len(r.Cards))
	for _, card := range r.Cards {
		if err := card.Validate(); err != nil {
			return err
		}
		if _, dup := seen[card.ID]; dup {
			return fmt.Errorf("%w: duplicate card id %s", apperrors.ErrInvalidArgument, card.ID)
		}
		seen[card.ID] = struct{}{}
	}
	return nil
}

func (r *Routine) CardIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Cards))
	for _, card := range r.Cards {
		ids = append(ids, card.ID)
	}
	return ids
}

// TotalDurationOf sums card durations; cards without one contribute zero.
func TotalDurationOf(cards []*Card) int {
	total := 0
	for _, card := range cards {
		if card != nil && card.Duration > 0 {
			total += card.Duration
		}
	}
	return total
}
