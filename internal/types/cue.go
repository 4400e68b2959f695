package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
)

type CueType string

const (
	CueTypeForm      CueType = "form"
	CueTypeBreathing CueType = "breathing"
	CueTypeTempo     CueType = "tempo"
	CueTypeFocus     CueType = "focus"
	CueTypeIntensity CueType = "intensity"
	CueTypeGeneral   CueType = "general"
	CueTypeOther     CueType = "other"
)

func (t CueType) Valid() bool {
	switch t {
	case CueTypeForm, CueTypeBreathing, CueTypeTempo, CueTypeFocus, CueTypeIntensity, CueTypeGeneral, CueTypeOther:
		return true
	default:
		return false
	}
}

// Cue is a short instructional annotation on a card. Timestamp, when set, is
// seconds into the card's own timeline, not the source media.
type Cue struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CardID    uuid.UUID `gorm:"type:uuid;index" json:"card_id,omitempty"`
	Position  int       `gorm:"column:position;not null;default:0" json:"position"`
	Label     string    `gorm:"column:label;not null" json:"label"`
	Type      CueType   `gorm:"column:type;not null;default:'general'" json:"type"`
	Timestamp *int      `gorm:"column:timestamp" json:"timestamp,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Cue) TableName() string { return "cue" }

func (c *Cue) Validate(cardDuration int) error {
	if c == nil {
		return fmt.Errorf("%w: nil cue", apperrors.ErrInvalidArgument)
	}
	if c.Label == "" {
		return fmt.Errorf("%w: cue label must not be empty", apperrors.ErrInvalidArgument)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: unknown cue type %q", apperrors.ErrInvalidArgument, c.Type)
	}
	if c.Timestamp != nil {
		if *c.Timestamp < 0 {
			return fmt.Errorf("%w: cue timestamp must be non-negative", apperrors.ErrInvalidArgument)
		}
		if cardDuration > 0 && *c.Timestamp > cardDuration {
			return fmt.Errorf("%w: cue timestamp exceeds card duration", apperrors.ErrInvalidArgument)
		}
	}
	return nil
}
