package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
)

type SourceType string

const (
	SourceTypeVideoHosting   SourceType = "video-hosting"
	SourceTypeShortFormVideo SourceType = "short-form-video"
	SourceTypeImageSocial    SourceType = "image-social"
	SourceTypeArticle        SourceType = "article"
	SourceTypeGenericWeb     SourceType = "generic-web"
	SourceTypeCustom         SourceType = "custom"
)

// HasPlayableMedia reports whether a source type implies media we can seek into.
func (s SourceType) HasPlayableMedia() bool {
	switch s {
	case SourceTypeVideoHosting, SourceTypeShortFormVideo, SourceTypeImageSocial:
		return true
	default:
		return false
	}
}

// Card is a single instructional unit within a routine. A card is either
// duration-based (fixed seconds, possibly clipped out of source media via
// start/end offsets) or sets/reps-based, or purely informational.
type Card struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RoutineID      uuid.UUID  `gorm:"type:uuid;index" json:"routine_id,omitempty"`
	Position       int        `gorm:"column:position;not null;default:0" json:"position"`
	Title          string     `gorm:"column:title;not null" json:"title"`
	Description    string     `gorm:"column:description" json:"description,omitempty"`
	SourceType     SourceType `gorm:"column:source_type;not null" json:"source_type"`
	MediaReference string     `gorm:"column:media_reference" json:"media_reference,omitempty"`
	StartOffset    *int       `gorm:"column:start_offset" json:"start_offset,omitempty"`
	EndOffset      *int       `gorm:"column:end_offset" json:"end_offset,omitempty"`
	Duration       int        `gorm:"column:duration;not null;default:0" json:"duration"`
	Sets           *int       `gorm:"column:sets" json:"sets,omitempty"`
	Reps           *int       `gorm:"column:reps" json:"reps,omitempty"`
	CreatedBy      string     `gorm:"column:created_by;not null;default:'user'" json:"created_by"`
	Cues           []*Cue     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CardID;references:ID" json:"cues,omitempty"`
	Tags           []*Tag     `gorm:"many2many:card_tag" json:"tags,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Card) TableName() string { return "card" }

// Validate checks the structural invariants of a card. Segment offsets are
// positions in the source media; a zero-length clip is invalid.
func (c *Card) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil card", apperrors.ErrInvalidArgument)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: card title must not be empty", apperrors.ErrInvalidArgument)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration must be non-negative", apperrors.ErrInvalidArgument)
	}
	if (c.StartOffset != nil || c.EndOffset != nil) && c.MediaReference == "" {
		return fmt.Errorf("%w: segment offsets require a media reference", apperrors.ErrInvalidArgument)
	}
	if c.StartOffset != nil && *c.StartOffset < 0 {
		return fmt.Errorf("%w: start offset must be non-negative", apperrors.ErrInvalidArgument)
	}
	if c.EndOffset != nil && *c.EndOffset < 0 {
		return fmt.Errorf("%w: end offset must be non-negative", apperrors.ErrInvalidArgument)
	}
	if c.StartOffset != nil && c.EndOffset != nil {
		if *c.EndOffset <= *c.StartOffset {
			return fmt.Errorf("%w: end offset must be greater than start offset", apperrors.ErrInvalidArgument)
		}
		if c.Duration != *c.EndOffset-*c.StartOffset {
			return fmt.Errorf("%w: duration must equal end offset minus start offset", apperrors.ErrInvalidArgument)
		}
	}
	if c.Sets != nil && *c.Sets <= 0 {
		return fmt.Errorf("%w: sets must be positive", apperrors.ErrInvalidArgument)
	}
	if c.Reps != nil && *c.Reps <= 0 {
		return fmt.Errorf("%w: reps must be positive", apperrors.ErrInvalidArgument)
	}
	for _, cue := range c.Cues {
		if err := cue.Validate(c.Duration); err != nil {
			return err
		}
	}
	return nil
}
