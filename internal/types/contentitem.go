package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContentItem is a piece of external content synced into a user's collection
// from a connected platform. Items are convertible 1:1 into cards.
type ContentItem struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ExternalID     string         `gorm:"column:external_id;index" json:"external_id,omitempty"`
	SourceType     SourceType     `gorm:"column:source_type;not null" json:"source_type"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description" json:"description,omitempty"`
	MediaReference string         `gorm:"column:media_reference" json:"media_reference,omitempty"`
	Duration       int            `gorm:"column:duration;not null;default:0" json:"duration"`
	TagNames       datatypes.JSON `gorm:"column:tag_names;type:jsonb" json:"tag_names,omitempty"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	SyncedAt       time.Time      `gorm:"not null;default:now()" json:"synced_at"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ContentItem) TableName() string { return "content_item" }

// Tags decodes the stored tag-name array; a missing or malformed column reads
// as no tags.
func (ci *ContentItem) Tags() []string {
	if len(ci.TagNames) == 0 {
		return nil
	}
	var names []string
	if err := json.Unmarshal(ci.TagNames, &names); err != nil {
		return nil
	}
	return names
}
