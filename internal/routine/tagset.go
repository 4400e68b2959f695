package routine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

// TagRegistry is a caller-owned registry of known tags. There is deliberately
// no package-level registry; each caller constructs its own so custom tags
// never leak across sessions.
type TagRegistry struct {
	tags []*types.Tag
}

func NewTagRegistry() *TagRegistry {
	reg := &TagRegistry{}
	now := time.Now()
	seed := []struct {
		name     string
		category types.TagCategory
		color    string
	}{
		{"core", types.TagCategoryBodyPart, "#E07A5F"},
		{"legs", types.TagCategoryBodyPart, "#81B29A"},
		{"back", types.TagCategoryBodyPart, "#3D405B"},
		{"full body", types.TagCategoryBodyPart, "#F2CC8F"},
		{"dumbbell", types.TagCategoryEquipment, "#6D6875"},
		{"bodyweight", types.TagCategoryEquipment, "#B5838D"},
		{"endurance", types.TagCategoryGoal, "#457B9D"},
		{"mobility", types.TagCategoryGoal, "#2A9D8F"},
		{"recovery", types.TagCategoryGoal, "#8ECAE6"},
		{"beginner", types.TagCategoryDifficulty, "#A8DADC"},
		{"intermediate", types.TagCategoryDifficulty, "#E9C46A"},
		{"advanced", types.TagCategoryDifficulty, "#E76F51"},
		{"breath", types.TagCategoryFocus, "#CDB4DB"},
	}
	for _, s := range seed {
		reg.tags = append(reg.tags, &types.Tag{
			ID:        uuid.New(),
			Name:      s.name,
			Category:  s.category,
			Color:     s.color,
			CreatedAt: now,
		})
	}
	return reg
}

// Register adds a tag, deduplicating by case-insensitive name within the same
// category. Registering an existing tag returns the existing entry.
func (r *TagRegistry) Register(name string, category types.TagCategory, color string) (*types.Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: tag name must not be empty", apperrors.ErrInvalidArgument)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown tag category %q", apperrors.ErrInvalidArgument, category)
	}
	if existing := r.find(trimmed, category); existing != nil {
		return existing, nil
	}
	tag := &types.Tag{
		ID:        uuid.New(),
		Name:      trimmed,
		Category:  category,
		Color:     color,
		CreatedAt: time.Now(),
	}
	r.tags = append(r.tags, tag)
	return tag, nil
}

func (r *TagRegistry) Find(name string, category types.TagCategory) (*types.Tag, error) {
	if tag := r.find(strings.TrimSpace(name), category); tag != nil {
		return tag, nil
	}
	return nil, fmt.Errorf("%w: tag %q", apperrors.ErrNotFound, name)
}

func (r *TagRegistry) ByCategory(category types.TagCategory) []*types.Tag {
	var out []*types.Tag
	for _, tag := range r.tags {
		if tag.Category == category {
			out = append(out, tag)
		}
	}
	return out
}

func (r *TagRegistry) All() []*types.Tag {
	out := make([]*types.Tag, len(r.tags))
	copy(out, r.tags)
	return out
}

func (r *TagRegistry) find(name string, category types.TagCategory) *types.Tag {
	for _, tag := range r.tags {
		if tag.Category == category && strings.EqualFold(tag.Name, name) {
			return tag
		}
	}
	return nil
}
