package routine

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

// promptStopWords are skipped when extracting title words from a prompt.
var promptStopWords = map[string]struct{}{
	"that": {}, "this": {}, "with": {}, "from": {}, "your": {}, "want": {},
	"need": {}, "some": {}, "give": {}, "make": {}, "create": {}, "build": {},
	"please": {}, "would": {}, "like": {}, "workout": {}, "routine": {},
	"session": {}, "minute": {}, "minutes": {}, "focusing": {}, "focus": {},
	"quick": {}, "short": {}, "long": {}, "easy": {}, "hard": {},
}

// ClassifyPrompt maps a free-text prompt to a routine category by keyword
// containment, first matching category in rule order wins.
func ClassifyPrompt(prompt string) Category {
	lowered := strings.ToLower(prompt)
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r.category
			}
		}
	}
	return CategoryGeneral
}

// GenerateFromPrompt builds a complete, unsaved routine from a free-text
// prompt: classify to a category, instantiate that category's card template,
// and derive a title from the prompt's significant words.
func GenerateFromPrompt(prompt string) (*types.Routine, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", apperrors.ErrInvalidArgument)
	}

	category := ClassifyPrompt(trimmed)
	now := time.Now()
	r := &types.Routine{
		ID:          uuid.New(),
		Title:       titleFromPrompt(trimmed, category),
		Description: trimmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.Cards = instantiateTemplate(cardTemplates[category], r.ID, now)
	r.TotalDuration = types.TotalDurationOf(r.Cards)
	return r, nil
}

// GenerateFromCollection builds a routine from the items in a user's content
// collection whose title, description, or tag names contain the keyword.
// An empty keyword matches everything. Collection order is preserved.
func GenerateFromCollection(keyword string, collection []*types.ContentItem, maxCards int) (*types.Routine, error) {
	if maxCards <= 0 {
		return nil, fmt.Errorf("%w: maxCards must be positive", apperrors.ErrInvalidArgument)
	}

	needle := strings.ToLower(strings.TrimSpace(keyword))
	now := time.Now()
	title := "Custom Routine"
	if needle != "" {
		// Keyword as supplied, only whitespace-trimmed.
		title = fmt.Sprintf("%s Routine", strings.TrimSpace(keyword))
	}
	r := &types.Routine{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, item := range collection {
		if item == nil || !matchesKeyword(item, needle) {
			continue
		}
		card := CardFromContentItem(item, r.ID, now)
		card.Position = len(r.Cards)
		r.Cards = append(r.Cards, card)
		if len(r.Cards) == maxCards {
			break
		}
	}
	r.TotalDuration = types.TotalDurationOf(r.Cards)
	return r, nil
}

// CardFromContentItem is the single item-to-card mapping shared by collection
// generation and platform syncs.
func CardFromContentItem(item *types.ContentItem, routineID uuid.UUID, now time.Time) *types.Card {
	card := &types.Card{
		ID:             uuid.New(),
		RoutineID:      routineID,
		Title:          item.Title,
		Description:    item.Description,
		SourceType:     item.SourceType,
		MediaReference: item.MediaReference,
		Duration:       item.Duration,
		CreatedBy:      "user",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, name := range item.Tags() {
		card.Tags = append(card.Tags, &types.Tag{
			ID:        uuid.New(),
			Name:      name,
			Category:  types.TagCategoryCustom,
			CreatedAt: now,
		})
	}
	return card
}

func matchesKeyword(item *types.ContentItem, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(item.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Description), needle) {
		return true
	}
	for _, tag := range item.Tags() {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func instantiateTemplate(tmpl []templateCard, routineID uuid.UUID, now time.Time) []*types.Card {
	cards := make([]*types.Card, 0, len(tmpl))
	for i, tc := range tmpl {
		card := &types.Card{
			ID:          uuid.New(),
			RoutineID:   routineID,
			Position:    i,
			Title:       tc.title,
			Description: tc.description,
			SourceType:  types.SourceTypeCustom,
			Duration:    tc.duration,
			CreatedBy:   "agent",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if tc.sets > 0 {
			sets := tc.sets
			card.Sets = &sets
		}
		if tc.reps > 0 {
			reps := tc.reps
			card.Reps = &reps
		}
		for j, cue := range tc.cues {
			card.Cues = append(card.Cues, &types.Cue{
				ID:        uuid.New(),
				CardID:    card.ID,
				Position:  j,
				Label:     cue.label,
				Type:      cue.cueType,
				CreatedAt: now,
			})
		}
		for _, tag := range tc.tags {
			card.Tags = append(card.Tags, &types.Tag{
				ID:        uuid.New(),
				Name:      tag.name,
				Category:  tag.category,
				CreatedAt: now,
			})
		}
		cards = append(cards, card)
	}
	return cards
}

// titleFromPrompt combines up to two significant prompt words with the
// category suffix, e.g. "Hiit Core Cardio Workout".
func titleFromPrompt(prompt string, category Category) string {
	words := make([]string, 0, 2)
	for _, raw := range strings.Fields(prompt) {
		word := strings.TrimFunc(raw, func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		if len(word) <= 3 || !isAlphabetic(word) {
			continue
		}
		if _, stop := promptStopWords[strings.ToLower(word)]; stop {
			continue
		}
		words = append(words, capitalize(word))
		if len(words) == 2 {
			break
		}
	}
	suffix := categorySuffixes[category]
	if len(words) == 0 {
		return fmt.Sprintf("Custom %s", suffix)
	}
	return fmt.Sprintf("%s %s", strings.Join(words, " "), suffix)
}

func isAlphabetic(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	lowered := strings.ToLower(word)
	return strings.ToUpper(lowered[:1]) + lowered[1:]
}
