package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/solstice-backend/internal/logger"
	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

// CueService suggests short instructional cues for a single card. Suggestions
// are never attached automatically; MergeCues is the explicit attach step.
type CueService interface {
	SuggestCues(ctx context.Context, card *types.Card) ([]*types.Cue, error)
	MergeCues(card *types.Card, suggestions []*types.Cue) int
}

type cueService struct {
	log *logger.Logger
	llm LLMClient
}

func NewCueService(baseLog *logger.Logger, llm LLMClient) CueService {
	return &cueService{
		log: baseLog.With("service", "CueService"),
		llm: llm,
	}
}

type cuePayload struct {
	Label string `json:"label"`
	Type  string `json:"type,omitempty"`
}

type cueResponsePayload struct {
	Cues []cuePayload `json:"cues"`
}

// fallbackCueRules map a title keyword to a fixed cue triplet. Checked in
// order; the generic triplet is the final default.
var fallbackCueRules = []struct {
	keyword string
	cues    []cuePayload
}{
	{"core", []cuePayload{
		{Label: "Brace your core", Type: string(types.CueTypeForm)},
		{Label: "Keep your lower back pressed down", Type: string(types.CueTypeForm)},
		{Label: "Exhale on the effort", Type: string(types.CueTypeBreathing)},
	}},
	{"warm", []cuePayload{
		{Label: "Start slow and controlled", Type: string(types.CueTypeTempo)},
		{Label: "Gradually increase your range of motion", Type: string(types.CueTypeForm)},
		{Label: "Keep your breathing relaxed", Type: string(types.CueTypeBreathing)},
	}},
}

var fallbackGenericCues = []cuePayload{
	{Label: "Maintain good form throughout", Type: string(types.CueTypeForm)},
	{Label: "Breathe steadily", Type: string(types.CueTypeBreathing)},
	{Label: "Stay in control of the movement", Type: string(types.CueTypeTempo)},
}

func (s *cueService) SuggestCues(ctx context.Context, card *types.Card) ([]*types.Cue, error) {
	if card == nil || strings.TrimSpace(card.Title) == "" {
		return nil, fmt.Errorf("%w: card with a title is required", apperrors.ErrInvalidArgument)
	}

	payloads := s.requestCues(ctx, card)
	if len(payloads) == 0 {
		payloads = fallbackCues(card.Title)
	}

	now := time.Now()
	cues := make([]*types.Cue, 0, len(payloads))
	for _, p := range payloads {
		label := strings.TrimSpace(p.Label)
		if label == "" {
			continue
		}
		cueType := types.CueType(p.Type)
		if !cueType.Valid() {
			cueType = types.CueTypeGeneral
		}
		cues = append(cues, &types.Cue{
			ID:        uuid.New(),
			Position:  len(cues),
			Label:     label,
			Type:      cueType,
			CreatedAt: now,
		})
	}
	if len(cues) == 0 {
		// The model returned cues that were all blank; degrade the same way
		// as a failed call.
		return s.materialize(fallbackCues(card.Title), now), nil
	}
	return cues, nil
}

// MergeCues appends suggestions whose label is not already present on the
// card (case-sensitive exact match) and returns how many were added.
func (s *cueService) MergeCues(card *types.Card, suggestions []*types.Cue) int {
	if card == nil {
		return 0
	}
	existing := make(map[string]struct{}, len(card.Cues))
	for _, cue := range card.Cues {
		existing[cue.Label] = struct{}{}
	}
	added := 0
	for _, suggestion := range suggestions {
		if suggestion == nil {
			continue
		}
		if _, dup := existing[suggestion.Label]; dup {
			continue
		}
		attached := *suggestion
		attached.CardID = card.ID
		attached.Position = len(card.Cues)
		card.Cues = append(card.Cues, &attached)
		existing[attached.Label] = struct{}{}
		added++
	}
	return added
}

func (s *cueService) requestCues(ctx context.Context, card *types.Card) []cuePayload {
	content, err := s.llm.Complete(ctx, cuePrompt(card))
	if err != nil {
		s.log.Warn("cue request failed, falling back", "card_title", card.Title, "error", err)
		return nil
	}
	raw, err := extractJSON(content)
	if err != nil {
		s.log.Warn("cue response was not JSON, falling back", "card_title", card.Title, "error", err)
		return nil
	}
	var payload cueResponsePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.log.Warn("cue response did not decode, falling back", "card_title", card.Title, "error", err)
		return nil
	}
	return payload.Cues
}

func (s *cueService) materialize(payloads []cuePayload, now time.Time) []*types.Cue {
	cues := make([]*types.Cue, 0, len(payloads))
	for i, p := range payloads {
		cues = append(cues, &types.Cue{
			ID:        uuid.New(),
			Position:  i,
			Label:     p.Label,
			Type:      types.CueType(p.Type),
			CreatedAt: now,
		})
	}
	return cues
}

// fallbackCues is deterministic per title: the same keyword always yields the
// same triplet, though cue ids are fresh each call.
func fallbackCues(title string) []cuePayload {
	lowered := strings.ToLower(title)
	for _, rule := range fallbackCueRules {
		if strings.Contains(lowered, rule.keyword) {
			return rule.cues
		}
	}
	return fallbackGenericCues
}

func cuePrompt(card *types.Card) string {
	return fmt.Sprintf(`You are an assistant for a wellness app. Generate instructional cues for this exercise:

Exercise: %s
Description: %s
Duration: %d seconds

Generate 3-5 specific, actionable cues covering form, breathing, tempo, intensity, or focus.

Return only valid JSON of the form:
{"cues": [{"label": "Keep core engaged", "type": "form"}, {"label": "Breathe deeply", "type": "breathing"}]}

Valid cue types: "form", "breathing", "tempo", "focus", "intensity", "general"`,
		card.Title, card.Description, card.Duration)
}
