package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

func cueLabels(cues []*types.Cue) []string {
	labels := make([]string, 0, len(cues))
	for _, cue := range cues {
		labels = append(labels, cue.Label)
	}
	return labels
}

func TestSuggestCues_PrimaryPath(t *testing.T) {
	llm := &fakeLLM{content: `{"cues": [{"label": "Keep hips square", "type": "form"}, {"label": "Exhale as you press", "type": "breathing"}]}`}
	svc := NewCueService(testLogger(t), llm)

	cues, err := svc.SuggestCues(context.Background(), &types.Card{ID: uuid.New(), Title: "Overhead Press"})
	if err != nil {
		t.Fatalf("SuggestCues failed: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Label != "Keep hips square" || cues[0].Type != types.CueTypeForm {
		t.Fatalf("first cue not mapped: %+v", cues[0])
	}
}

func TestSuggestCues_UnknownTypeBecomesGeneral(t *testing.T) {
	llm := &fakeLLM{content: `{"cues": [{"label": "Go hard", "type": "motivation"}]}`}
	svc := NewCueService(testLogger(t), llm)

	cues, err := svc.SuggestCues(context.Background(), &types.Card{ID: uuid.New(), Title: "Sprints"})
	if err != nil {
		t.Fatalf("SuggestCues failed: %v", err)
	}
	if cues[0].Type != types.CueTypeGeneral {
		t.Fatalf("unknown type should map to general, got %q", cues[0].Type)
	}
}

func TestSuggestCues_BlankLabelsDroppedWithoutPositionGaps(t *testing.T) {
	llm := &fakeLLM{content: `{"cues": [
		{"label": "Drive through the heels", "type": "form"},
		{"label": "   ", "type": "form"},
		{"label": "Exhale at the top", "type": "breathing"}
	]}`}
	svc := NewCueService(testLogger(t), llm)

	cues, err := svc.SuggestCues(context.Background(), &types.Card{ID: uuid.New(), Title: "Squats"})
	if err != nil {
		t.Fatalf("SuggestCues failed: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected the blank cue dropped, got %d cues", len(cues))
	}
	for i, cue := range cues {
		if cue.Position != i {
			t.Fatalf("cue %q has position %d, want %d", cue.Label, cue.Position, i)
		}
	}
}

func TestSuggestCues_CoreFallbackDeterministic(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("service down")}
	svc := NewCueService(testLogger(t), llm)
	card := &types.Card{ID: uuid.New(), Title: "Core Crusher"}

	first, err := svc.SuggestCues(context.Background(), card)
	if err != nil {
		t.Fatalf("SuggestCues failed: %v", err)
	}
	second, err := svc.SuggestCues(context.Background(), card)
	if err != nil {
		t.Fatalf("SuggestCues failed: %v", err)
	}
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("core fallback must be a triplet, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Label != second[i].Label || first[i].Type != second[i].Type {
			t.Fatalf("fallback not deterministic at %d: %q vs %q", i, first[i].Label, second[i].Label)
		}
		if first[i].ID == second[i].ID {
			t.Fatalf("fallback cue ids must be fresh per call")
		}
	}
	if first[0].Label != "Brace your core" {
		t.Fatalf("expected the core triplet, got %v", cueLabels(first))
	}
}

func TestSuggestCues_KeywordRules(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("service down")}
	svc := NewCueService(testLogger(t), llm)

	warm, err := svc.SuggestCues(context.Background(), &types.Card{ID: uuid.New(), Title: "Warm-Up Jog"})
	if err != nil {
		t.Fatalf("SuggestCues failed: %v", err)
	}
	if warm[0].Label != "Start slow and controlled" {
		t.Fatalf("expected the warm-up triplet, got %v", cueLabels(warm))
	}

	generic, err := svc.SuggestCues(context.Background(), &types.Card{ID: uuid.New(), Title: "Deadlift"})
	if err != nil {
		t.Fatalf("SuggestCues failed: %v", err)
	}
	if generic[0].Label != "Maintain good form throughout" {
		t.Fatalf("expected the generic triplet, got %v", cueLabels(generic))
	}
}

func TestSuggestCues_RequiresTitle(t *testing.T) {
	svc := NewCueService(testLogger(t), &fakeLLM{})
	if _, err := svc.SuggestCues(context.Background(), &types.Card{ID: uuid.New()}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestMergeCues_DeduplicatesByExactLabel(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("service down")}
	svc := NewCueService(testLogger(t), llm)
	card := &types.Card{
		ID:    uuid.New(),
		Title: "Core Crusher",
		Cues: []*types.Cue{
			{ID: uuid.New(), Label: "Brace your core", Type: types.CueTypeForm},
		},
	}

	suggestions, err := svc.SuggestCues(context.Background(), card)
	if err != nil {
		t.Fatalf("SuggestCues failed: %v", err)
	}
	added := svc.MergeCues(card, suggestions)
	if added != 2 {
		t.Fatalf("expected 2 of the triplet added, got %d", added)
	}
	if len(card.Cues) != 3 {
		t.Fatalf("expected 3 cues on the card, got %d", len(card.Cues))
	}
	for i, cue := range card.Cues {
		if cue.Position != i {
			t.Fatalf("cue %d has position %d", i, cue.Position)
		}
	}
}

func TestMergeCues_CaseSensitive(t *testing.T) {
	svc := NewCueService(testLogger(t), &fakeLLM{})
	card := &types.Card{
		ID:    uuid.New(),
		Title: "Anything",
		Cues:  []*types.Cue{{ID: uuid.New(), Label: "breathe deeply"}},
	}
	added := svc.MergeCues(card, []*types.Cue{{ID: uuid.New(), Label: "Breathe deeply", Type: types.CueTypeBreathing}})
	if added != 1 {
		t.Fatalf("labels differing in case are distinct, expected 1 added, got %d", added)
	}
}
