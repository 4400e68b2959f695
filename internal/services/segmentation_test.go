package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yungbote/solstice-backend/internal/logger"
	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

type fakeLLM struct {
	content string
	err     error
	calls   int
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

type fakeCache struct {
	store map[string][]byte
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (c *fakeCache) Get(ctx context.Context, url string) ([]byte, bool) {
	raw, ok := c.store[url]
	return raw, ok
}

func (c *fakeCache) Set(ctx context.Context, url string, payload []byte) {
	c.sets++
	c.store[url] = payload
}

func (c *fakeCache) Close() error { return nil }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New failed: %v", err)
	}
	return log
}

func TestSegment_DropsInvalidSegmentsKeepsOrder(t *testing.T) {
	llm := &fakeLLM{content: `{"cards": [
		{"title": "Warm-Up", "startTime": 0, "endTime": 60},
		{"title": "Bad Segment", "startTime": 90, "endTime": 90},
		{"title": "Cool Down", "startTime": 120, "endTime": 180}
	]}`}
	svc := NewSegmentationService(testLogger(t), llm, nil)

	cards, err := svc.Segment(context.Background(), "https://youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards after dropping the zero-length segment, got %d", len(cards))
	}
	if cards[0].Title != "Warm-Up" || cards[1].Title != "Cool Down" {
		t.Fatalf("service order not preserved: %q, %q", cards[0].Title, cards[1].Title)
	}
	for _, card := range cards {
		if card.CreatedBy != "agent" {
			t.Fatalf("card CreatedBy = %q, want agent", card.CreatedBy)
		}
		if err := card.Validate(); err != nil {
			t.Fatalf("returned card invalid: %v", err)
		}
	}
	if cards[1].Duration != 60 {
		t.Fatalf("duration should derive from offsets, got %d", cards[1].Duration)
	}
}

func TestSegment_FallbackOnServiceError(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("connection refused")}
	svc := NewSegmentationService(testLogger(t), llm, nil)

	cards, err := svc.Segment(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("service failure must not surface, got %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("fallback should produce exactly one card, got %d", len(cards))
	}
	card := cards[0]
	if card.SourceType != types.SourceTypeVideoHosting {
		t.Fatalf("fallback source type = %q, want video-hosting", card.SourceType)
	}
	if card.Title != "Content from www.youtube.com" {
		t.Fatalf("fallback title = %q", card.Title)
	}
	if card.MediaReference != "https://www.youtube.com/watch?v=abc" {
		t.Fatalf("playable platforms should keep the URL as media reference, got %q", card.MediaReference)
	}
	if len(card.Cues) != 0 || card.Sets != nil || card.Reps != nil {
		t.Fatalf("fallback card must carry no cues and no sets/reps")
	}
}

func TestSegment_FallbackOnEmptyResult(t *testing.T) {
	llm := &fakeLLM{content: `{"cards": []}`}
	svc := NewSegmentationService(testLogger(t), llm, nil)

	cards, err := svc.Segment(context.Background(), "https://example.com/post")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected the single fallback card, got %d", len(cards))
	}
	if cards[0].SourceType != types.SourceTypeGenericWeb {
		t.Fatalf("source type = %q, want generic-web", cards[0].SourceType)
	}
	if cards[0].MediaReference != "" {
		t.Fatalf("non-playable platforms must not get a media reference")
	}
}

func TestSegment_ArticleSegmentsWithoutOffsetsGetNoMediaReference(t *testing.T) {
	llm := &fakeLLM{content: `{"cards": [
		{"title": "Warm-Up Overview"},
		{"title": "Main Set", "startTime": 0, "endTime": 120}
	]}`}
	svc := NewSegmentationService(testLogger(t), llm, nil)

	cards, err := svc.Segment(context.Background(), "https://medium.com/@coach/mobility-guide")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].MediaReference != "" {
		t.Fatalf("offset-free article segment must not get a media reference, got %q", cards[0].MediaReference)
	}
	if cards[1].MediaReference != "https://medium.com/@coach/mobility-guide" {
		t.Fatalf("segment with offsets should default to the source URL, got %q", cards[1].MediaReference)
	}
}

func TestSegment_FallbackWhenAllSegmentsInvalid(t *testing.T) {
	llm := &fakeLLM{content: `{"cards": [{"title": "", "startTime": 0, "endTime": 30}, {"title": "Zero", "startTime": 10, "endTime": 10}]}`}
	svc := NewSegmentationService(testLogger(t), llm, nil)

	cards, err := svc.Segment(context.Background(), "https://vimeo.com/123")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected fallback when every segment is dropped, got %d cards", len(cards))
	}
}

func TestSegment_FencedJSONResponse(t *testing.T) {
	llm := &fakeLLM{content: "Here you go:\n```json\n{\"cards\": [{\"title\": \"Squats\", \"sets\": 3, \"reps\": 10}]}\n```\nEnjoy!"}
	svc := NewSegmentationService(testLogger(t), llm, nil)

	cards, err := svc.Segment(context.Background(), "https://www.tiktok.com/@coach/video/1")
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(cards) != 1 || cards[0].Title != "Squats" {
		t.Fatalf("fenced JSON should parse, got %+v", cards)
	}
	if cards[0].Sets == nil || *cards[0].Sets != 3 {
		t.Fatalf("sets not mapped")
	}
}

func TestSegment_UnparseableURL(t *testing.T) {
	llm := &fakeLLM{content: `{"cards": []}`}
	svc := NewSegmentationService(testLogger(t), llm, nil)

	if _, err := svc.Segment(context.Background(), "   "); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if llm.calls != 0 {
		t.Fatalf("invalid input must not reach the model")
	}
}

func TestSegment_CacheHitSkipsModelAndAssignsFreshIDs(t *testing.T) {
	llm := &fakeLLM{content: `{"cards": [{"title": "Lunges", "startTime": 0, "endTime": 45}]}`}
	cache := newFakeCache()
	svc := NewSegmentationService(testLogger(t), llm, cache)

	url := "https://youtube.com/watch?v=cached"
	first, err := svc.Segment(context.Background(), url)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected the validated payload to be cached")
	}

	second, err := svc.Segment(context.Background(), url)
	if err != nil {
		t.Fatalf("Segment failed on cache hit: %v", err)
	}
	if llm.calls != 1 {
		t.Fatalf("cache hit should not call the model again, calls=%d", llm.calls)
	}
	if second[0].Title != first[0].Title {
		t.Fatalf("cached content should match")
	}
	if second[0].ID == first[0].ID {
		t.Fatalf("card ids must be fresh per call, even from cache")
	}
}

func TestSegment_NeverEmpty(t *testing.T) {
	urls := []string{
		"https://youtube.com/watch?v=abc",
		"https://instagram.com/p/xyz",
		"https://example.org/whatever",
	}
	for _, llm := range []*fakeLLM{
		{err: fmt.Errorf("timeout")},
		{content: "not json at all"},
		{content: `{"cards": []}`},
	} {
		svc := NewSegmentationService(testLogger(t), llm, nil)
		for _, url := range urls {
			cards, err := svc.Segment(context.Background(), url)
			if err != nil {
				t.Fatalf("Segment(%q) failed: %v", url, err)
			}
			if len(cards) < 1 {
				t.Fatalf("Segment(%q) returned an empty result", url)
			}
		}
	}
}
