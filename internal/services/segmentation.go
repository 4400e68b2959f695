package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/solstice-backend/internal/classify"
	redisclient "github.com/yungbote/solstice-backend/internal/clients/redis"
	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/types"
)

// SegmentationService turns a source URL into an ordered, non-empty card
// sequence. Service failures never surface: any failed or empty primary call
// degrades to a single fallback card shaped from the URL's platform.
type SegmentationService interface {
	Segment(ctx context.Context, rawURL string) ([]*types.Card, error)
}

type segmentationService struct {
	log   *logger.Logger
	llm   LLMClient
	cache redisclient.ParseCache
}

// NewSegmentationService wires the segmentation pipeline. cache may be nil.
func NewSegmentationService(baseLog *logger.Logger, llm LLMClient, cache redisclient.ParseCache) SegmentationService {
	return &segmentationService{
		log:   baseLog.With("service", "SegmentationService"),
		llm:   llm,
		cache: cache,
	}
}

// segmentPayload is the wire shape of one proposed segment from the model.
type segmentPayload struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	SourceType  string       `json:"source_type,omitempty"`
	SourceURL   string       `json:"source_url,omitempty"`
	StartTime   *int         `json:"startTime,omitempty"`
	EndTime     *int         `json:"endTime,omitempty"`
	Duration    int          `json:"duration,omitempty"`
	Sets        *int         `json:"sets,omitempty"`
	Reps        *int         `json:"reps,omitempty"`
	Cues        []cuePayload `json:"cues,omitempty"`
}

type parsePayload struct {
	Cards []segmentPayload `json:"cards"`
}

func (s *segmentationService) Segment(ctx context.Context, rawURL string) ([]*types.Card, error) {
	sourceType, err := classify.Classify(rawURL)
	if err != nil {
		// Unparseable input is the one real error here; there is no fallback
		// for a URL we cannot even shape a fallback card from.
		return nil, err
	}

	segments, ok := s.cachedSegments(ctx, rawURL)
	if !ok {
		segments = s.requestSegments(ctx, rawURL, sourceType)
	}

	valid := make([]segmentPayload, 0, len(segments))
	for i, seg := range segments {
		if reason := validateSegment(seg); reason != "" {
			s.log.Debug("dropping invalid segment", "url", rawURL, "index", i, "reason", reason)
			continue
		}
		valid = append(valid, seg)
	}

	if len(valid) == 0 {
		card, fallbackErr := s.fallbackCard(rawURL, sourceType)
		if fallbackErr != nil {
			return nil, fallbackErr
		}
		return []*types.Card{card}, nil
	}

	if !ok && len(valid) > 0 {
		if raw, marshalErr := json.Marshal(valid); marshalErr == nil && s.cache != nil {
			s.cache.Set(ctx, rawURL, raw)
		}
	}

	now := time.Now()
	cards := make([]*types.Card, 0, len(valid))
	for i, seg := range valid {
		cards = append(cards, s.cardFromSegment(seg, rawURL, sourceType, i, now))
	}
	return cards, nil
}

func (s *segmentationService) cachedSegments(ctx context.Context, rawURL string) ([]segmentPayload, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, hit := s.cache.Get(ctx, rawURL)
	if !hit {
		return nil, false
	}
	var segments []segmentPayload
	if err := json.Unmarshal(raw, &segments); err != nil || len(segments) == 0 {
		return nil, false
	}
	s.log.Debug("parse cache hit", "url", rawURL, "segments", len(segments))
	return segments, true
}

// requestSegments calls the model once. Every failure mode returns an empty
// slice, which the caller turns into the fallback card.
func (s *segmentationService) requestSegments(ctx context.Context, rawURL string, sourceType types.SourceType) []segmentPayload {
	content, err := s.llm.Complete(ctx, segmentationPrompt(rawURL, sourceType))
	if err != nil {
		s.log.Warn("segmentation request failed, falling back", "url", rawURL, "error", err)
		return nil
	}
	raw, err := extractJSON(content)
	if err != nil {
		s.log.Warn("segmentation response was not JSON, falling back", "url", rawURL, "error", err)
		return nil
	}
	var payload parsePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.log.Warn("segmentation response did not decode, falling back", "url", rawURL, "error", err)
		return nil
	}
	return payload.Cards
}

func validateSegment(seg segmentPayload) string {
	if strings.TrimSpace(seg.Title) == "" {
		return "empty title"
	}
	if seg.StartTime != nil && *seg.StartTime < 0 {
		return "negative start time"
	}
	if seg.EndTime != nil && *seg.EndTime < 0 {
		return "negative end time"
	}
	if seg.StartTime != nil && seg.EndTime != nil && *seg.EndTime <= *seg.StartTime {
		return "end time not after start time"
	}
	if seg.Sets != nil && *seg.Sets <= 0 {
		return "non-positive sets"
	}
	if seg.Reps != nil && *seg.Reps <= 0 {
		return "non-positive reps"
	}
	return ""
}

func (s *segmentationService) cardFromSegment(seg segmentPayload, rawURL string, defaultType types.SourceType, position int, now time.Time) *types.Card {
	sourceType := defaultType
	if seg.SourceType != "" {
		sourceType = types.SourceType(seg.SourceType)
	}
	mediaRef := seg.SourceURL
	if mediaRef == "" && (seg.StartTime != nil || seg.EndTime != nil || sourceType.HasPlayableMedia()) {
		mediaRef = rawURL
	}
	duration := seg.Duration
	if seg.StartTime != nil && seg.EndTime != nil {
		duration = *seg.EndTime - *seg.StartTime
	}
	card := &types.Card{
		ID:             uuid.New(),
		Position:       position,
		Title:          strings.TrimSpace(seg.Title),
		Description:    strings.TrimSpace(seg.Description),
		SourceType:     sourceType,
		MediaReference: mediaRef,
		StartOffset:    seg.StartTime,
		EndOffset:      seg.EndTime,
		Duration:       duration,
		Sets:           seg.Sets,
		Reps:           seg.Reps,
		CreatedBy:      "agent",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, cue := range seg.Cues {
		label := strings.TrimSpace(cue.Label)
		if label == "" {
			continue
		}
		cueType := types.CueType(cue.Type)
		if !cueType.Valid() {
			cueType = types.CueTypeGeneral
		}
		card.Cues = append(card.Cues, &types.Cue{
			ID:        uuid.New(),
			CardID:    card.ID,
			Position:  len(card.Cues),
			Label:     label,
			Type:      cueType,
			CreatedAt: now,
		})
	}
	return card
}

// fallbackCard is the guaranteed single-card result for any parseable URL.
func (s *segmentationService) fallbackCard(rawURL string, sourceType types.SourceType) (*types.Card, error) {
	host, err := classify.Hostname(rawURL)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	card := &types.Card{
		ID:          uuid.New(),
		Title:       fmt.Sprintf("Content from %s", host),
		Description: rawURL,
		SourceType:  sourceType,
		CreatedBy:   "agent",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if sourceType.HasPlayableMedia() {
		card.MediaReference = rawURL
	}
	return card, nil
}

func segmentationPrompt(rawURL string, sourceType types.SourceType) string {
	return fmt.Sprintf(`You are an assistant for a wellness app. Parse the following %s URL into a structured routine.

URL: %s

Break the content into logical segments (cards) that represent distinct exercises or movements.
For each segment identify a clear title, approximate start and end times in seconds, a brief
description, and sets/reps when applicable.

Return only valid JSON of the form:
{"cards": [{"title": "Exercise Name", "description": "Brief description", "source_url": "%s", "source_type": "%s", "startTime": 30, "endTime": 60, "duration": 30, "sets": 3, "reps": 10}]}`,
		sourceType, rawURL, rawURL, sourceType)
}
