package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/repos"
	"github.com/yungbote/solstice-backend/internal/types"
)

// RoutineRecommendation is a lightweight suggestion, not a persisted routine.
type RoutineRecommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// RecommendationService produces routine suggestions for a user's interests.
// LLM failures degrade to suggestions drawn from the user's own saved
// routines that match the requested tags.
type RecommendationService interface {
	Recommend(ctx context.Context, tx *gorm.DB, tags []string) ([]RoutineRecommendation, error)
}

type recommendationService struct {
	db          *gorm.DB
	log         *logger.Logger
	llm         LLMClient
	routineRepo repos.RoutineRepo
}

func NewRecommendationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	llm LLMClient,
	routineRepo repos.RoutineRepo,
) RecommendationService {
	return &recommendationService{
		db:          db,
		log:         baseLog.With("service", "RecommendationService"),
		llm:         llm,
		routineRepo: routineRepo,
	}
}

type recommendPayload struct {
	Routines []RoutineRecommendation `json:"routines"`
}

func (s *recommendationService) Recommend(ctx context.Context, tx *gorm.DB, tags []string) ([]RoutineRecommendation, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	if recs := s.requestRecommendations(ctx, tags); len(recs) > 0 {
		return recs, nil
	}

	transaction := tx
	if transaction == nil {
		transaction = s.db
	}
	return s.fallbackRecommendations(ctx, transaction, userID, tags)
}

func (s *recommendationService) requestRecommendations(ctx context.Context, tags []string) []RoutineRecommendation {
	content, err := s.llm.Complete(ctx, recommendPrompt(tags))
	if err != nil {
		s.log.Warn("recommendation request failed, falling back", "error", err)
		return nil
	}
	raw, err := extractJSON(content)
	if err != nil {
		s.log.Warn("recommendation response was not JSON, falling back", "error", err)
		return nil
	}
	var payload recommendPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.log.Warn("recommendation response did not decode, falling back", "error", err)
		return nil
	}
	recs := make([]RoutineRecommendation, 0, len(payload.Routines))
	for i, rec := range payload.Routines {
		if strings.TrimSpace(rec.Title) == "" {
			continue
		}
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("rec-%d", i+1)
		}
		recs = append(recs, rec)
	}
	return recs
}

// fallbackRecommendations surfaces the user's own routines whose tags match,
// most recently updated first (the repo already orders that way).
func (s *recommendationService) fallbackRecommendations(ctx context.Context, tx *gorm.DB, userID uuid.UUID, tags []string) ([]RoutineRecommendation, error) {
	routines, err := s.routineRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load routines for fallback: %w", err)
	}
	recs := make([]RoutineRecommendation, 0, 5)
	for _, r := range routines {
		if !routineMatchesTags(r, tags) {
			continue
		}
		recs = append(recs, RoutineRecommendation{
			ID:          r.ID.String(),
			Title:       r.Title,
			Description: r.Description,
			Tags:        tagNames(r.Tags),
		})
		if len(recs) == 5 {
			break
		}
	}
	return recs, nil
}

func routineMatchesTags(r *types.Routine, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		needle := strings.ToLower(strings.TrimSpace(want))
		if needle == "" {
			continue
		}
		for _, tag := range r.Tags {
			if strings.Contains(strings.ToLower(tag.Name), needle) {
				return true
			}
		}
		if strings.Contains(strings.ToLower(r.Title), needle) {
			return true
		}
	}
	return false
}

func tagNames(tags []*types.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

func recommendPrompt(tags []string) string {
	interests := "Not specified"
	if len(tags) > 0 {
		interests = strings.Join(tags, ", ")
	}
	return fmt.Sprintf(`You are an assistant for a wellness app. Generate personalized routine recommendations for a user with these interests: %s

Generate 3-5 recommendations.

Return only valid JSON of the form:
{"routines": [{"id": "r-1", "title": "Morning Mobility Flow", "description": "A gentle routine to wake up your body", "tags": ["mobility", "morning"]}]}`, interests)
}
