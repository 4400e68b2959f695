package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/solstice-backend/internal/classify"
	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/types"
)

// feedItem is one entry in a platform export feed.
type feedItem struct {
	ExternalID  string         `json:"external_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	SourceURL   string         `json:"source_url"`
	Duration    int            `json:"duration"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
}

type feedSyncer struct {
	platform   string
	feedURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewFeedSyncer builds a Syncer that pulls a platform's content from a JSON
// export feed. The feed is a flat array of items; entries without a title are
// skipped.
func NewFeedSyncer(baseLog *logger.Logger, platform, feedURL string) Syncer {
	return &feedSyncer{
		platform:   platform,
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        baseLog.With("syncer", platform),
	}
}

func (fs *feedSyncer) Sync(ctx context.Context, userID uuid.UUID) ([]*types.ContentItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fs.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := fs.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var entries []feedItem
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	items := make([]*types.ContentItem, 0, len(entries))
	for _, entry := range entries {
		if entry.Title == "" {
			fs.log.Debug("skipping untitled feed entry", "external_id", entry.ExternalID)
			continue
		}
		items = append(items, fs.contentItem(entry))
	}
	return items, nil
}

func (fs *feedSyncer) contentItem(entry feedItem) *types.ContentItem {
	sourceType := types.SourceTypeGenericWeb
	if entry.SourceURL != "" {
		if st, err := classify.Classify(entry.SourceURL); err == nil {
			sourceType = st
		}
	}
	item := &types.ContentItem{
		ExternalID:     entry.ExternalID,
		SourceType:     sourceType,
		Title:          entry.Title,
		Description:    entry.Description,
		MediaReference: entry.SourceURL,
		Duration:       entry.Duration,
	}
	if len(entry.Tags) > 0 {
		if raw, err := json.Marshal(entry.Tags); err == nil {
			item.TagNames = datatypes.JSON(raw)
		}
	}
	if len(entry.Metadata) > 0 {
		if raw, err := json.Marshal(entry.Metadata); err == nil {
			item.Metadata = datatypes.JSON(raw)
		}
	}
	return item
}
