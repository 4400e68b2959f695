package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/solstice-backend/internal/logger"
	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/repos"
	"github.com/yungbote/solstice-backend/internal/types"
)

// Syncer pulls a user's content from one connected platform. Implementations
// live behind platform OAuth flows outside this module; they are registered
// per platform at wiring time.
type Syncer interface {
	Sync(ctx context.Context, userID uuid.UUID) ([]*types.ContentItem, error)
}

// ConnectionService syncs external platform content into a user's collection
// and exposes the collection that feeds collection-based generation.
type ConnectionService interface {
	Sync(ctx context.Context, tx *gorm.DB, platform string) ([]*types.ContentItem, error)
	ListCollection(ctx context.Context, tx *gorm.DB) ([]*types.ContentItem, error)
}

type connectionService struct {
	db              *gorm.DB
	log             *logger.Logger
	contentItemRepo repos.ContentItemRepo
	syncers         map[string]Syncer
}

func NewConnectionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	contentItemRepo repos.ContentItemRepo,
	syncers map[string]Syncer,
) ConnectionService {
	return &connectionService{
		db:              db,
		log:             baseLog.With("service", "ConnectionService"),
		contentItemRepo: contentItemRepo,
		syncers:         syncers,
	}
}

func (cs *connectionService) Sync(ctx context.Context, tx *gorm.DB, platform string) ([]*types.ContentItem, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	syncer, ok := cs.syncers[platform]
	if !ok {
		return nil, fmt.Errorf("%w: no connection for platform %q", apperrors.ErrNotFound, platform)
	}
	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}

	items, err := syncer.Sync(ctx, userID)
	if err != nil {
		cs.log.Error("platform sync failed", "platform", platform, "error", err)
		return nil, fmt.Errorf("sync %s: %w", platform, err)
	}
	now := time.Now()
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.UserID = userID
		if item.SyncedAt.IsZero() {
			item.SyncedAt = now
		}
	}
	if _, err := cs.contentItemRepo.CreateMany(ctx, transaction, items); err != nil {
		cs.log.Error("persisting synced items failed", "platform", platform, "error", err)
		return nil, fmt.Errorf("persist synced items: %w", err)
	}
	cs.log.Info("platform sync complete", "platform", platform, "items", len(items))
	return items, nil
}

func (cs *connectionService) ListCollection(ctx context.Context, tx *gorm.DB) ([]*types.ContentItem, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}
	return cs.contentItemRepo.GetByUserIDs(ctx, transaction, []uuid.UUID{userID})
}
