package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/types"
)

type ContentItemRepo interface {
	CreateMany(ctx context.Context, tx *gorm.DB, items []*types.ContentItem) ([]*types.ContentItem, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ContentItem, error)
}

type contentItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentItemRepo(db *gorm.DB, baseLog *logger.Logger) ContentItemRepo {
	return &contentItemRepo{db: db, log: baseLog.With("repo", "ContentItemRepo")}
}

func (cr *contentItemRepo) CreateMany(ctx context.Context, tx *gorm.DB, items []*types.ContentItem) ([]*types.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(items) == 0 {
		return []*types.ContentItem{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (cr *contentItemRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.ContentItem
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("synced_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
