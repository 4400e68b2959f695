package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/solstice-backend/internal/logger"
	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

type RoutineRepo interface {
	Create(ctx context.Context, tx *gorm.DB, routines []*types.Routine) ([]*types.Routine, error)
	Update(ctx context.Context, tx *gorm.DB, routine *types.Routine) (*types.Routine, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Routine, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Routine, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	UpdateCardOrder(ctx context.Context, tx *gorm.DB, routineID uuid.UUID, orderedIDs []uuid.UUID) error
}

type routineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoutineRepo(db *gorm.DB, baseLog *logger.Logger) RoutineRepo {
	return &routineRepo{db: db, log: baseLog.With("repo", "RoutineRepo")}
}

func (rr *routineRepo) Create(ctx context.Context, tx *gorm.DB, routines []*types.Routine) ([]*types.Routine, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(routines) == 0 {
		return []*types.Routine{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&routines).Error; err != nil {
		return nil, err
	}
	return routines, nil
}

// Update persists a routine wholesale: the stored card set is replaced by the
// routine's current cards with their positions rewritten.
func (rr *routineRepo) Update(ctx context.Context, tx *gorm.DB, routine *types.Routine) (*types.Routine, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if routine == nil {
		return nil, fmt.Errorf("%w: nil routine", apperrors.ErrInvalidArgument)
	}
	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Where("routine_id = ?", routine.ID).Delete(&types.Card{}).Error; err != nil {
			return err
		}
		for i, card := range routine.Cards {
			card.RoutineID = routine.ID
			card.Position = i
		}
		return inner.Session(&gorm.Session{FullSaveAssociations: true}).Save(routine).Error
	})
	if err != nil {
		return nil, err
	}
	return routine, nil
}

func (rr *routineRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Routine, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Routine
	if len(ids) == 0 {
		return results, nil
	}
	if err := rr.preloadCards(transaction.WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *routineRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Routine, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Routine
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := rr.preloadCards(transaction.WithContext(ctx)).
		Where("user_id IN ?", userIDs).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Delete removes the routine and cascades to its cards and their cues.
func (rr *routineRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var cardIDs []uuid.UUID
		if err := inner.Model(&types.Card{}).Where("routine_id = ?", id).Pluck("id", &cardIDs).Error; err != nil {
			return err
		}
		if len(cardIDs) > 0 {
			if err := inner.Where("card_id IN ?", cardIDs).Delete(&types.Cue{}).Error; err != nil {
				return err
			}
			if err := inner.Where("routine_id = ?", id).Delete(&types.Card{}).Error; err != nil {
				return err
			}
		}
		res := inner.Where("id = ?", id).Delete(&types.Routine{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: routine %s", apperrors.ErrNotFound, id)
		}
		return nil
	})
}

// UpdateCardOrder rewrites card positions to match orderedIDs. Permutation
// validation happens in the service layer before this is called.
func (rr *routineRepo) UpdateCardOrder(ctx context.Context, tx *gorm.DB, routineID uuid.UUID, orderedIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		for i, cardID := range orderedIDs {
			res := inner.Model(&types.Card{}).
				Where("id = ? AND routine_id = ?", cardID, routineID).
				Update("position", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: card %s in routine %s", apperrors.ErrNotFound, cardID, routineID)
			}
		}
		return inner.Model(&types.Routine{}).
			Where("id = ?", routineID).
			Update("updated_at", gorm.Expr("now()")).Error
	})
}

func (rr *routineRepo) preloadCards(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Cards.Cues", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Cards.Tags").
		Preload("Tags")
}
