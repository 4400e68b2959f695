package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/solstice-backend/internal/logger"
	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/repos"
	"github.com/yungbote/solstice-backend/internal/requestdata"
	"github.com/yungbote/solstice-backend/internal/routine"
	"github.com/yungbote/solstice-backend/internal/types"
)

// RoutineService orchestrates persistence for routines. All in-memory edits
// happen through the assembler; nothing here saves implicitly.
type RoutineService interface {
	Save(ctx context.Context, tx *gorm.DB, r *types.Routine) (*types.Routine, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Routine, error)
	ListMine(ctx context.Context, tx *gorm.DB) ([]*types.Routine, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Reorder(ctx context.Context, tx *gorm.DB, id uuid.UUID, orderedIDs []uuid.UUID) (*types.Routine, error)
	GenerateFromPrompt(ctx context.Context, prompt string) (*types.Routine, error)
	GenerateFromCollection(ctx context.Context, tx *gorm.DB, keyword string, maxCards int) (*types.Routine, error)
}

type routineService struct {
	db              *gorm.DB
	log             *logger.Logger
	routineRepo     repos.RoutineRepo
	contentItemRepo repos.ContentItemRepo
}

func NewRoutineService(
	db *gorm.DB,
	baseLog *logger.Logger,
	routineRepo repos.RoutineRepo,
	contentItemRepo repos.ContentItemRepo,
) RoutineService {
	return &routineService{
		db:              db,
		log:             baseLog.With("service", "RoutineService"),
		routineRepo:     routineRepo,
		contentItemRepo: contentItemRepo,
	}
}

func (rs *routineService) Save(ctx context.Context, tx *gorm.DB, r *types.Routine) (*types.Routine, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	transaction := tx
	if transaction == nil {
		transaction = rs.db
	}

	r.UserID = userID
	r.TotalDuration = types.TotalDurationOf(r.Cards)

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
		for i, card := range r.Cards {
			card.RoutineID = r.ID
			card.Position = i
		}
		created, err := rs.routineRepo.Create(ctx, transaction, []*types.Routine{r})
		if err != nil {
			rs.log.Error("Save(create) failed", "error", err)
			return nil, fmt.Errorf("create routine: %w", err)
		}
		return created[0], nil
	}

	existing, err := rs.ownedRoutine(ctx, transaction, r.ID, userID)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = existing.CreatedAt
	updated, err := rs.routineRepo.Update(ctx, transaction, r)
	if err != nil {
		rs.log.Error("Save(update) failed", "error", err, "routine_id", r.ID)
		return nil, fmt.Errorf("update routine: %w", err)
	}
	return updated, nil
}

func (rs *routineService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Routine, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	transaction := tx
	if transaction == nil {
		transaction = rs.db
	}
	found, err := rs.routineRepo.GetByIDs(ctx, transaction, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%w: routine %s", apperrors.ErrNotFound, id)
	}
	r := found[0]
	if r.UserID != userID && !r.IsPublic {
		return nil, fmt.Errorf("%w: routine %s", apperrors.ErrNotFound, id)
	}
	return r, nil
}

func (rs *routineService) ListMine(ctx context.Context, tx *gorm.DB) ([]*types.Routine, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	transaction := tx
	if transaction == nil {
		transaction = rs.db
	}
	return rs.routineRepo.GetByUserIDs(ctx, transaction, []uuid.UUID{userID})
}

func (rs *routineService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	transaction := tx
	if transaction == nil {
		transaction = rs.db
	}
	if _, err := rs.ownedRoutine(ctx, transaction, id, userID); err != nil {
		return err
	}
	return rs.routineRepo.Delete(ctx, transaction, id)
}

// Reorder applies a wholesale card reorder through the assembler, so the
// permutation rules live in exactly one place, then persists the new order.
func (rs *routineService) Reorder(ctx context.Context, tx *gorm.DB, id uuid.UUID, orderedIDs []uuid.UUID) (*types.Routine, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	transaction := tx
	if transaction == nil {
		transaction = rs.db
	}
	r, err := rs.ownedRoutine(ctx, transaction, id, userID)
	if err != nil {
		return nil, err
	}
	assembler, err := routine.NewAssembler(r)
	if err != nil {
		return nil, err
	}
	if err := assembler.ReorderAll(orderedIDs); err != nil {
		return nil, err
	}
	if err := rs.routineRepo.UpdateCardOrder(ctx, transaction, id, orderedIDs); err != nil {
		rs.log.Error("Reorder persist failed", "error", err, "routine_id", id)
		return nil, fmt.Errorf("persist card order: %w", err)
	}
	return assembler.Routine(), nil
}

func (rs *routineService) GenerateFromPrompt(ctx context.Context, prompt string) (*types.Routine, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	r, err := routine.GenerateFromPrompt(prompt)
	if err != nil {
		return nil, err
	}
	r.UserID = userID
	return r, nil
}

func (rs *routineService) GenerateFromCollection(ctx context.Context, tx *gorm.DB, keyword string, maxCards int) (*types.Routine, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	transaction := tx
	if transaction == nil {
		transaction = rs.db
	}
	collection, err := rs.contentItemRepo.GetByUserIDs(ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load content collection: %w", err)
	}
	r, err := routine.GenerateFromCollection(keyword, collection, maxCards)
	if err != nil {
		return nil, err
	}
	r.UserID = userID
	return r, nil
}

func (rs *routineService) ownedRoutine(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Routine, error) {
	found, err := rs.routineRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 || found[0] == nil || found[0].UserID != userID {
		return nil, fmt.Errorf("%w: routine %s", apperrors.ErrNotFound, id)
	}
	return found[0], nil
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: no user in request context", apperrors.ErrUnauthorized)
	}
	return rd.UserID, nil
}
