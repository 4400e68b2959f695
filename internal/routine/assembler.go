package routine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/solstice-backend/internal/pkg/errors"
	"github.com/yungbote/solstice-backend/internal/types"
)

// Assembler edits the ordered card sequence of one in-memory routine. It never
// persists; saving is a separate, explicit call on the routine service.
type Assembler struct {
	routine *types.Routine
}

func NewAssembler(r *types.Routine) (*Assembler, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil routine", apperrors.ErrInvalidArgument)
	}
	a := &Assembler{routine: r}
	a.recompute()
	return a, nil
}

func (a *Assembler) Routine() *types.Routine { return a.routine }

// Append adds a card at the end. Cards with identical content but distinct ids
// are allowed; a second card with the same id is not.
func (a *Assembler) Append(card *types.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}
	for _, existing := range a.routine.Cards {
		if existing.ID == card.ID {
			return fmt.Errorf("%w: card %s already present", apperrors.ErrInvalidArgument, card.ID)
		}
	}
	a.routine.Cards = append(a.routine.Cards, card)
	a.recompute()
	return nil
}

// Remove drops the card with the given id. Removing an absent id is a no-op.
func (a *Assembler) Remove(cardID uuid.UUID) {
	for i, card := range a.routine.Cards {
		if card.ID == cardID {
			a.routine.Cards = append(a.routine.Cards[:i], a.routine.Cards[i+1:]...)
			a.recompute()
			return
		}
	}
}

// MoveTo relocates a card to newIndex, shifting the others. newIndex is
// clamped to the valid range.
func (a *Assembler) MoveTo(cardID uuid.UUID, newIndex int) error {
	from := -1
	for i, card := range a.routine.Cards {
		if card.ID == cardID {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("%w: card %s", apperrors.ErrNotFound, cardID)
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if max := len(a.routine.Cards) - 1; newIndex > max {
		newIndex = max
	}
	if newIndex == from {
		return nil
	}
	card := a.routine.Cards[from]
	rest := append(a.routine.Cards[:from:from], a.routine.Cards[from+1:]...)
	cards := make([]*types.Card, 0, len(rest)+1)
	cards = append(cards, rest[:newIndex]...)
	cards = append(cards, card)
	cards = append(cards, rest[newIndex:]...)
	a.routine.Cards = cards
	a.recompute()
	return nil
}

// ReorderAll replaces the card order wholesale. The supplied ids must be an
// exact permutation of the current ids; otherwise the order is left untouched.
func (a *Assembler) ReorderAll(newOrder []uuid.UUID) error {
	if len(newOrder) != len(a.routine.Cards) {
		return fmt.Errorf("%w: got %d ids, routine has %d cards", apperrors.ErrInvalidPermutation, len(newOrder), len(a.routine.Cards))
	}
	byID := make(map[uuid.UUID]*types.Card, len(a.routine.Cards))
	for _, card := range a.routine.Cards {
		byID[card.ID] = card
	}
	reordered := make([]*types.Card, 0, len(newOrder))
	for _, id := range newOrder {
		card, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: id %s is not in the routine or appears twice", apperrors.ErrInvalidPermutation, id)
		}
		delete(byID, id)
		reordered = append(reordered, card)
	}
	a.routine.Cards = reordered
	a.recompute()
	return nil
}

// RecomputeTotalDuration re-derives the aggregate duration. It runs after
// every mutation already; calling it again is idempotent.
func (a *Assembler) RecomputeTotalDuration() int {
	total := types.TotalDurationOf(a.routine.Cards)
	a.routine.TotalDuration = total
	return total
}

func (a *Assembler) recompute() {
	for i, card := range a.routine.Cards {
		card.Position = i
	}
	a.routine.TotalDuration = types.TotalDurationOf(a.routine.Cards)
	a.routine.UpdatedAt = time.Now()
}
