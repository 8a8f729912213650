package booking

import (
	"errors"
	"fmt"

	"github.com/WAQASUMAR33/taylorapp-sub000/internal/models"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// statusOrder positions each status along the nominal forward path. Forward
// jumps are allowed (shops skip steps in practice), backward moves are not.
var statusOrder = map[models.BookingStatus]int{
	models.StatusPending:          0,
	models.StatusMeasurementTaken: 1,
	models.StatusCutting:          2,
	models.StatusStitching:        3,
	models.StatusTrial:            4,
	models.StatusReady:            5,
	models.StatusDelivered:        6,
}

// ValidateTransition rejects moves out of a terminal state, backward moves
// along the path, and unknown statuses. CANCELLED is reachable from any
// non-terminal state.
func ValidateTransition(from, to models.BookingStatus) error {
	if from == to {
		return nil
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	if to == models.StatusCancelled {
		return nil
	}

	fromPos, ok := statusOrder[from]
	if !ok {
		return fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, from)
	}
	toPos, ok := statusOrder[to]
	if !ok {
		return fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, to)
	}
	if toPos < fromPos {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
