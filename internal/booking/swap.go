package booking

import (
	"fmt"

	"github.com/iliyamo/office-seat-booking/internal/model"
)

// ErrTerminalSwap is returned by SwapTransition when the request has
// already been resolved.  Approve/reject are one-shot operations and a
// terminal status is frozen forever.
type ErrTerminalSwap struct {
	Current string
}

func (e ErrTerminalSwap) Error() string {
	return fmt.Sprintf("swap request already %s", e.Current)
}

// SwapTransition validates a swap-request status change.  The only
// legal transitions are PENDING -> APPROVED and PENDING -> REJECTED.
// Transitions out of a terminal state return ErrTerminalSwap so that
// concurrent admin actions cannot double-resolve a request; any other
// target status is a plain error.
func SwapTransition(current, next string) error {
	if current != model.SwapPending {
		return ErrTerminalSwap{Current: current}
	}
	switch next {
	case model.SwapApproved, model.SwapRejected:
		return nil
	default:
		return fmt.Errorf("invalid swap status %q", next)
	}
}
