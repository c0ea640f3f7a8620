package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/office-seat-booking/internal/model"
)

func TestSwapTransitionFromPending(t *testing.T) {
	assert.NoError(t, SwapTransition(model.SwapPending, model.SwapApproved))
	assert.NoError(t, SwapTransition(model.SwapPending, model.SwapRejected))
}

func TestSwapTransitionRejectsUnknownTarget(t *testing.T) {
	err := SwapTransition(model.SwapPending, "CANCELLED")
	assert.Error(t, err)
}

func TestSwapTransitionTerminalStatesAreFrozen(t *testing.T) {
	for _, current := range []string{model.SwapApproved, model.SwapRejected} {
		for _, next := range []string{model.SwapApproved, model.SwapRejected, model.SwapPending} {
			err := SwapTransition(current, next)
			assert.Error(t, err)
			assert.IsType(t, ErrTerminalSwap{}, err)
		}
	}
}
