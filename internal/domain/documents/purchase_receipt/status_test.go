package purchase_receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironstock/internal/core/apperror"
)

func TestStatusTransitionTable(t *testing.T) {
	all := []Status{StatusPending, StatusReceived, StatusCompleted, StatusCancelled}

	allowed := map[Status]map[Status]bool{
		StatusPending:   {StatusReceived: true, StatusCancelled: true},
		StatusReceived:  {StatusCompleted: true, StatusCancelled: true},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	for _, from := range all {
		for _, to := range all {
			got, err := from.Transition(to)
			if allowed[from][to] {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, got)
				continue
			}

			require.Error(t, err, "%s -> %s must be rejected", from, to)
			assert.Equal(t, from, got, "status must not change on a rejected transition")

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
			assert.Equal(t, string(from), appErr.Details["current_status"])
			assert.Equal(t, string(to), appErr.Details["attempted_status"])
		}
	}
}

func TestStatusTransition_UnknownTarget(t *testing.T) {
	got, err := StatusPending.Transition(Status("shipped"))
	require.Error(t, err)
	assert.Equal(t, StatusPending, got)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusReceived.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, Status("shipped").IsTerminal())
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusReceived, StatusCompleted, StatusCancelled} {
		assert.True(t, s.IsValid(), "%s", s)
	}
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("shipped").IsValid())
}
