package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	reasonAlreadyInState   = "Movie is already in the requested state."
	reasonWatchBeforeRate  = "Movie must be watched before it can be rated."
	reasonRateBeforeRecomm = "Movie must be rated before it can be recommended or not recommended."
)

// TestValidateTransitionDecisionTable enumerates all 25 current/requested
// pairs against the documented rules.
func TestValidateTransitionDecisionTable(t *testing.T) {
	expectReason := func(current, requested MovieState) string {
		switch {
		case current == requested:
			return reasonAlreadyInState
		case requested == StateRated && current != StateWatched:
			return reasonWatchBeforeRate
		case (requested == StateRecommended || requested == StateNotRecommended) && current != StateRated:
			return reasonRateBeforeRecomm
		default:
			return ""
		}
	}

	for _, current := range AllStates {
		for _, requested := range AllStates {
			err := ValidateTransition(current, requested)
			want := expectReason(current, requested)

			if want == "" {
				assert.NoError(t, err, "%s -> %s should be accepted", current, requested)
				continue
			}

			var transitionErr *InvalidStateTransitionError
			require.ErrorAs(t, err, &transitionErr, "%s -> %s should be rejected", current, requested)
			assert.Equal(t, want, transitionErr.Reason)
		}
	}
}

func TestValidateTransitionBackwardIsLegal(t *testing.T) {
	assert.NoError(t, ValidateTransition(StateWatched, StateToWatch))
	assert.NoError(t, ValidateTransition(StateRated, StateWatched))
	assert.NoError(t, ValidateTransition(StateRecommended, StateToWatch))
}

func TestValidateRating(t *testing.T) {
	assert.Error(t, ValidateRating(StateToWatch))
	assert.NoError(t, ValidateRating(StateWatched))
	assert.NoError(t, ValidateRating(StateRated))
	assert.NoError(t, ValidateRating(StateRecommended))
	assert.NoError(t, ValidateRating(StateNotRecommended))

	var transitionErr *InvalidStateTransitionError
	require.ErrorAs(t, ValidateRating(StateToWatch), &transitionErr)
	assert.Equal(t, reasonWatchBeforeRate, transitionErr.Reason)
}

func TestParseMovieState(t *testing.T) {
	state, err := ParseMovieState("to_watch")
	require.NoError(t, err)
	assert.Equal(t, StateToWatch, state)

	state, err = ParseMovieState("  Not_Recommended ")
	require.NoError(t, err)
	assert.Equal(t, StateNotRecommended, state)

	_, err = ParseMovieState("archived")
	var stateErr *InvalidStateError
	assert.True(t, errors.As(err, &stateErr))
}

func TestJoinGenreNames(t *testing.T) {
	names := map[int]string{12: "Adventure", 18: "Drama", 878: "Science Fiction"}

	assert.Equal(t, "Adventure, Drama, Science Fiction",
		JoinGenreNames([]int{12, 18, 878}, names))
	assert.Equal(t, "Drama, Unknown", JoinGenreNames([]int{18, 999}, names))
	assert.Equal(t, "", JoinGenreNames(nil, names))
}
