package domain

// ValidateTransition decides whether a movie may move from its current state
// to the requested one. Rules are evaluated in order, first match wins:
//
//  1. same state as requested            -> rejected
//  2. RATED requested before WATCHED     -> rejected
//  3. (NOT_)RECOMMENDED before RATED     -> rejected
//
// Anything else is accepted. Backward transitions (e.g. WATCHED -> TO_WATCH)
// are deliberately legal: the rule set encodes no forward-only constraint.
func ValidateTransition(current, requested MovieState) error {
	if requested == current {
		return &InvalidStateTransitionError{
			Reason: "Movie is already in the requested state.",
		}
	}

	if requested == StateRated && current != StateWatched {
		return &InvalidStateTransitionError{
			Reason: "Movie must be watched before it can be rated.",
		}
	}

	if (requested == StateRecommended || requested == StateNotRecommended) &&
		current != StateRated {
		return &InvalidStateTransitionError{
			Reason: "Movie must be rated before it can be recommended or not recommended.",
		}
	}

	return nil
}

// ValidateRating decides whether a movie in the given state may receive a
// rating. A rating is accepted only once the movie has been watched; rating a
// movie that is exactly WATCHED also advances it to RATED, so the caller must
// apply both mutations as one write.
func ValidateRating(current MovieState) error {
	if stateOrder(current) < stateOrder(StateWatched) {
		return &InvalidStateTransitionError{
			Reason: "Movie must be watched before it can be rated.",
		}
	}
	return nil
}

func stateOrder(s MovieState) int {
	switch s {
	case StateToWatch:
		return 0
	case StateWatched:
		return 1
	case StateRated:
		return 2
	case StateRecommended, StateNotRecommended:
		return 3
	}
	return -1
}
