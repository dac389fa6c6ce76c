package domain

import (
	"strings"
	"time"
)

// MovieState is the lifecycle state of a movie on the wishlist.
type MovieState string

const (
	StateToWatch        MovieState = "TO_WATCH"
	StateWatched        MovieState = "WATCHED"
	StateRated          MovieState = "RATED"
	StateRecommended    MovieState = "RECOMMENDED"
	StateNotRecommended MovieState = "NOT_RECOMMENDED"
)

// AllStates lists every lifecycle state in order.
var AllStates = []MovieState{
	StateToWatch,
	StateWatched,
	StateRated,
	StateRecommended,
	StateNotRecommended,
}

// ParseMovieState converts a state token to a MovieState.
// Input is case-insensitive; the canonical form is the upper-case token.
func ParseMovieState(s string) (MovieState, error) {
	state := MovieState(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllStates {
		if state == known {
			return state, nil
		}
	}
	return "", &InvalidStateError{Token: s}
}

// Movie is the core domain model of a wishlist entry.
type Movie struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Synopsis    string     `json:"synopsis" db:"synopsis"`
	ReleaseYear int        `json:"releaseYear" db:"release_year"`
	Genre       string     `json:"genre" db:"genre"`
	State       MovieState `json:"state" db:"state"`
	Rating      *int       `json:"rating" db:"rating"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// AddMovieRequest is the body of POST /movie.
type AddMovieRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// UpdateMovieStateRequest is the body of PUT /movie/{movieId}/state.
type UpdateMovieStateRequest struct {
	State string `json:"state" validate:"required"`
}

// RateMovieRequest is the body of POST /movie/{movieId}/rate.
// Rating is a pointer so that an absent field fails validation instead of
// silently defaulting to 0.
type RateMovieRequest struct {
	Rating *int `json:"rating" validate:"required,gte=0,lte=5"`
}

// JoinGenreNames renders genre names in id order using the given id->name
// mapping. Unknown ids fall back to the "Unknown" placeholder.
func JoinGenreNames(ids []int, names map[int]string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			name = "Unknown"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

func (s MovieState) String() string {
	return string(s)
}
