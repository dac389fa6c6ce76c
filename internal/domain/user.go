package domain

import "time"

// User is an authenticated caller. Users are created lazily on the first
// successful authentication of an unseen username.
type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
