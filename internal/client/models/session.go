package models

import "time"

// Session is the record stored under "currentUser". It references the
// logged-in user by id; the user itself is always read from the users
// collection.
type Session struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	StartedAt time.Time `json:"startedAt"`
}
