package models

import "time"

// User is an entry in the users collection.
//
// Password holds a password hash (argon2id PHC string or bcrypt), never the
// plaintext. It is empty for accounts created through Google sign-in.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Password         string    `json:"password"`
	CreatedAt        time.Time `json:"createdAt"`
	AuthStrategy     string    `json:"authStrategy"`
	Avatar           string    `json:"avatar,omitempty"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled,omitempty"`
	TwoFactorSecret  string    `json:"twoFactorSecret,omitempty"`
	GoogleID         string    `json:"googleId,omitempty"`
	GoogleConnected  bool      `json:"googleConnected,omitempty"`
}

// ProfileUpdate carries the fields a user may change. Nil means unchanged.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Avatar   *string
}
