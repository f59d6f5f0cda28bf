// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a registered account.
//
// Username is unique across the store. PasswordHash is a bcrypt hash and is
// empty for accounts created through GitHub login, which can never pass a
// password check. GitHubID is nil for password-only accounts.
type User struct {
	ID           string    `json:"userId"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	GitHubID     *int64    `json:"githubId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
