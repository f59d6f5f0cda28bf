package model

import "time"

// Encouragement is a message in the global pool. It is not scoped to a user;
// AuthorID is informational only.
type Encouragement struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"authorUid,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SavedEncouragement is a user's bookmark of an encouragement. It copies the
// text instead of referencing the pool entry.
type SavedEncouragement struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Text      string    `json:"text"`
	Liked     bool      `json:"liked"`
	Timestamp time.Time `json:"timestamp"`
}
