package model

import "time"

// MoodRecord is a single mood submission. Records are append-only and one
// user may have many per day.
//
// Timestamp keeps the zone it was written with: the calendar day of a record
// is the date in that zone, never a converted one.
type MoodRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Mood      string    `json:"mood"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// JournalNote is a longer-form entry. Text is never empty.
type JournalNote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Mood      string    `json:"mood"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
