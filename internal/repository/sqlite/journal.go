package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/whisper/internal/model"
)

func (db *DB) InsertMood(ctx context.Context, rec *model.MoodRecord) error {
	rec.ID = newID()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO moods (id, user_id, mood, text, timestamp) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Mood, rec.Text, formatTime(rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting mood: %w", err)
	}
	return nil
}

func (db *DB) MoodsByUser(ctx context.Context, userID string) ([]model.MoodRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, mood, text, timestamp FROM moods
		 WHERE user_id = ? ORDER BY timestamp ASC, rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing moods: %w", err)
	}
	defer rows.Close()

	moods := []model.MoodRecord{}
	for rows.Next() {
		var (
			m  model.MoodRecord
			ts string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.Mood, &m.Text, &ts); err != nil {
			return nil, fmt.Errorf("sqlite: scanning mood: %w", err)
		}
		if m.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		moods = append(moods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating moods: %w", err)
	}
	return moods, nil
}

func (db *DB) InsertNote(ctx context.Context, note *model.JournalNote) error {
	note.ID = newID()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO journals (id, user_id, mood, text, timestamp) VALUES (?, ?, ?, ?, ?)`,
		note.ID, note.UserID, note.Mood, note.Text, formatTime(note.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting journal note: %w", err)
	}
	return nil
}

func (db *DB) NotesByUser(ctx context.Context, userID string) ([]model.JournalNote, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, mood, text, timestamp FROM journals
		 WHERE user_id = ? ORDER BY timestamp DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing journal notes: %w", err)
	}
	defer rows.Close()

	notes := []model.JournalNote{}
	for rows.Next() {
		var (
			n  model.JournalNote
			ts string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Mood, &n.Text, &ts); err != nil {
			return nil, fmt.Errorf("sqlite: scanning journal note: %w", err)
		}
		if n.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating journal notes: %w", err)
	}
	return notes, nil
}
