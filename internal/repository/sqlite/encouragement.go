package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/whisper/internal/model"
)

func (db *DB) InsertEncouragement(ctx context.Context, e *model.Encouragement) error {
	e.ID = newID()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO encouragements (id, text, author_uid, timestamp) VALUES (?, ?, ?, ?)`,
		e.ID, e.Text, e.AuthorID, formatTime(e.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting encouragement: %w", err)
	}
	return nil
}

func (db *DB) CountEncouragements(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM encouragements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting encouragements: %w", err)
	}
	return n, nil
}

func (db *DB) SampleEncouragements(ctx context.Context, n int) ([]model.Encouragement, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, text, author_uid, timestamp FROM encouragements ORDER BY RANDOM() LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("sqlite: sampling encouragements: %w", err)
	}
	defer rows.Close()

	out := []model.Encouragement{}
	for rows.Next() {
		var (
			e  model.Encouragement
			ts string
		)
		if err := rows.Scan(&e.ID, &e.Text, &e.AuthorID, &ts); err != nil {
			return nil, fmt.Errorf("sqlite: scanning encouragement: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating encouragements: %w", err)
	}
	return out, nil
}

func (db *DB) InsertSaved(ctx context.Context, s *model.SavedEncouragement) error {
	s.ID = newID()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO saved_encouragements (id, user_id, text, liked, timestamp) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Text, s.Liked, formatTime(s.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting saved encouragement: %w", err)
	}
	return nil
}

func (db *DB) SavedByUser(ctx context.Context, userID string) ([]model.SavedEncouragement, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, text, liked, timestamp FROM saved_encouragements
		 WHERE user_id = ? ORDER BY timestamp DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing saved encouragements: %w", err)
	}
	defer rows.Close()

	out := []model.SavedEncouragement{}
	for rows.Next() {
		var (
			s  model.SavedEncouragement
			ts string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Text, &s.Liked, &ts); err != nil {
			return nil, fmt.Errorf("sqlite: scanning saved encouragement: %w", err)
		}
		if s.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating saved encouragements: %w", err)
	}
	return out, nil
}

func (db *DB) SetSavedLiked(ctx context.Context, userID, id string, liked bool) error {
	if err := checkID("saved encouragement", id); err != nil {
		return err
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE saved_encouragements SET liked = ? WHERE id = ? AND user_id = ?`,
		liked, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: updating saved encouragement %s: %w", id, err)
	}
	return expectOneRow(res, "saved encouragement", id)
}

func (db *DB) DeleteSaved(ctx context.Context, userID, id string) error {
	if err := checkID("saved encouragement", id); err != nil {
		return err
	}
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM saved_encouragements WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting saved encouragement %s: %w", id, err)
	}
	return expectOneRow(res, "saved encouragement", id)
}
