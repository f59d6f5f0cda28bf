package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/whisper/internal/model"
)

func (db *DB) InsertTask(ctx context.Context, task *model.Task) error {
	task.ID = newID()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, date, note) VALUES (?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Date, task.Note,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting task: %w", err)
	}
	return nil
}

func (db *DB) TasksByUser(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, title, date, note FROM tasks
		 WHERE user_id = ? ORDER BY date ASC, rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Date, &t.Note); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask only touches a row owned by task.UserID; anything else is
// reported as not found.
func (db *DB) UpdateTask(ctx context.Context, task *model.Task) error {
	if err := checkID("task", task.ID); err != nil {
		return err
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE tasks SET title = ?, date = ?, note = ? WHERE id = ? AND user_id = ?`,
		task.Title, task.Date, task.Note, task.ID, task.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", task.ID, err)
	}
	return expectOneRow(res, "task", task.ID)
}

func (db *DB) DeleteTask(ctx context.Context, userID, id string) error {
	if err := checkID("task", id); err != nil {
		return err
	}
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}
	return expectOneRow(res, "task", id)
}
