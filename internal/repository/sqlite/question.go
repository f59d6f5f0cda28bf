package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/whisper/internal/apperror"
	"github.com/sakif/whisper/internal/model"
)

const answerColumns = `id, user_id, question_id, question_text, answer, date`

// InsertAnswer relies on the (user_id, date) unique key to keep one answer
// per user per day.
func (db *DB) InsertAnswer(ctx context.Context, a *model.QuestionAnswer) error {
	a.ID = newID()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO question_answers (`+answerColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.QuestionID, a.QuestionText, a.Answer, a.Date,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("question already answered today")
		}
		return fmt.Errorf("sqlite: inserting question answer: %w", err)
	}
	return nil
}

func (db *DB) AnswerForDate(ctx context.Context, userID, date string) (*model.QuestionAnswer, error) {
	var a model.QuestionAnswer
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+answerColumns+` FROM question_answers WHERE user_id = ? AND date = ?`,
		userID, date,
	).Scan(&a.ID, &a.UserID, &a.QuestionID, &a.QuestionText, &a.Answer, &a.Date)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFound("question answer", date)
		}
		return nil, fmt.Errorf("sqlite: getting answer for %s: %w", date, err)
	}
	return &a, nil
}

func (db *DB) AnswersByUser(ctx context.Context, userID string, limit int) ([]model.QuestionAnswer, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+answerColumns+` FROM question_answers
		 WHERE user_id = ? ORDER BY date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing question answers: %w", err)
	}
	defer rows.Close()

	out := []model.QuestionAnswer{}
	for rows.Next() {
		var a model.QuestionAnswer
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.QuestionText, &a.Answer, &a.Date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning question answer: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating question answers: %w", err)
	}
	return out, nil
}
