package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/whisper/internal/model"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"passwordHash,omitempty"`
	GitHubID     *int64             `bson:"githubId,omitempty"`
	CreatedAt    string             `bson:"createdAt"`
}

func (d userDoc) model() (*model.User, error) {
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &model.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		GitHubID:     d.GitHubID,
		CreatedAt:    created,
	}, nil
}

// moodDoc is shared by the moods and journals collections.
type moodDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Mood      string             `bson:"mood"`
	Text      string             `bson:"text"`
	Timestamp string             `bson:"timestamp"`
}

func (d moodDoc) mood() (model.MoodRecord, error) {
	ts, err := parseTime(d.Timestamp)
	if err != nil {
		return model.MoodRecord{}, err
	}
	return model.MoodRecord{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Mood:      d.Mood,
		Text:      d.Text,
		Timestamp: ts,
	}, nil
}

func (d moodDoc) note() (model.JournalNote, error) {
	rec, err := d.mood()
	if err != nil {
		return model.JournalNote{}, err
	}
	return model.JournalNote(rec), nil
}

type taskDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID primitive.ObjectID `bson:"userId"`
	Title  string             `bson:"title"`
	Date   string             `bson:"date"`
	Note   string             `bson:"note"`
}

func (d taskDoc) model() model.Task {
	return model.Task{
		ID:     d.ID.Hex(),
		UserID: d.UserID.Hex(),
		Title:  d.Title,
		Date:   d.Date,
		Note:   d.Note,
	}
}

type encouragementDoc struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Text      string              `bson:"text"`
	UserID    *primitive.ObjectID `bson:"userId"`
	Timestamp string              `bson:"timestamp"`
}

func (d encouragementDoc) model() (model.Encouragement, error) {
	ts, err := parseTime(d.Timestamp)
	if err != nil {
		return model.Encouragement{}, err
	}
	e := model.Encouragement{
		ID:        d.ID.Hex(),
		Text:      d.Text,
		Timestamp: ts,
	}
	if d.UserID != nil {
		e.AuthorID = d.UserID.Hex()
	}
	return e, nil
}

type savedDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Text      string             `bson:"text"`
	Liked     bool               `bson:"liked"`
	Timestamp string             `bson:"timestamp"`
}

func (d savedDoc) model() (model.SavedEncouragement, error) {
	ts, err := parseTime(d.Timestamp)
	if err != nil {
		return model.SavedEncouragement{}, err
	}
	return model.SavedEncouragement{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Text:      d.Text,
		Liked:     d.Liked,
		Timestamp: ts,
	}, nil
}

type answerDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId"`
	QuestionID   string             `bson:"questionId"`
	QuestionText string             `bson:"questionText"`
	Answer       string             `bson:"answer"`
	Date         string             `bson:"date"`
}

func (d answerDoc) model() model.QuestionAnswer {
	return model.QuestionAnswer{
		ID:           d.ID.Hex(),
		UserID:       d.UserID.Hex(),
		QuestionID:   d.QuestionID,
		QuestionText: d.QuestionText,
		Answer:       d.Answer,
		Date:         d.Date,
	}
}
