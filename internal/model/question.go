package model

// Question types understood by the client.
const (
	QuestionText   = "text"
	QuestionChoice = "choice"
)

// Question is one entry of the daily prompt catalog.
type Question struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}

// QuestionAnswer is a user's answer to the prompt of one calendar day.
// Date is YYYY-MM-DD in UTC; there is at most one answer per user per Date.
type QuestionAnswer struct {
	ID           string `json:"id"`
	UserID       string `json:"-"`
	QuestionID   string `json:"questionId"`
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
	Date         string `json:"date"`
}
