package model

// Task is a calendar entry. Date is a calendar day formatted YYYY-MM-DD with
// no time component.
type Task struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Note   string `json:"note"`
}
