package model

// Exam is an upcoming exam the user is preparing for.
type Exam struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"` // YYYY-MM-DD
	Color string `json:"color,omitempty"`
}
