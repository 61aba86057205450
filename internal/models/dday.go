package models

// Dday is a countdown item shown against the calendar (exams, deadlines).
type Dday struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"` // YYYY-MM-DD
	Color string `json:"color,omitempty"`
}

// DdayState holds all countdown items and which one is primary.
type DdayState struct {
	Items     []Dday `json:"items"`
	PrimaryID string `json:"primary_id,omitempty"`
}
