package model

import "github.com/google/uuid"

// LogEntry is the time logged against one activity in a save request.
type LogEntry struct {
	Time        Fraction  `json:"time"`
	ActivityRef uuid.UUID `json:"activityRef"`
}

// SaveActivity is one (day, month, year, log) tuple of a save request.
type SaveActivity struct {
	Day   int      `json:"day"`
	Month int      `json:"month"`
	Year  int      `json:"year"`
	Log   LogEntry `json:"log"`
}

// SaveRequest is the body posted when saving a week.
type SaveRequest struct {
	Days []SaveActivity `json:"days"`
}
