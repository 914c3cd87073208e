package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/oagunth/oagunth-cli/internal/timecalc"
)

// ActivityLog is time logged against one activity on one day, as sent by
// the backend.
type ActivityLog struct {
	ActivityID uuid.UUID     `json:"activityId"`
	Time       Fraction      `json:"time"`
	Date       timecalc.Date `json:"date"`
}

// WeeklyCalendar is the calendar shape of one week: the working days of the
// current month that fall in it.
type WeeklyCalendar struct {
	WeekNumber int             `json:"weekNumber"`
	WeekYear   int             `json:"weekYear"`
	Days       []timecalc.Date `json:"days"`
}

// Calendar is the month's calendar structure.
type Calendar struct {
	CurrentWeekYear   int              `json:"currentWeekYear"`
	CurrentWeekNumber int              `json:"currentWeekNumber"`
	Weeks             []WeeklyCalendar `json:"weeks"`
}

// WeekState is the raw per-week status entry.
type WeekState struct {
	WeekYear   int    `json:"weekYear"`
	WeekNumber int    `json:"weekNumber"`
	Status     string `json:"status"`
}

// MonthlyCalendar is the backend snapshot of the current month.
type MonthlyCalendar struct {
	CurrentDate    string        `json:"currentDate"`
	Activities     []ActivityLog `json:"activities"`
	Calendar       Calendar      `json:"calendar"`
	AllWeeksStatus []WeekState   `json:"allWeeksStatus"`
}

// WeekStatus is the lifecycle state of a week.
type WeekStatus int

const (
	StatusNew WeekStatus = iota
	StatusSaved
	StatusSubmitted
)

func (s WeekStatus) String() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusSaved:
		return "Saved"
	case StatusSubmitted:
		return "Submitted"
	}
	return fmt.Sprintf("WeekStatus(%d)", int(s))
}

// ParseWeekStatus maps a wire status string onto a WeekStatus. Matching is
// exact; anything else is a ParsingError.
func ParseWeekStatus(s string) (WeekStatus, error) {
	switch s {
	case "New":
		return StatusNew, nil
	case "Saved":
		return StatusSaved, nil
	case "Submitted":
		return StatusSubmitted, nil
	}
	return StatusNew, NewParsingError("week status", fmt.Sprintf("unrecognized status %q", s), nil)
}

// ParsedStatus parses the entry's status string.
func (w WeekState) ParsedStatus() (WeekStatus, error) {
	return ParseWeekStatus(w.Status)
}
