package tracking

import (
	"github.com/google/uuid"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
)

// Entry is the time logged against one activity on one day. It is owned by
// its Day and mutated only through it.
type Entry struct {
	activity model.Activity
	fraction model.Fraction
	day      *Day
}

func (e *Entry) Activity() model.Activity { return e.activity }
func (e *Entry) ActivityID() uuid.UUID { return e.activity.ID }
func (e *Entry) Name() string { return e.activity.Name }
func (e *Entry) Fraction() model.Fraction { return e.fraction }
func (e *Entry) Date() timecalc.Date { return e.day.date }

// Increment adds 0.25 if the day total stays within 1.
func (e *Entry) Increment() error { return e.day.Increment(e.activity.ID) }

// Decrement removes 0.25 if the entry stays at or above 0.
func (e *Entry) Decrement() error { return e.day.Decrement(e.activity.ID) }

// Log returns the wire form of the entry.
func (e *Entry) Log() model.ActivityLog {
	return model.ActivityLog{
		ActivityID: e.activity.ID,
		Time:       e.fraction,
		Date:       e.day.date,
	}
}
