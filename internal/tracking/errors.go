package tracking

import "errors"

var (
	ErrDuplicateActivity = errors.New("activity already logged for this day")
	ErrUnknownActivity   = errors.New("activity not logged for this day")
	ErrInvalidFraction   = errors.New("fraction must be a multiple of 0.25 within [0, 1]")
	ErrDayFull           = errors.New("day total would exceed 1")
	ErrBelowZero         = errors.New("fraction would drop below 0")
	ErrReadOnly          = errors.New("day is read-only")

	// ErrLocked is returned by Save and Submit on a submitted week.
	ErrLocked = errors.New("week is submitted and locked")
	// ErrEmptyWeek is returned by Submit on a week without days. A week
	// with days but no logged time can be submitted; its month and year
	// come from its first day.
	ErrEmptyWeek = errors.New("week has no days")
	// ErrClosed is returned when a week was closed before or during an operation.
	ErrClosed = errors.New("week is closed")
)
