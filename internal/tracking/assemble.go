package tracking

import (
	"fmt"
	"sort"

	"github.com/oagunth/oagunth-cli/internal/model"
)

// weekWithStatus pairs a calendar week with its parsed status.
type weekWithStatus struct {
	calendar model.WeeklyCalendar
	status   model.WeekStatus
}

// Assemble rebuilds the month's weeks from a backend snapshot, ordered by
// (weekYear, weekNumber). Weeks without days are dropped. A week without a
// status entry, or with an unrecognized one, aborts the whole assembly with
// a *model.ParsingError and no weeks are returned.
func Assemble(payload model.MonthlyCalendar, catalog model.Catalog, backend Backend) ([]*Week, error) {
	pairs, err := weeksWithStatus(payload)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return compareWeeks(pairs[i].calendar, pairs[j].calendar) < 0
	})

	weeks := make([]*Week, 0, len(pairs))
	for _, p := range pairs {
		logs := logsOfWeek(p.calendar, payload.Activities)
		w, err := newWeek(p.calendar, p.status, logs, catalog, backend)
		if err != nil {
			for _, built := range weeks {
				built.Close()
			}
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, nil
}

func weeksWithStatus(payload model.MonthlyCalendar) ([]weekWithStatus, error) {
	var out []weekWithStatus
	for _, week := range payload.Calendar.Weeks {
		if len(week.Days) == 0 {
			continue
		}
		state, ok := statusOf(week, payload.AllWeeksStatus)
		if !ok {
			return nil, model.NewParsingError("assemble", fmt.Sprintf("can't find status for week %d of %d", week.WeekNumber, week.WeekYear), nil)
		}
		status, err := state.ParsedStatus()
		if err != nil {
			return nil, model.NewParsingError("assemble", fmt.Sprintf("week %d", week.WeekNumber), err)
		}
		out = append(out, weekWithStatus{calendar: week, status: status})
	}
	return out, nil
}

// statusOf finds the status entry of week by week number, preferring an
// entry whose week year matches too.
func statusOf(week model.WeeklyCalendar, states []model.WeekState) (model.WeekState, bool) {
	var (
		found model.WeekState
		ok    bool
	)
	for _, s := range states {
		if s.WeekNumber != week.WeekNumber {
			continue
		}
		if s.WeekYear == week.WeekYear {
			return s, true
		}
		if !ok {
			found, ok = s, true
		}
	}
	return found, ok
}

// compareWeeks orders by week year, then week number.
func compareWeeks(a, b model.WeeklyCalendar) int {
	if a.WeekYear != b.WeekYear {
		if a.WeekYear < b.WeekYear {
			return -1
		}
		return 1
	}
	switch {
	case a.WeekNumber < b.WeekNumber:
		return -1
	case a.WeekNumber > b.WeekNumber:
		return 1
	}
	return 0
}

// logsOfWeek selects the logs dated within [first day, last day] of week.
func logsOfWeek(week model.WeeklyCalendar, logs []model.ActivityLog) []model.ActivityLog {
	days := sortedDates(week.Days)
	if len(logs) == 0 || len(days) == 0 {
		return nil
	}
	start, end := days[0], days[len(days)-1]
	var out []model.ActivityLog
	for _, l := range logs {
		if l.Date.Between(start, end) {
			out = append(out, l)
		}
	}
	return out
}
