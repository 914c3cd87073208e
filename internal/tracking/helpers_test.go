package tracking_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
	"github.com/oagunth/oagunth-cli/internal/tracking"
)

var (
	devID     = uuid.MustParse("3f0c2d4e-8a4b-4a55-9d1e-2b7a4c1e9a01")
	meetingID = uuid.MustParse("6b1e7c2a-1f3d-4e8a-b0c4-5d2e9f7a3b02")
	trainID   = uuid.MustParse("9c4d2b1a-7e6f-4a3b-8c2d-1e0f9a8b7c03")

	dev     = model.Activity{ID: devID, Name: "Development"}
	meeting = model.Activity{ID: meetingID, Name: "Meetings"}
	train   = model.Activity{ID: trainID, Name: "Training"}
)

func testCatalog(t *testing.T) model.Catalog {
	t.Helper()
	c, err := model.NewCatalog([]model.Activity{dev, meeting, train})
	require.NoError(t, err)
	return c
}

func may(day int) timecalc.Date {
	return timecalc.NewDate(2020, time.May, day)
}

func logOf(id uuid.UUID, f float64, date timecalc.Date) model.ActivityLog {
	return model.ActivityLog{ActivityID: id, Time: model.FractionFromFloat(f), Date: date}
}

func frac(f float64) model.Fraction {
	return model.FractionFromFloat(f)
}

// singleWeek builds week 19 of 2020 (May 4th to 8th).
func singleWeek(t *testing.T, status string, backend tracking.Backend, logs ...model.ActivityLog) *tracking.Week {
	t.Helper()
	payload := model.MonthlyCalendar{
		CurrentDate: "2020-05-04",
		Activities:  logs,
		Calendar: model.Calendar{
			CurrentWeekYear:   2020,
			CurrentWeekNumber: 19,
			Weeks: []model.WeeklyCalendar{
				{WeekNumber: 19, WeekYear: 2020, Days: []timecalc.Date{may(4), may(5), may(6), may(7), may(8)}},
			},
		},
		AllWeeksStatus: []model.WeekState{{WeekYear: 2020, WeekNumber: 19, Status: status}},
	}
	weeks, err := tracking.Assemble(payload, testCatalog(t), backend)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	t.Cleanup(weeks[0].Close)
	return weeks[0]
}

// fullDay logs 0.5 of dev and 0.5 of meetings on date.
func fullDay(date timecalc.Date) []model.ActivityLog {
	return []model.ActivityLog{logOf(devID, 0.5, date), logOf(meetingID, 0.5, date)}
}

func fullWeek() []model.ActivityLog {
	var logs []model.ActivityLog
	for d := 4; d <= 8; d++ {
		logs = append(logs, fullDay(may(d))...)
	}
	return logs
}
