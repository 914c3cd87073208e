package tracking_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
	"github.com/oagunth/oagunth-cli/internal/tracking"
)

func weekOf(year, number int, days ...timecalc.Date) model.WeeklyCalendar {
	return model.WeeklyCalendar{WeekYear: year, WeekNumber: number, Days: days}
}

func TestAssemble_OrdersByYearThenNumber(t *testing.T) {
	dec := func(d int) timecalc.Date { return timecalc.NewDate(2020, time.December, d) }
	jan := func(d int) timecalc.Date { return timecalc.NewDate(2021, time.January, d) }

	payload := model.MonthlyCalendar{
		Calendar: model.Calendar{Weeks: []model.WeeklyCalendar{
			weekOf(2021, 1, jan(4), jan(5)),
			weekOf(2020, 53, dec(28), dec(29)),
			weekOf(2020, 5, timecalc.NewDate(2020, time.January, 27)),
		}},
		AllWeeksStatus: []model.WeekState{
			{WeekYear: 2020, WeekNumber: 5, Status: "Submitted"},
			{WeekYear: 2021, WeekNumber: 1, Status: "New"},
			{WeekYear: 2020, WeekNumber: 53, Status: "Saved"},
		},
	}

	weeks, err := tracking.Assemble(payload, testCatalog(t), nil)
	require.NoError(t, err)
	require.Len(t, weeks, 3)

	got := make([][2]int, 0, len(weeks))
	for _, w := range weeks {
		got = append(got, [2]int{w.Year(), w.Number()})
	}
	assert.Equal(t, [][2]int{{2020, 5}, {2020, 53}, {2021, 1}}, got)
	assert.Equal(t, model.StatusSubmitted, weeks[0].Status())
	assert.Equal(t, model.StatusSaved, weeks[1].Status())
	assert.Equal(t, model.StatusNew, weeks[2].Status())
}

func TestAssemble_MissingStatusFails(t *testing.T) {
	payload := model.MonthlyCalendar{
		Calendar: model.Calendar{Weeks: []model.WeeklyCalendar{
			weekOf(2020, 19, may(4)),
			weekOf(2020, 20, may(11)),
		}},
		AllWeeksStatus: []model.WeekState{{WeekYear: 2020, WeekNumber: 19, Status: "New"}},
	}

	weeks, err := tracking.Assemble(payload, testCatalog(t), nil)
	require.Error(t, err)
	assert.Nil(t, weeks)
	assert.True(t, model.IsParsing(err))
	assert.Contains(t, err.Error(), "can't find status for week 20")
}

func TestAssemble_UnrecognizedStatusFails(t *testing.T) {
	payload := model.MonthlyCalendar{
		Calendar:       model.Calendar{Weeks: []model.WeeklyCalendar{weekOf(2020, 19, may(4))}},
		AllWeeksStatus: []model.WeekState{{WeekYear: 2020, WeekNumber: 19, Status: "Approved"}},
	}

	weeks, err := tracking.Assemble(payload, testCatalog(t), nil)
	require.Error(t, err)
	assert.Nil(t, weeks)
	assert.True(t, model.IsParsing(err))
}

func TestAssemble_DropsWeeksWithoutDays(t *testing.T) {
	payload := model.MonthlyCalendar{
		Calendar: model.Calendar{Weeks: []model.WeeklyCalendar{
			weekOf(2020, 18),
			weekOf(2020, 19, may(4)),
		}},
		// Week 18 has no status either; it must not matter once it is dropped.
		AllWeeksStatus: []model.WeekState{{WeekYear: 2020, WeekNumber: 19, Status: "New"}},
	}

	weeks, err := tracking.Assemble(payload, testCatalog(t), nil)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, 19, weeks[0].Number())
}

func TestAssemble_StatusPrefersMatchingYear(t *testing.T) {
	payload := model.MonthlyCalendar{
		Calendar: model.Calendar{Weeks: []model.WeeklyCalendar{weekOf(2020, 19, may(4))}},
		AllWeeksStatus: []model.WeekState{
			{WeekYear: 2019, WeekNumber: 19, Status: "Submitted"},
			{WeekYear: 2020, WeekNumber: 19, Status: "Saved"},
		},
	}
	weeks, err := tracking.Assemble(payload, testCatalog(t), nil)
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, model.StatusSaved, weeks[0].Status())
}

func TestAssemble_BucketsLogsByInclusiveRange(t *testing.T) {
	payload := model.MonthlyCalendar{
		Activities: []model.ActivityLog{
			logOf(devID, 0.5, may(4)),    // first day of week 19
			logOf(devID, 1, may(8)),      // last day of week 19
			logOf(meetingID, 1, may(11)), // week 20
			logOf(trainID, 1, may(30)),   // outside every week
		},
		Calendar: model.Calendar{Weeks: []model.WeeklyCalendar{
			weekOf(2020, 19, may(4), may(5), may(6), may(7), may(8)),
			weekOf(2020, 20, may(11), may(12)),
		}},
		AllWeeksStatus: []model.WeekState{
			{WeekYear: 2020, WeekNumber: 19, Status: "New"},
			{WeekYear: 2020, WeekNumber: 20, Status: "New"},
		},
	}

	weeks, err := tracking.Assemble(payload, testCatalog(t), nil)
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	assert.Equal(t, "1.50", weeks[0].Total().String())
	assert.Equal(t, "0.50", weeks[0].Day(may(4)).Total().String())
	assert.Equal(t, "1.00", weeks[0].Day(may(8)).Total().String())
	assert.Equal(t, "1.00", weeks[1].Total().String())
	assert.NotNil(t, weeks[1].Day(may(11)).Entry(meetingID))
	assert.Nil(t, weeks[1].Day(may(12)).Entry(trainID))
}

func TestAssemble_UnknownActivityKeepsID(t *testing.T) {
	retired := uuid.MustParse("00000000-0000-4000-8000-0000000000ff")
	w := singleWeek(t, "New", nil, logOf(retired, 0.25, may(5)))

	e := w.Day(may(5)).Entry(retired)
	require.NotNil(t, e)
	assert.Equal(t, retired.String(), e.Name())
	assert.Equal(t, "0.25", w.Total().String())
}

func TestAssemble_RejectsInvalidLogs(t *testing.T) {
	tests := []struct {
		name string
		logs []model.ActivityLog
	}{
		{"duplicate log", []model.ActivityLog{logOf(devID, 0.25, may(4)), logOf(devID, 0.5, may(4))}},
		{"not a quarter step", []model.ActivityLog{logOf(devID, 0.3, may(4))}},
		{"above one", []model.ActivityLog{logOf(devID, 1.25, may(4))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := model.MonthlyCalendar{
				Activities:     tt.logs,
				Calendar:       model.Calendar{Weeks: []model.WeeklyCalendar{weekOf(2020, 19, may(4), may(5))}},
				AllWeeksStatus: []model.WeekState{{WeekYear: 2020, WeekNumber: 19, Status: "New"}},
			}
			weeks, err := tracking.Assemble(payload, testCatalog(t), nil)
			require.Error(t, err)
			assert.Nil(t, weeks)
			assert.True(t, model.IsParsing(err))
		})
	}
}
