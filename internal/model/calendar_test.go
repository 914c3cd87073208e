package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
)

const monthJSON = `{
  "currentDate": "2020-05-25T00:00:00Z",
  "activities": [
    {"activityId": "3f0c2d4e-8a4b-4a55-9d1e-2b7a4c1e9a01", "time": 0.5, "date": "2020-05-04T00:00:00Z"}
  ],
  "calendar": {
    "currentWeekYear": 2020,
    "currentWeekNumber": 22,
    "weeks": [
      {"weekNumber": 19, "weekYear": 2020, "days": ["2020-05-04T00:00:00Z", "2020-05-05T00:00:00+02:00"]}
    ]
  },
  "allWeeksStatus": [{"weekYear": 2020, "weekNumber": 19, "status": "Saved"}]
}`

func TestMonthlyCalendar_Decode(t *testing.T) {
	var m model.MonthlyCalendar
	require.NoError(t, json.Unmarshal([]byte(monthJSON), &m))

	assert.Equal(t, "2020-05-25T00:00:00Z", m.CurrentDate)
	require.Len(t, m.Activities, 1)
	assert.Equal(t, uuid.MustParse("3f0c2d4e-8a4b-4a55-9d1e-2b7a4c1e9a01"), m.Activities[0].ActivityID)
	assert.Equal(t, "0.50", m.Activities[0].Time.String())
	assert.Equal(t, timecalc.NewDate(2020, time.May, 4), m.Activities[0].Date)

	require.Len(t, m.Calendar.Weeks, 1)
	assert.Equal(t, []timecalc.Date{
		timecalc.NewDate(2020, time.May, 4),
		timecalc.NewDate(2020, time.May, 5),
	}, m.Calendar.Weeks[0].Days)

	status, err := m.AllWeeksStatus[0].ParsedStatus()
	require.NoError(t, err)
	assert.Equal(t, model.StatusSaved, status)
}

func TestParseWeekStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    model.WeekStatus
		wantErr bool
	}{
		{"New", model.StatusNew, false},
		{"Saved", model.StatusSaved, false},
		{"Submitted", model.StatusSubmitted, false},
		{"submitted", 0, true},
		{"", 0, true},
		{"Approved", 0, true},
	}
	for _, tt := range tests {
		got, err := model.ParseWeekStatus(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			assert.True(t, model.IsParsing(err))
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.String())
	}
}

func TestSaveRequest_Encode(t *testing.T) {
	ref := uuid.MustParse("6b1e7c2a-1f3d-4e8a-b0c4-5d2e9f7a3b02")
	req := model.SaveRequest{Days: []model.SaveActivity{
		{Day: 4, Month: 5, Year: 2020, Log: model.LogEntry{Time: model.FractionFromFloat(0.25), ActivityRef: ref}},
	}}
	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"days":[{"day":4,"month":5,"year":2020,"log":{"time":0.25,"activityRef":"6b1e7c2a-1f3d-4e8a-b0c4-5d2e9f7a3b02"}}]}`, string(out))

	out, err = json.Marshal(model.SaveRequest{Days: []model.SaveActivity{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"days":[]}`, string(out))
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	var err error = model.NewNetworkError("fetch activities", 0, cause)
	assert.True(t, model.IsNetwork(err))
	assert.False(t, model.IsParsing(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "network error during fetch activities: connection refused", err.Error())

	err = model.NewNetworkError("submit", 409, errors.New("conflict"))
	var ne *model.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, 409, ne.StatusCode)
	assert.Contains(t, err.Error(), "status 409")

	err = model.NewParsingError("decode", "bad body", nil)
	assert.True(t, model.IsParsing(err))
	assert.Equal(t, "parsing error during decode: bad body", err.Error())
}
