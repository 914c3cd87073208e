package fixture_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oagunth/oagunth-cli/internal/fixture"
	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
	"github.com/oagunth/oagunth-cli/internal/tracking"
)

var (
	devID     = uuid.MustParse("3f0c2d4e-8a4b-4a55-9d1e-2b7a4c1e9a01")
	meetingID = uuid.MustParse("6b1e7c2a-1f3d-4e8a-b0c4-5d2e9f7a3b02")
	supportID = uuid.MustParse("c7a1e5d3-2b4f-4c6e-9a8d-0f1e2d3c4b04")
)

func may(d int) timecalc.Date { return timecalc.NewDate(2020, time.May, d) }

func load(t *testing.T, c *fixture.Client) *tracking.Month {
	t.Helper()
	m, err := tracking.Load(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestSample_Assembles(t *testing.T) {
	c, err := fixture.New("", nil)
	require.NoError(t, err)
	m := load(t, c)

	assert.Equal(t, 4, m.Catalog().Len())
	weeks := m.Weeks()
	require.Len(t, weeks, 5)

	want := []struct {
		number int
		total  string
		action tracking.ActionRule
	}{
		{18, "1.00", tracking.IsLocked},
		{19, "5.00", tracking.CanBeSubmitted},
		{20, "5.00", tracking.CanBeSubmitted},
		{21, "2.25", tracking.CanBeSaved},
		{22, "0.00", tracking.CanBeSaved},
	}
	for i, w := range want {
		assert.Equal(t, w.number, weeks[i].Number())
		assert.Equal(t, w.total, weeks[i].Total().String(), "week %d", w.number)
		assert.Equal(t, w.action, weeks[i].Action(), "week %d", w.number)
	}
	require.NotNil(t, m.Current())
	assert.Equal(t, 22, m.Current().Number())
}

type logKey struct {
	id   uuid.UUID
	date timecalc.Date
	time string
}

func logSet(w *tracking.Week) []logKey {
	var out []logKey
	for _, d := range w.Days() {
		for _, l := range d.Logs() {
			out = append(out, logKey{l.ActivityID, l.Date, l.Time.String()})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].date != out[j].date {
			return out[i].date.Before(out[j].date)
		}
		return out[i].id.String() < out[j].id.String()
	})
	return out
}

func TestSaveThenFetch_RoundTrips(t *testing.T) {
	c, err := fixture.New("", nil)
	require.NoError(t, err)
	m := load(t, c)

	w := m.WeekNumbered(21)
	dev, _ := m.Catalog().Lookup(devID)
	w.Batch(func() {
		require.NoError(t, w.Day(may(18)).Remove(devID))
		require.NoError(t, w.Day(may(20)).Increment(meetingID))
		e, err := w.Day(may(22)).Add(dev)
		require.NoError(t, err)
		require.NoError(t, e.Increment())
	})
	want := logSet(w)
	require.NoError(t, w.Save(context.Background()))
	assert.Equal(t, model.StatusSaved, w.Status())

	again := load(t, c)
	reloaded := again.WeekNumbered(21)
	assert.Equal(t, model.StatusSaved, reloaded.Status())
	assert.Equal(t, want, logSet(reloaded))
	assert.Equal(t, "2.25", reloaded.Total().String())

	// Other weeks are untouched.
	assert.Equal(t, "5.00", again.WeekNumbered(20).Total().String())
}

func TestSubmit_LocksWeek(t *testing.T) {
	c, err := fixture.New("", nil)
	require.NoError(t, err)
	m := load(t, c)

	w := m.WeekNumbered(19)
	require.Equal(t, tracking.CanBeSubmitted, w.Action())
	require.NoError(t, w.Submit(context.Background()))

	again := load(t, c)
	assert.Equal(t, tracking.IsLocked, again.WeekNumbered(19).Action())

	err = c.SaveActivities(context.Background(), may(4), model.SaveRequest{Days: []model.SaveActivity{}})
	var ne *model.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, 409, ne.StatusCode)

	err = c.SubmitActivities(context.Background(), 5, 2020, 19)
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, 409, ne.StatusCode)
}

func TestSave_Rejections(t *testing.T) {
	c, err := fixture.New("", nil)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name   string
		day    timecalc.Date
		req    model.SaveRequest
		status int
	}{
		{"unknown week", may(31), model.SaveRequest{}, 404},
		{"date outside week", may(25), model.SaveRequest{Days: []model.SaveActivity{
			{Day: 4, Month: 5, Year: 2020, Log: model.LogEntry{Time: model.Quarter, ActivityRef: devID}},
		}}, 400},
		{"invalid time", may(25), model.SaveRequest{Days: []model.SaveActivity{
			{Day: 25, Month: 5, Year: 2020, Log: model.LogEntry{Time: model.FractionFromFloat(0.3), ActivityRef: devID}},
		}}, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.SaveActivities(ctx, tt.day, tt.req)
			var ne *model.NetworkError
			require.ErrorAs(t, err, &ne)
			assert.Equal(t, tt.status, ne.StatusCode)
		})
	}

	err = c.SubmitActivities(ctx, 6, 2020, 22)
	var ne *model.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, 404, ne.StatusCode)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.FetchActivities(cancelled)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, model.IsNetwork(err))
}

func TestDir_SeedsAndPersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixtures")

	c, err := fixture.New(dir, nil)
	require.NoError(t, err)
	for _, name := range []string{"activities.json", "monthly_calendar.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	req := model.SaveRequest{Days: []model.SaveActivity{
		{Day: 25, Month: 5, Year: 2020, Log: model.LogEntry{Time: model.One, ActivityRef: supportID}},
	}}
	require.NoError(t, c.SaveActivities(context.Background(), may(25), req))

	// A new client over the same directory sees the saved week.
	reopened, err := fixture.New(dir, nil)
	require.NoError(t, err)
	m := load(t, reopened)
	w := m.WeekNumbered(22)
	assert.Equal(t, model.StatusSaved, w.Status())
	assert.Equal(t, "1.00", w.Day(may(25)).Total().String())
	assert.NotNil(t, w.Day(may(25)).Entry(supportID))

	_, err = os.Stat(filepath.Join(dir, "monthly_calendar.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file left behind")
}

func TestDir_CorruptFileIsBackedUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "monthly_calendar.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"calendar": [`), 0o600))

	_, err := fixture.New(dir, nil)
	require.Error(t, err)
	assert.True(t, model.IsParsing(err))

	_, err = os.Stat(path + ".corrupt")
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
