package fixture

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oagunth/oagunth-cli/internal/logger"
	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
	"github.com/oagunth/oagunth-cli/internal/tracking"
)

const (
	activitiesFile = "activities.json"
	monthFile      = "monthly_calendar.json"
)

//go:embed data/*.json
var sample embed.FS

// Client is a backend serving a fixed month from JSON files. It behaves like
// the server: saves replace the week's logs and mark it Saved, submits mark
// it Submitted, and a submitted week rejects both with 409.
//
// Without a directory the embedded sample month is used and changes live in
// memory only. With a directory, missing files are seeded from the sample
// and every change is written back atomically.
type Client struct {
	mu         sync.Mutex
	dir        string
	activities []model.Activity
	month      model.MonthlyCalendar
	log        *logger.Logger
}

var _ tracking.Backend = (*Client)(nil)

// New loads the fixture from dir, or the embedded sample when dir is empty.
func New(dir string, log *logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{dir: dir, log: log.With("backend", "fixture")}

	if err := c.load(activitiesFile, &c.activities); err != nil {
		return nil, err
	}
	if err := c.load(monthFile, &c.month); err != nil {
		return nil, err
	}
	c.log.Debug("fixture loaded", "dir", dir, "activities", len(c.activities), "logs", len(c.month.Activities))
	return c, nil
}

// load decodes name from the directory, seeding it from the sample first
// when missing. A corrupt file is backed up to <name>.corrupt.
func (c *Client) load(name string, v any) error {
	seed, err := sample.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("reading sample %s: %w", name, err)
	}
	if c.dir == "" {
		return decode(name, seed, v)
	}

	path := filepath.Join(c.dir, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := writeFile(path, seed); err != nil {
			return err
		}
		return decode(name, seed, v)
	}
	if err != nil {
		return fmt.Errorf("fixture error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.NewParsingError("load fixture", fmt.Sprintf("corrupt JSON in %s (backed up to %s)", path, backupPath), err)
	}
	return nil
}

func decode(name string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return model.NewParsingError("load fixture", name, err)
	}
	return nil
}

// FetchActivities returns the activity catalog.
func (c *Client) FetchActivities(ctx context.Context) ([]model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.NewNetworkError("fetch activities", 0, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Activity(nil), c.activities...), nil
}

// FetchCurrentMonth returns a copy of the stored month.
func (c *Client) FetchCurrentMonth(ctx context.Context) (model.MonthlyCalendar, error) {
	if err := ctx.Err(); err != nil {
		return model.MonthlyCalendar{}, model.NewNetworkError("fetch current month", 0, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneMonth(c.month), nil
}

// SaveActivities replaces every log of the week containing day with the
// logs of req and marks the week Saved.
func (c *Client) SaveActivities(ctx context.Context, day timecalc.Date, req model.SaveRequest) error {
	const op = "save activities"
	if err := ctx.Err(); err != nil {
		return model.NewNetworkError(op, 0, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	wi := c.weekIndexOf(day)
	if wi < 0 {
		return model.NewNetworkError(op, http.StatusNotFound, fmt.Errorf("no week contains %s", day))
	}
	week := c.month.Calendar.Weeks[wi]
	if c.statusOf(week) == model.StatusSubmitted {
		return model.NewNetworkError(op, http.StatusConflict, fmt.Errorf("week %d is submitted", week.WeekNumber))
	}

	inWeek := make(map[timecalc.Date]bool, len(week.Days))
	for _, d := range week.Days {
		inWeek[d] = true
	}
	logs := make([]model.ActivityLog, 0, len(req.Days))
	for _, a := range req.Days {
		date := timecalc.NewDate(a.Year, time.Month(a.Month), a.Day)
		if !inWeek[date] {
			return model.NewNetworkError(op, http.StatusBadRequest, fmt.Errorf("%s is not part of week %d", date, week.WeekNumber))
		}
		if !a.Log.Time.Valid() {
			return model.NewNetworkError(op, http.StatusBadRequest, fmt.Errorf("invalid time %s on %s", a.Log.Time, date))
		}
		logs = append(logs, model.ActivityLog{ActivityID: a.Log.ActivityRef, Time: a.Log.Time, Date: date})
	}

	next := cloneMonth(c.month)
	kept := next.Activities[:0]
	for _, l := range next.Activities {
		if !inWeek[l.Date] {
			kept = append(kept, l)
		}
	}
	next.Activities = append(kept, logs...)
	c.setStatus(&next, week, model.StatusSaved)

	if err := c.commit(next); err != nil {
		return model.NewNetworkError(op, http.StatusInternalServerError, err)
	}
	c.log.Info("week saved", "week", week.WeekNumber, "logs", len(logs))
	return nil
}

// SubmitActivities marks the week Submitted.
func (c *Client) SubmitActivities(ctx context.Context, month, year, weekNumber int) error {
	const op = "submit activities"
	if err := ctx.Err(); err != nil {
		return model.NewNetworkError(op, 0, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	wi := -1
	for i, w := range c.month.Calendar.Weeks {
		if w.WeekNumber != weekNumber {
			continue
		}
		for _, d := range w.Days {
			if d.Year == year && int(d.Month) == month {
				wi = i
			}
		}
	}
	if wi < 0 {
		return model.NewNetworkError(op, http.StatusNotFound, fmt.Errorf("no week %d in %d/%d", weekNumber, month, year))
	}
	week := c.month.Calendar.Weeks[wi]
	if c.statusOf(week) == model.StatusSubmitted {
		return model.NewNetworkError(op, http.StatusConflict, fmt.Errorf("week %d is already submitted", weekNumber))
	}

	next := cloneMonth(c.month)
	c.setStatus(&next, week, model.StatusSubmitted)
	if err := c.commit(next); err != nil {
		return model.NewNetworkError(op, http.StatusInternalServerError, err)
	}
	c.log.Info("week submitted", "week", weekNumber)
	return nil
}

func (c *Client) weekIndexOf(day timecalc.Date) int {
	for i, w := range c.month.Calendar.Weeks {
		for _, d := range w.Days {
			if d == day {
				return i
			}
		}
	}
	return -1
}

func (c *Client) statusOf(week model.WeeklyCalendar) model.WeekStatus {
	for _, s := range c.month.AllWeeksStatus {
		if s.WeekNumber == week.WeekNumber && s.WeekYear == week.WeekYear {
			if st, err := s.ParsedStatus(); err == nil {
				return st
			}
		}
	}
	return model.StatusNew
}

// setStatus records status for week, adding the entry when missing.
func (c *Client) setStatus(m *model.MonthlyCalendar, week model.WeeklyCalendar, status model.WeekStatus) {
	for i, s := range m.AllWeeksStatus {
		if s.WeekNumber == week.WeekNumber && s.WeekYear == week.WeekYear {
			m.AllWeeksStatus[i].Status = status.String()
			return
		}
	}
	m.AllWeeksStatus = append(m.AllWeeksStatus, model.WeekState{
		WeekYear:   week.WeekYear,
		WeekNumber: week.WeekNumber,
		Status:     status.String(),
	})
}

// commit writes next to disk, when backed by a directory, and then makes it
// the current month.
func (c *Client) commit(next model.MonthlyCalendar) error {
	if c.dir != "" {
		data, err := json.MarshalIndent(next, "", "  ")
		if err != nil {
			return fmt.Errorf("fixture error marshalling JSON: %w", err)
		}
		if err := writeFile(filepath.Join(c.dir, monthFile), data); err != nil {
			return err
		}
	}
	c.month = next
	return nil
}

// writeFile atomically writes data to path.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("fixture error creating directories: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("fixture error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("fixture error renaming temp file: %w", err)
	}
	return nil
}

func cloneMonth(m model.MonthlyCalendar) model.MonthlyCalendar {
	out := m
	out.Activities = append([]model.ActivityLog(nil), m.Activities...)
	out.AllWeeksStatus = append([]model.WeekState(nil), m.AllWeeksStatus...)
	out.Calendar.Weeks = make([]model.WeeklyCalendar, len(m.Calendar.Weeks))
	for i, w := range m.Calendar.Weeks {
		w.Days = append([]timecalc.Date(nil), w.Days...)
		out.Calendar.Weeks[i] = w
	}
	return out
}
