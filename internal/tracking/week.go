package tracking

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
)

// Week owns one Day per calendar date of a week, its lifecycle status and
// the derived total, completeness and action rule.
//
// A Week belongs to a single goroutine. Close is the exception: another
// goroutine may call it to abandon a pending Save or Submit, whose
// completion then leaves the week untouched.
type Week struct {
	descriptor model.WeeklyCalendar
	status     model.WeekStatus
	days       []*Day
	backend    Backend

	total    model.Fraction
	complete bool
	action   ActionRule

	batching int
	dirty    bool

	unsubs []func()
	subs   listeners

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
}

// newWeek builds the week's days from logs. Every date of the descriptor
// gets a Day even when no log falls on it.
func newWeek(desc model.WeeklyCalendar, status model.WeekStatus, logs []model.ActivityLog, catalog model.Catalog, backend Backend) (*Week, error) {
	dates := sortedDates(desc.Days)
	desc.Days = dates

	w := &Week{
		descriptor: desc,
		status:     status,
		backend:    backend,
	}
	for _, date := range dates {
		var dayLogs []model.ActivityLog
		for _, l := range logs {
			if l.Date == date {
				dayLogs = append(dayLogs, l)
			}
		}
		d, err := newDay(date, catalog, dayLogs)
		if err != nil {
			return nil, err
		}
		w.days = append(w.days, d)
		w.unsubs = append(w.unsubs, d.Subscribe(w.dayChanged))
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.Refresh()
	return w, nil
}

// sortedDates returns the dates ascending, without duplicates.
func sortedDates(in []timecalc.Date) []timecalc.Date {
	out := append([]timecalc.Date(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	uniq := out[:0]
	for i, d := range out {
		if i > 0 && d == out[i-1] {
			continue
		}
		uniq = append(uniq, d)
	}
	return uniq
}

func (w *Week) Descriptor() model.WeeklyCalendar { return w.descriptor }
func (w *Week) Number() int { return w.descriptor.WeekNumber }
func (w *Week) Year() int { return w.descriptor.WeekYear }
func (w *Week) Status() model.WeekStatus { return w.status }
func (w *Week) Total() model.Fraction { return w.total }
func (w *Week) IsComplete() bool { return w.complete }
func (w *Week) Action() ActionRule { return w.action }
func (w *Week) Days() []*Day { return append([]*Day(nil), w.days...) }

// Label returns a label like "Week 19".
func (w *Week) Label() string {
	return fmt.Sprintf("Week %d", w.descriptor.WeekNumber)
}

// StartsOn returns the first date of the week.
func (w *Week) StartsOn() (timecalc.Date, bool) {
	if len(w.days) == 0 {
		return timecalc.Date{}, false
	}
	return w.days[0].date, true
}

// Day returns the day for date, or nil when date is not part of the week.
func (w *Week) Day(date timecalc.Date) *Day {
	for _, d := range w.days {
		if d.date == date {
			return d
		}
	}
	return nil
}

// Subscribe registers fn to run after every recompute caused by a change.
func (w *Week) Subscribe(fn func()) (unsubscribe func()) {
	return w.subs.add(fn)
}

// Refresh recomputes total, completeness and the action rule from the
// current days. It is idempotent. A locked week makes all its days
// read-only.
func (w *Week) Refresh() {
	total := model.Zero
	for _, d := range w.days {
		total = total.Add(d.Total())
	}
	w.total = total
	w.complete = total.Equal(model.FractionFromInt(len(w.days)))
	w.action = ActionRuleFor(w.status, w.complete)
	if w.action == IsLocked {
		for _, d := range w.days {
			d.lock()
		}
	}
}

// Batch runs fn and folds every day change it causes into a single
// recompute and a single notification.
func (w *Week) Batch(fn func()) {
	w.batching++
	defer func() {
		w.batching--
		if w.batching == 0 && w.dirty {
			w.dirty = false
			w.Refresh()
			w.subs.notify()
		}
	}()
	fn()
}

func (w *Week) dayChanged() {
	if w.batching > 0 {
		w.dirty = true
		return
	}
	w.Refresh()
	w.subs.notify()
}

// SaveRequest builds the request Save would send and the representative day
// it would be filed under: the first day with entries, or the first day of
// the week when nothing is logged. Days without entries are skipped.
func (w *Week) SaveRequest() (timecalc.Date, model.SaveRequest) {
	req := model.SaveRequest{Days: []model.SaveActivity{}}
	var day timecalc.Date
	for _, d := range w.days {
		if d.Len() == 0 {
			continue
		}
		if day.IsZero() {
			day = d.date
		}
		for _, l := range d.Logs() {
			req.Days = append(req.Days, model.SaveActivity{
				Day:   l.Date.Day,
				Month: int(l.Date.Month),
				Year:  l.Date.Year,
				Log:   model.LogEntry{Time: l.Time, ActivityRef: l.ActivityID},
			})
		}
	}
	if day.IsZero() && len(w.days) > 0 {
		day = w.days[0].date
	}
	return day, req
}

// Save sends the week's entries to the backend. On success the week becomes
// Saved; on failure nothing changes and the error is returned.
func (w *Week) Save(ctx context.Context) error {
	if w.isClosed() {
		return ErrClosed
	}
	if w.status == model.StatusSubmitted {
		return ErrLocked
	}
	day, req := w.SaveRequest()

	opCtx, stop := w.operationContext(ctx)
	err := w.backend.SaveActivities(opCtx, day, req)
	stop()

	return w.finish(err, "saving", model.StatusSaved)
}

// Submit finalises the week on the backend. Month and year come from the
// first day. On success the week becomes Submitted and every day read-only.
func (w *Week) Submit(ctx context.Context) error {
	if w.isClosed() {
		return ErrClosed
	}
	if w.status == model.StatusSubmitted {
		return ErrLocked
	}
	first, ok := w.StartsOn()
	if !ok {
		return ErrEmptyWeek
	}

	opCtx, stop := w.operationContext(ctx)
	err := w.backend.SubmitActivities(opCtx, int(first.Month), first.Year, w.descriptor.WeekNumber)
	stop()

	return w.finish(err, "submitting", model.StatusSubmitted)
}

// finish applies the outcome of a backend call unless the week was closed
// while it was in flight.
func (w *Week) finish(err error, verb string, next model.WeekStatus) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("%s week %d: %w", verb, w.descriptor.WeekNumber, err)
	}
	if next > w.status {
		w.status = next
	}
	w.Refresh()
	w.mu.Unlock()

	w.subs.notify()
	return nil
}

// operationContext returns a context cancelled by either ctx or Close.
func (w *Week) operationContext(ctx context.Context) (context.Context, func()) {
	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(w.ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

// Close releases the week's day subscriptions and cancels any pending
// operation. It is safe to call more than once.
func (w *Week) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.cancel()
	for _, unsub := range w.unsubs {
		unsub()
	}
	w.unsubs = nil
}

func (w *Week) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
