package tracking

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
)

// Month owns the assembled weeks of one backend snapshot for the lifetime of
// a session.
type Month struct {
	currentDate string
	currentYear int
	currentWeek int
	catalog     model.Catalog
	weeks       []*Week
	total       model.Fraction
	unsubs      []func()
	subs        listeners
}

// NewMonth assembles payload into a Month. See Assemble for the failure
// policy.
func NewMonth(payload model.MonthlyCalendar, catalog model.Catalog, backend Backend) (*Month, error) {
	weeks, err := Assemble(payload, catalog, backend)
	if err != nil {
		return nil, err
	}
	m := &Month{
		currentDate: payload.CurrentDate,
		currentYear: payload.Calendar.CurrentWeekYear,
		currentWeek: payload.Calendar.CurrentWeekNumber,
		catalog:     catalog,
		weeks:       weeks,
	}
	for _, w := range weeks {
		m.unsubs = append(m.unsubs, w.Subscribe(m.weekChanged))
	}
	m.refresh()
	return m, nil
}

// Load fetches the activity catalog and the current month concurrently and
// assembles them. Any failure aborts with no partial month.
func Load(ctx context.Context, backend Backend) (*Month, error) {
	var (
		activities []model.Activity
		payload    model.MonthlyCalendar
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activities, err = backend.FetchActivities(gctx)
		if err != nil {
			return fmt.Errorf("fetching activities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		payload, err = backend.FetchCurrentMonth(gctx)
		if err != nil {
			return fmt.Errorf("fetching current month: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	catalog, err := model.NewCatalog(activities)
	if err != nil {
		return nil, err
	}
	return NewMonth(payload, catalog, backend)
}

func (m *Month) Catalog() model.Catalog { return m.catalog }
func (m *Month) Weeks() []*Week { return append([]*Week(nil), m.weeks...) }
func (m *Month) Total() model.Fraction { return m.total }

// CurrentDate returns the backend's current date.
func (m *Month) CurrentDate() (timecalc.Date, error) {
	return timecalc.ParseDate(m.currentDate)
}

// Week returns the week with the given week year and number.
func (m *Month) Week(year, number int) *Week {
	for _, w := range m.weeks {
		if w.Year() == year && w.Number() == number {
			return w
		}
	}
	return nil
}

// WeekNumbered returns the first week with the given number, whatever its
// year.
func (m *Month) WeekNumbered(number int) *Week {
	for _, w := range m.weeks {
		if w.Number() == number {
			return w
		}
	}
	return nil
}

// Current returns the week the backend flags as current, if assembled.
func (m *Month) Current() *Week {
	return m.Week(m.currentYear, m.currentWeek)
}

// WeekOf returns the week containing date.
func (m *Month) WeekOf(date timecalc.Date) *Week {
	for _, w := range m.weeks {
		if w.Day(date) != nil {
			return w
		}
	}
	return nil
}

// Subscribe registers fn to run after any week of the month changes.
func (m *Month) Subscribe(fn func()) (unsubscribe func()) {
	return m.subs.add(fn)
}

// Close closes every week.
func (m *Month) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
	for _, w := range m.weeks {
		w.Close()
	}
}

func (m *Month) weekChanged() {
	m.refresh()
	m.subs.notify()
}

func (m *Month) refresh() {
	total := model.Zero
	for _, w := range m.weeks {
		total = total.Add(w.Total())
	}
	m.total = total
}
