package tracking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
)

// Day owns the entries logged on one calendar date. Entries keep the order
// they were added in and an activity appears at most once.
//
// Every accepted mutation recomputes the total and then notifies
// subscribers synchronously. Day is not safe for concurrent use.
type Day struct {
	date    timecalc.Date
	catalog model.Catalog
	entries []*Entry
	total   model.Fraction
	active  bool
	subs    listeners
}

// newDay builds a day from backend logs already filtered to date.
func newDay(date timecalc.Date, catalog model.Catalog, logs []model.ActivityLog) (*Day, error) {
	d := &Day{date: date, catalog: catalog, active: true}
	for _, l := range logs {
		if !l.Time.Valid() {
			return nil, model.NewParsingError("assemble", fmt.Sprintf("invalid time %s for activity %s on %s", l.Time, l.ActivityID, date), nil)
		}
		if d.find(l.ActivityID) != nil {
			return nil, model.NewParsingError("assemble", fmt.Sprintf("activity %s logged twice on %s", l.ActivityID, date), nil)
		}
		activity, ok := catalog.Lookup(l.ActivityID)
		if !ok {
			// Keep time logged against retired activities visible.
			activity = model.Activity{ID: l.ActivityID, Name: l.ActivityID.String()}
		}
		d.entries = append(d.entries, &Entry{activity: activity, fraction: l.Time, day: d})
	}
	d.total = d.sum()
	return d, nil
}

func (d *Day) Date() timecalc.Date { return d.date }
func (d *Day) Total() model.Fraction { return d.total }
func (d *Day) Active() bool { return d.active }
func (d *Day) Len() int { return len(d.entries) }
func (d *Day) IsFull() bool { return d.total.Equal(model.One) }
func (d *Day) Entries() []*Entry { return append([]*Entry(nil), d.entries...) }
func (d *Day) Entry(id uuid.UUID) *Entry { return d.find(id) }

// Logs returns the wire form of every entry, in entry order.
func (d *Day) Logs() []model.ActivityLog {
	logs := make([]model.ActivityLog, 0, len(d.entries))
	for _, e := range d.entries {
		logs = append(logs, e.Log())
	}
	return logs
}

// Remaining returns the catalog activities not yet logged on this day, in
// catalog order.
func (d *Day) Remaining() []model.Activity {
	var out []model.Activity
	for _, a := range d.catalog.Activities() {
		if d.find(a.ID) == nil {
			out = append(out, a)
		}
	}
	return out
}

// Subscribe registers fn to run after every change to the day.
func (d *Day) Subscribe(fn func()) (unsubscribe func()) {
	return d.subs.add(fn)
}

// Add logs activity with a fraction of 0.
func (d *Day) Add(activity model.Activity) (*Entry, error) {
	if !d.active {
		return nil, ErrReadOnly
	}
	if d.find(activity.ID) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateActivity, activity.Name)
	}
	e := &Entry{activity: activity, fraction: model.Zero, day: d}
	d.entries = append(d.entries, e)
	d.changed()
	return e, nil
}

// Remove drops the entry for id. Removing an activity that is not logged is
// a no-op.
func (d *Day) Remove(id uuid.UUID) error {
	if !d.active {
		return ErrReadOnly
	}
	for i, e := range d.entries {
		if e.activity.ID == id {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			d.changed()
			return nil
		}
	}
	return nil
}

// SetFraction sets the entry for id to f. f must be a valid step. Raising
// an entry must keep the day total within 1; lowering one is always
// accepted, like Decrement.
func (d *Day) SetFraction(id uuid.UUID, f model.Fraction) error {
	if !d.active {
		return ErrReadOnly
	}
	if !f.Valid() {
		return fmt.Errorf("%w: got %s", ErrInvalidFraction, f)
	}
	e := d.find(id)
	if e == nil {
		return ErrUnknownActivity
	}
	if e.fraction.Equal(f) {
		return nil
	}
	if f.GreaterThan(e.fraction) && d.total.Sub(e.fraction).Add(f).GreaterThan(model.One) {
		return ErrDayFull
	}
	e.fraction = f
	d.changed()
	return nil
}

// Increment adds 0.25 to the entry for id. It is gated on the day total,
// not the entry: a day at 1 rejects every increment.
func (d *Day) Increment(id uuid.UUID) error {
	if !d.active {
		return ErrReadOnly
	}
	e := d.find(id)
	if e == nil {
		return ErrUnknownActivity
	}
	if d.total.Add(model.Quarter).GreaterThan(model.One) {
		return ErrDayFull
	}
	e.fraction = e.fraction.Add(model.Quarter)
	d.changed()
	return nil
}

// Decrement removes 0.25 from the entry for id.
func (d *Day) Decrement(id uuid.UUID) error {
	if !d.active {
		return ErrReadOnly
	}
	e := d.find(id)
	if e == nil {
		return ErrUnknownActivity
	}
	next := e.fraction.Sub(model.Quarter)
	if next.IsNegative() {
		return ErrBelowZero
	}
	e.fraction = next
	d.changed()
	return nil
}

func (d *Day) find(id uuid.UUID) *Entry {
	for _, e := range d.entries {
		if e.activity.ID == id {
			return e
		}
	}
	return nil
}

func (d *Day) sum() model.Fraction {
	total := model.Zero
	for _, e := range d.entries {
		total = total.Add(e.fraction)
	}
	return total
}

func (d *Day) changed() {
	d.total = d.sum()
	d.subs.notify()
}

// lock makes the day read-only.
func (d *Day) lock() {
	d.active = false
}
