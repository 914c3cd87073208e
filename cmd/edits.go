package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
	"github.com/oagunth/oagunth-cli/internal/tracking"
)

// edit is one --set or --remove flag value. Remove edits carry no fraction.
type edit struct {
	date     timecalc.Date
	activity string
	fraction model.Fraction
	remove   bool
}

// parseSet parses DATE=ACTIVITY:FRACTION, e.g. 2020-05-04=Development:0.5.
// ACTIVITY is a name or an ID.
func parseSet(s string) (edit, error) {
	date, rest, err := splitDate(s)
	if err != nil {
		return edit{}, err
	}
	i := strings.LastIndex(rest, ":")
	if i <= 0 || i == len(rest)-1 {
		return edit{}, fmt.Errorf("invalid --set %q: want DATE=ACTIVITY:FRACTION", s)
	}
	f, err := model.ParseFraction(strings.TrimSpace(rest[i+1:]))
	if err != nil {
		return edit{}, fmt.Errorf("invalid --set %q: %w", s, err)
	}
	if !f.Valid() {
		return edit{}, fmt.Errorf("invalid --set %q: fraction must be 0, 0.25, 0.5, 0.75 or 1", s)
	}
	return edit{date: date, activity: strings.TrimSpace(rest[:i]), fraction: f}, nil
}

// parseRemove parses DATE=ACTIVITY.
func parseRemove(s string) (edit, error) {
	date, rest, err := splitDate(s)
	if err != nil {
		return edit{}, err
	}
	if strings.TrimSpace(rest) == "" {
		return edit{}, fmt.Errorf("invalid --remove %q: want DATE=ACTIVITY", s)
	}
	return edit{date: date, activity: strings.TrimSpace(rest), remove: true}, nil
}

func splitDate(s string) (timecalc.Date, string, error) {
	raw, rest, ok := strings.Cut(s, "=")
	if !ok {
		return timecalc.Date{}, "", fmt.Errorf("invalid edit %q: missing '='", s)
	}
	date, err := timecalc.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return timecalc.Date{}, "", fmt.Errorf("invalid edit %q: %w", s, err)
	}
	return date, rest, nil
}

// resolveActivity finds an activity by ID or, failing that, by name.
func resolveActivity(catalog model.Catalog, ref string) (model.Activity, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if a, ok := catalog.Lookup(id); ok {
			return a, nil
		}
	}
	if a, ok := catalog.FindByName(ref); ok {
		return a, nil
	}
	return model.Activity{}, fmt.Errorf("unknown activity %q (see: oag activities)", ref)
}

// applyEdits applies every edit to w as one batch. All edits are checked
// against the catalog and the week first. Removals and decreases run before
// increases so a day can be rebalanced in one call; the first engine
// rejection stops the batch.
func applyEdits(w *tracking.Week, catalog model.Catalog, edits []edit) error {
	type step struct {
		edit
		day    *tracking.Day
		target model.Activity
	}
	var plan []step
	for _, e := range edits {
		day := w.Day(e.date)
		if day == nil {
			return fmt.Errorf("%s is not a working day of %s", e.date, w.Label())
		}
		a, err := resolveActivity(catalog, e.activity)
		if err != nil {
			return err
		}
		plan = append(plan, step{edit: e, day: day, target: a})
	}
	lowers := func(s step) bool {
		if s.remove {
			return true
		}
		cur := s.day.Entry(s.target.ID)
		return cur != nil && s.fraction.LessThan(cur.Fraction())
	}
	sort.SliceStable(plan, func(i, j int) bool { return lowers(plan[i]) && !lowers(plan[j]) })

	var firstErr error
	w.Batch(func() {
		for _, s := range plan {
			if err := applyEdit(s.day, s.target, s.edit); err != nil {
				firstErr = fmt.Errorf("%s %s: %w", s.date, s.target.Name, err)
				return
			}
		}
	})
	return firstErr
}

func applyEdit(day *tracking.Day, a model.Activity, e edit) error {
	if e.remove {
		return day.Remove(a.ID)
	}
	if day.Entry(a.ID) == nil {
		if _, err := day.Add(a); err != nil && !errors.Is(err, tracking.ErrDuplicateActivity) {
			return err
		}
	}
	return day.SetFraction(a.ID, e.fraction)
}
