package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/oagunth/oagunth-cli/internal/model"
	"github.com/oagunth/oagunth-cli/internal/timecalc"
	"github.com/oagunth/oagunth-cli/internal/tracking"
)

type entryView struct {
	ActivityID uuid.UUID      `json:"activityId"`
	Activity   string         `json:"activity"`
	Time       model.Fraction `json:"time"`
}

type dayView struct {
	Date    string         `json:"date"`
	Total   model.Fraction `json:"total"`
	Entries []entryView    `json:"entries"`
}

type weekView struct {
	WeekYear   int            `json:"weekYear"`
	WeekNumber int            `json:"weekNumber"`
	ISOWeek    string         `json:"isoWeek,omitempty"`
	From       string         `json:"from,omitempty"`
	To         string         `json:"to,omitempty"`
	Status     string         `json:"status"`
	Action     string         `json:"action"`
	Total      model.Fraction `json:"total"`
	Complete   bool           `json:"complete"`
	Days       []dayView      `json:"days"`
}

type monthView struct {
	CurrentDate string         `json:"currentDate"`
	Total       model.Fraction `json:"total"`
	Weeks       []weekView     `json:"weeks"`
}

func viewOfWeek(w *tracking.Week) weekView {
	v := weekView{
		WeekYear:   w.Year(),
		WeekNumber: w.Number(),
		Status:     w.Status().String(),
		Action:     w.Action().String(),
		Total:      w.Total(),
		Complete:   w.IsComplete(),
		Days:       []dayView{},
	}
	if start, ok := w.StartsOn(); ok {
		from, to := timecalc.WeekRange(start)
		v.ISOWeek = timecalc.ISOWeekLabel(start)
		v.From, v.To = from.String(), to.String()
	}
	for _, d := range w.Days() {
		dv := dayView{Date: d.Date().String(), Total: d.Total(), Entries: []entryView{}}
		for _, e := range d.Entries() {
			dv.Entries = append(dv.Entries, entryView{ActivityID: e.ActivityID(), Activity: e.Name(), Time: e.Fraction()})
		}
		v.Days = append(v.Days, dv)
	}
	return v
}

func viewOfMonth(m *tracking.Month) monthView {
	v := monthView{Total: m.Total(), Weeks: []weekView{}}
	if d, err := m.CurrentDate(); err == nil {
		v.CurrentDate = d.String()
	}
	for _, w := range m.Weeks() {
		v.Weeks = append(v.Weeks, viewOfWeek(w))
	}
	return v
}

// renderMonth writes m in format: md, json or csv.
func renderMonth(out io.Writer, m *tracking.Month, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(viewOfMonth(m), "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "csv":
		printMonthCSV(out, m)
	case "md", "":
		printMonth(out, m)
	default:
		return fmt.Errorf("unknown format %q: want md, json or csv", format)
	}
	return nil
}

func printMonth(out io.Writer, m *tracking.Month) {
	weeks := m.Weeks()
	if len(weeks) == 0 {
		fmt.Fprintln(out, "No weeks found.")
		return
	}
	current := m.Current()
	for i, w := range weeks {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printWeek(out, w, w == current)
	}
	fmt.Fprintln(out, "--------------------------------")
	fmt.Fprintf(out, "%-20s%s\n", "Total", m.Total())
}

// printWeek prints one week as a header line and one block per day.
func printWeek(out io.Writer, w *tracking.Week, current bool) {
	marker := ""
	if current {
		marker = " (current)"
	}
	fmt.Fprintf(out, "%s%s – %s, %s/%d, %s\n", w.Label(), marker, w.Status(), w.Total(), len(w.Days()), w.Action())
	fmt.Fprintln(out, "--------------------------------")
	for _, d := range w.Days() {
		full := ""
		if d.IsFull() {
			full = " (full)"
		}
		fmt.Fprintf(out, "%-20s%s%s\n", d.Date().Long(), d.Total(), full)
		for _, e := range d.Entries() {
			fmt.Fprintf(out, "  %-18s%s\n", e.Name(), e.Fraction())
		}
	}
}

func printMonthCSV(out io.Writer, m *tracking.Month) {
	fmt.Fprintln(out, "week_year,week,status,date,activity_id,activity,time")
	for _, w := range m.Weeks() {
		for _, d := range w.Days() {
			for _, e := range d.Entries() {
				fmt.Fprintf(out, "%d,%d,%s,%s,%s,%s,%s\n",
					w.Year(),
					w.Number(),
					w.Status(),
					d.Date(),
					e.ActivityID(),
					csvEscape(e.Name()),
					e.Fraction(),
				)
			}
		}
	}
}

func printActivities(out io.Writer, activities []model.Activity, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(activities, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "csv":
		fmt.Fprintln(out, "id,name")
		for _, a := range activities {
			fmt.Fprintf(out, "%s,%s\n", a.ID, csvEscape(a.Name))
		}
	case "md", "":
		if len(activities) == 0 {
			fmt.Fprintln(out, "No activities found.")
			return nil
		}
		for _, a := range activities {
			fmt.Fprintf(out, "%-38s%s\n", a.ID, a.Name)
		}
	default:
		return fmt.Errorf("unknown format %q: want md, json or csv", format)
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
