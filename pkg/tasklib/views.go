package tasklib

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// View selects a subset of the task collection.
type View string

const (
	ViewAll       View = "all"
	ViewToday     View = "today"
	ViewUpcoming  View = "upcoming"
	ViewStarred   View = "starred"
	ViewCompleted View = "completed"
)

// Views lists the named views in display order.
var Views = []View{ViewToday, ViewUpcoming, ViewStarred, ViewCompleted, ViewAll}

// ParseView parses a view name. An empty name selects ViewAll.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return ViewAll, nil
	}
	for _, known := range Views {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidView, s)
}

// dayOf truncates t to its calendar day in loc.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Filter returns the tasks matching v, evaluated in now's location. The
// input order is preserved.
func Filter(tasks []*Task, v View, now time.Time) []*Task {
	today := dayOf(now, now.Location())
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		var keep bool
		switch v {
		case ViewToday:
			keep = dayOf(t.CompletionTime, now.Location()).Equal(today)
		case ViewUpcoming:
			keep = dayOf(t.CompletionTime, now.Location()).After(today)
		case ViewStarred:
			keep = t.Starred
		case ViewCompleted:
			keep = t.IsCompleted()
		default:
			keep = true
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}

// OnDate returns the tasks due on the calendar day of date, in date's location.
func OnDate(tasks []*Task, date time.Time) []*Task {
	day := dayOf(date, date.Location())
	out := make([]*Task, 0)
	for _, t := range tasks {
		if dayOf(t.CompletionTime, date.Location()).Equal(day) {
			out = append(out, t)
		}
	}
	return out
}

// normalize lowercases s and drops all whitespace.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Search returns the tasks whose name contains keyword, ignoring case and
// whitespace. An empty keyword matches every task.
func Search(tasks []*Task, keyword string) []*Task {
	k := normalize(keyword)
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(normalize(t.Name), k) {
			out = append(out, t)
		}
	}
	return out
}
