package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/chexy/chexy/cmd/common"
)

// dueLayouts are tried in order when parsing a due date.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	common.DateLayout,
}

// parseDue parses a due date in local time. Date-only values mean midnight.
func parseDue(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty due date")
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q (want MM-DD-YYYY, YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")", s)
}

// taskArg returns the single task id argument.
func taskArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("no task id provided")
	case 1:
		id := strings.TrimSpace(args[0])
		if id == "" {
			return "", fmt.Errorf("no task id provided")
		}
		return id, nil
	default:
		return "", fmt.Errorf("expected one task id, got %d arguments", len(args))
	}
}
