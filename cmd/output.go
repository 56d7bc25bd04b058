package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/chexy/chexy/cmd/common"
	"github.com/chexy/chexy/internal/history"
	"github.com/chexy/chexy/pkg/tasklib"
)

func taskStatus(t *tasklib.Task, now time.Time) string {
	switch {
	case t.IsCompleted():
		return "done"
	case !t.CompletionTime.After(now):
		return "overdue"
	default:
		return "pending"
	}
}

func printTasks(tasks []*tasklib.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Println("chexy: no tasks found")
		return
	}
	txt := "Here are your tasks:"
	txt += "\n\n" + strings.Repeat("-", 97)
	txt += "\n|Num|" + common.Beaut("Name", 24) + "|" + common.Beaut("Importance", 12) + "|" +
		common.Beaut("Due", 12) + "|" + common.Beaut("In Charge", 12) + "|" +
		common.Beaut("Status", 9) + "|" + common.Beaut("ID", 14) + "|"
	txt += "\n|---|" + strings.Repeat("-", 24) + "|" + strings.Repeat("-", 12) + "|" +
		strings.Repeat("-", 12) + "|" + strings.Repeat("-", 12) + "|" +
		strings.Repeat("-", 9) + "|" + strings.Repeat("-", 14) + "|"
	for i, t := range tasks {
		name := t.Name
		if t.Starred {
			name = "* " + name
		}
		due := t.CompletionTime
		txt += fmt.Sprintf("\n|%3d|%s|%s|%s|%s|%s|%s|",
			i+1,
			common.Pad(" "+name, 24),
			common.Beaut(string(t.Importance), 12),
			common.Beaut(common.FormatDate(&due), 12),
			common.Pad(" "+t.InCharge, 12),
			common.Beaut(taskStatus(t, now), 9),
			common.Pad(" "+t.ID, 14),
		)
	}
	txt += "\n" + strings.Repeat("-", 97)
	fmt.Println(txt)
}

func printTask(t *tasklib.Task, now time.Time) {
	due := t.CompletionTime
	fmt.Printf("ID:          %s\n", t.ID)
	fmt.Printf("Name:        %s\n", t.Name)
	fmt.Printf("Importance:  %s\n", t.Importance)
	fmt.Printf("Due:         %s (%s)\n", common.FormatDate(&due), due.Local().Format("15:04"))
	fmt.Printf("In Charge:   %s\n", t.InCharge)
	fmt.Printf("Reminder:    %d days before\n", t.ReminderTime)
	fmt.Printf("Completed:   %s\n", common.FormatDate(t.ActualTime))
	fmt.Printf("Starred:     %t\n", t.Starred)
	fmt.Printf("Notified:    %t\n", t.NotificationShown)
	if t.Recurrence != "" {
		fmt.Printf("Repeats:     %s\n", t.Recurrence)
	}
	fmt.Printf("Status:      %s\n", taskStatus(t, now))
}

func printHistory(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Println("chexy: no notifications yet")
		return
	}
	for _, e := range entries {
		status := "delivered"
		if !e.Delivered {
			status = "failed: " + e.Error
		}
		fmt.Printf("%s  %-6s %-28s %-32s %s\n",
			e.FiredAt.Local().Format("2006-01-02 15:04"),
			e.Importance,
			common.Truncate(e.Name, 28),
			e.Reason,
			status,
		)
	}
}
