package cmd

const DESCRIPTION = `
CheXy keeps your tasks and deadlines and reminds you before they are due.
A background daemon holds the task list, sends desktop notifications a
week, three days, two days and one day ahead (plus your own reminder),
and asks you to acknowledge important ones.
`

const (
	AddDescription = `The add command creates a task. The due date accepts
MM-DD-YYYY, YYYY-MM-DD, "YYYY-MM-DD HH:MM" or RFC 3339.

Example:
        chexy add -i high -d 11-30-2026 -c alex "Quarterly report"
        chexy add -d "2026-11-02 09:00" --repeat "0 9 * * 1" "Weekly sync"

`
	ModifyDescription = `The modify command changes the given fields of a task,
leaving the rest untouched.

Example:
        chexy modify -i low -r 2 <task id>

`
	RemoveDescription = `The rm command deletes a task.

Example:
        chexy rm <task id>

`
	DoneDescription = `The done command marks a task as completed. Use --undo to
reopen it, which also re-arms its notification. Completing a
recurring task schedules its next occurrence.

Example:
        chexy done <task id>

`
	StarDescription = `The star command toggles the starred flag of a task.

Example:
        chexy star <task id>

`
	ListDescription = `The list command displays tasks. Pick a view (today,
upcoming, starred, completed, all), a calendar date, and
optionally a keyword to search names for.

Example:
        chexy list --view today
        chexy list --date 2026-11-30 --search report

`
	ShowDescription = `The show command prints every field of a task.

Example:
        chexy show <task id>

`
	ExportDescription = `The export command writes all tasks to a spreadsheet.
The file is .xlsx unless the path ends in .csv.

Example:
        chexy export ~/tasks
        chexy export tasks.csv

`
	HistoryDescription = `The history command lists the most recent notifications
and whether they were delivered.

Example:
        chexy history -n 20

`
	TickDescription = `The tick command asks the daemon to check for due tasks now.

Example:
        chexy tick

`
	WatchDescription = `The watch command stays attached to the daemon and prints
notifications as they fire.

Example:
        chexy watch

`
	DaemonDescription = `The daemon command runs the CheXy background service in the
foreground. Other commands start it automatically when needed.
Use --embedded when a UI hosts the daemon to check every second.

Example:
        chexy daemon

`
)
