package notify

import "fmt"

// ReasonKind identifies which threshold a task crossed.
type ReasonKind int

const (
	// ReasonDueNow fires once the due moment has passed.
	ReasonDueNow ReasonKind = iota
	// ReasonDueIn fires on one of the fixed day thresholds.
	ReasonDueIn
	// ReasonCustom fires on the task's own reminder day count.
	ReasonCustom
)

// Reason is the classification result for a single task.
type Reason struct {
	Kind ReasonKind
	Days int
}

func (r Reason) String() string {
	switch r.Kind {
	case ReasonDueNow:
		return "due now"
	case ReasonDueIn:
		if r.Days == 1 {
			return "due in 1 day"
		}
		return fmt.Sprintf("due in %d days", r.Days)
	case ReasonCustom:
		return fmt.Sprintf("custom reminder – %d days before due", r.Days)
	}
	return "unknown"
}
