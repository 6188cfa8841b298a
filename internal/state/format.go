package state

import (
	"fmt"
	"io"
)

// String renders the event as one line of text.
func (e Event) String() string {
	switch e.Type {
	case EventSignIngress:
		return fmt.Sprintf("%s enters %s (from %s)", e.Point, e.NewSign, e.OldSign)
	case EventAspectFormed:
		return fmt.Sprintf("%s %s %s formed", e.Point, e.NewKind, e.Partner)
	case EventAspectSeparated:
		return fmt.Sprintf("%s %s %s separated", e.Point, e.OldKind, e.Partner)
	case EventAspectChanged:
		return fmt.Sprintf("%s/%s %s -> %s", e.Point, e.Partner, e.OldKind, e.NewKind)
	default:
		return string(e.Type)
	}
}

// WriteEvents writes the last limit events, oldest first. A limit of zero
// or less writes all of them.
func WriteEvents(w io.Writer, events []Event, limit int) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}

	fmt.Fprintf(w, "Events (%d)\n", len(events))
	for _, e := range events {
		fmt.Fprintf(w, "  %s  %-17s %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Type, e)
	}
}
