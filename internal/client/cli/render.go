package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/deadline"
	"github.com/dmitrijs2005/gophtodo/internal/tasklist"
)

const timeLayout = "2006-01-02 03:04 PM"

// numbered lists the items in display order: active first, then completed.
// Item n on screen is numbered(v)[n-1].
func numbered(v tasklist.View) []tasklist.Item {
	items := make([]tasklist.Item, 0, v.Len())
	items = append(items, v.Active...)
	return append(items, v.Completed...)
}

// renderView prints both sections of v with deadlines shown on the wall
// clock of loc.
func renderView(w io.Writer, v tasklist.View, loc *time.Location) {
	if v.Len() == 0 {
		fmt.Fprintln(w, "No todos yet. Use 'add' to create one.")
		return
	}

	n := 1
	fmt.Fprintln(w, "Active:")
	if len(v.Active) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, it := range v.Active {
		fmt.Fprintf(w, "%3d. [ ] %s\n", n, describe(it, loc))
		n++
	}

	fmt.Fprintln(w, "Completed:")
	if len(v.Completed) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, it := range v.Completed {
		fmt.Fprintf(w, "%3d. [x] %s\n", n, describe(it, loc))
		n++
	}
}

func describe(it tasklist.Item, loc *time.Location) string {
	if it.Deadline == nil {
		return it.Text
	}

	due := it.Deadline.In(loc).Format(timeLayout)
	if it.Completed {
		return fmt.Sprintf("%s (due %s)", it.Text, due)
	}

	var details []string
	switch it.Class {
	case deadline.Overdue:
		details = append(details, "OVERDUE")
	case deadline.DueToday:
		details = append(details, "due today")
	case deadline.DueTomorrow:
		details = append(details, "due tomorrow")
	}
	if !it.Remaining.Passed() {
		details = append(details, it.Remaining.String()+" left")
	}

	return fmt.Sprintf("%s (due %s, %s)", it.Text, due, strings.Join(details, ", "))
}
