package libdaterange

import (
	"time"

	"github.com/njt/daterange/internal/dateparse"
)

// Anchor returns the most recent Monday on or before today (today itself on a Monday).
// Week, fortnight and multi-week evaluators count back from it so their windows stay
// Monday-aligned.
func Anchor(today time.Time) time.Time {
	today = dateparse.StartOfDay(today)
	offset := (int(today.Weekday()) + 6) % 7 // Monday = 0
	return dateparse.AddDays(today, -offset)
}
