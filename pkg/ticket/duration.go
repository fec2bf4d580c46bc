package ticket

import (
	"fmt"
	"time"
)

// Duration is how long a ticket was open. Hours counts whole hours over
// the entire span, days included, so a span of one day and one hour has
// Days 1 and Hours 25. Minutes and Seconds are the remainder within the
// hour.
type Duration struct {
	Days, Hours, Minutes, Seconds int64
}

// Breakdown splits d using integer division. Negative spans, which only
// happen when the clock moves backwards, count as zero.
func Breakdown(d time.Duration) Duration {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	days := total / 86400
	rest := total % 86400
	return Duration{
		Days:    days,
		Hours:   days*24 + rest/3600,
		Minutes: rest % 3600 / 60,
		Seconds: rest % 60,
	}
}

func (d Duration) String() string {
	return fmt.Sprintf("%d day(s) %d hour(s) %d minute(s) %d second(s)", d.Days, d.Hours, d.Minutes, d.Seconds)
}
