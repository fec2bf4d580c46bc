package ticket

import (
	"testing"
	"time"
)

func TestBreakdown(t *testing.T) {
	cases := []struct {
		span time.Duration
		want Duration
	}{
		{0, Duration{}},
		{59 * time.Second, Duration{Seconds: 59}},
		{time.Hour, Duration{Hours: 1}},
		{3661 * time.Second, Duration{Hours: 1, Minutes: 1, Seconds: 1}},
		{24 * time.Hour, Duration{Days: 1, Hours: 24}},
		{90061 * time.Second, Duration{Days: 1, Hours: 25, Minutes: 1, Seconds: 1}},
		{3*24*time.Hour + 5*time.Hour, Duration{Days: 3, Hours: 77}},
		{1500 * time.Millisecond, Duration{Seconds: 1}},
		{-time.Minute, Duration{}},
	}
	for _, tc := range cases {
		if got := Breakdown(tc.span); got != tc.want {
			t.Errorf("Breakdown(%v) = %+v, want %+v", tc.span, got, tc.want)
		}
	}
}

func TestDuration_String(t *testing.T) {
	got := Breakdown(90061 * time.Second).String()
	if want := "1 day(s) 25 hour(s) 1 minute(s) 1 second(s)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
