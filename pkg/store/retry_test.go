package store

import (
	"errors"
	"testing"
	"time"
)

func TestIsTransientSQLiteErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"closed db", errors.New("sql: database is closed"), false},
		{"constraint", errors.New("constraint failed: UNIQUE"), false},
		{"busy", errors.New("SQLITE_BUSY"), true},
		{"locked", errors.New("SQLITE_LOCKED"), true},
		{"short read", errors.New("IOERR_SHORT_READ"), true},
		{"locked text", errors.New("database is locked"), true},
		{"table locked text", errors.New("database table is locked"), true},
		{"code 5", errors.New("sqlite: (5) database is busy"), true},
		{"code 522", errors.New("sqlite: (522) short read"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransientSQLiteErr(tt.err); got != tt.want {
				t.Errorf("isTransientSQLiteErr(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryOp(t *testing.T) {
	fast := retryConfig{maxRetries: 2, baseDelay: time.Millisecond, maxDelay: 4 * time.Millisecond}
	permanent := errors.New("syntax error")

	tests := []struct {
		name      string
		cfg       retryConfig
		failFirst int   // calls that fail before success
		failErr   error // error returned by failing calls
		wantCalls int
		wantErr   bool
	}{
		{"immediate success", fast, 0, nil, 1, false},
		{"permanent not retried", fast, 10, permanent, 1, true},
		{"recovers after busy", fast, 2, errors.New("SQLITE_BUSY"), 3, false},
		{"budget exhausted", fast, 10, errors.New("SQLITE_BUSY"), 3, true},
		{"zero retries", retryConfig{baseDelay: time.Millisecond, maxDelay: time.Millisecond}, 10, errors.New("SQLITE_LOCKED"), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retryOp(tt.cfg, func() error {
				calls++
				if calls <= tt.failFirst {
					return tt.failErr
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	cfg := retryConfig{baseDelay: 20 * time.Millisecond, maxDelay: 100 * time.Millisecond}
	for attempt, floor := range []time.Duration{20, 40, 80, 100, 100} {
		floor *= time.Millisecond
		d := backoffDelay(cfg, attempt)
		if d < floor || d >= floor+cfg.baseDelay {
			t.Errorf("attempt %d: delay %v not in [%v, %v)", attempt, d, floor, floor+cfg.baseDelay)
		}
	}
}
