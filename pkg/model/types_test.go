package model

import (
	"encoding/json"
	"testing"
)

func TestSnowflake_StringAndParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Snowflake
		ok   bool
	}{
		{"typical", "123456789012345678", 123456789012345678, true},
		{"zero", "0", 0, true},
		{"negative", "-5", 0, false},
		{"not numeric", "general", 0, false},
		{"empty", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSnowflake(tc.in)
			if (err == nil) != tc.ok {
				t.Fatalf("ParseSnowflake(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
			}
			if tc.ok && got != tc.want {
				t.Fatalf("ParseSnowflake(%q) = %d, want %d", tc.in, got, tc.want)
			}
			if tc.ok && got.String() != tc.in {
				t.Fatalf("String() = %q, want %q", got.String(), tc.in)
			}
		})
	}
}

func TestMember_DisplayName(t *testing.T) {
	m := Member{ID: 42424242, Name: "alice", Discriminator: "0001"}
	if got := m.Mention(); got != "<@42424242>" {
		t.Fatalf("Mention() = %q", got)
	}
	if got := m.DisplayName(); got != "<@42424242> (alice#0001)" {
		t.Fatalf("DisplayName() = %q", got)
	}
}

func TestChannel_Mention(t *testing.T) {
	c := Channel{ID: 77}
	if got := c.Mention(); got != "<#77>" {
		t.Fatalf("Mention() = %q, want <#77>", got)
	}
}

func TestTicketKey(t *testing.T) {
	if got := TicketKey(9001); got != "ticket_9001" {
		t.Fatalf("TicketKey(9001) = %q", got)
	}
}

// The stored layout is shared with existing data files, so field names
// must not drift.
func TestTicket_WireLayout(t *testing.T) {
	tk := Ticket{OpenTime: 1700000000, IsOpen: true, Reason: "printer on fire", AuthorName: "<@1> (a#0001)", AuthorID: "1"}
	b, err := json.Marshal(tk)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"open_time", "is_open", "reason", "author_name", "author_id"} {
		if _, ok := raw[k]; !ok {
			t.Errorf("missing key %q in %s", k, b)
		}
	}
	if tk.OpenedAt().Unix() != 1700000000 {
		t.Fatalf("OpenedAt() = %v", tk.OpenedAt())
	}
}
