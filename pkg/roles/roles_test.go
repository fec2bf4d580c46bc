package roles

import (
	"testing"

	"github.com/supportdesk/ticketbot/pkg/model"
)

func TestAllowed(t *testing.T) {
	staff := NewGroup(10, 20)
	cases := []struct {
		name  string
		roles []model.Snowflake
		group Group
		want  bool
	}{
		{"wildcard admits no roles", nil, NewGroup(Everyone), true},
		{"wildcard admits any roles", []model.Snowflake{99}, NewGroup(Everyone, 10), true},
		{"intersection", []model.Snowflake{5, 20}, staff, true},
		{"disjoint", []model.Snowflake{5, 6}, staff, false},
		{"no roles", nil, staff, false},
		{"empty group", []model.Snowflake{10}, NewGroup(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.roles, tc.group); got != tc.want {
				t.Fatalf("Allowed(%v, %v) = %v, want %v", tc.roles, tc.group.IDs(), got, tc.want)
			}
		})
	}
}

// Adding roles can never revoke access.
func TestAllowed_Monotonic(t *testing.T) {
	groups := []Group{NewGroup(Everyone), NewGroup(1), NewGroup(2, 3), NewGroup()}
	base := [][]model.Snowflake{nil, {1}, {4}, {2, 9}}
	extra := []model.Snowflake{1, 2, 3, 4, 5}
	for _, g := range groups {
		for _, held := range base {
			if !Allowed(held, g) {
				continue
			}
			for _, add := range extra {
				more := append(append([]model.Snowflake{}, held...), add)
				if !Allowed(more, g) {
					t.Fatalf("adding %d to %v revoked access to %v", add, held, g.IDs())
				}
			}
		}
	}
}

func TestGroupEqualAndKey(t *testing.T) {
	a := NewGroup(3, 1, 2, 2)
	b := NewGroup(1, 2, 3)
	if !a.Equal(b) || a.Key() != b.Key() {
		t.Fatalf("equal groups differ: %q vs %q", a.Key(), b.Key())
	}
	if a.Len() != 3 {
		t.Fatalf("Len = %d, want 3", a.Len())
	}
	if a.Equal(NewGroup(1, 2)) {
		t.Fatal("groups of different size compare equal")
	}
}

func TestStandard_AllStaffDefaultsToUnion(t *testing.T) {
	r := Standard([]model.Snowflake{1}, []model.Snowflake{2}, []model.Snowflake{3}, nil)
	staff := r.Group(NameAllStaff)
	if !staff.Equal(NewGroup(1, 2, 3)) {
		t.Fatalf("ALL_STAFF = %v", staff.IDs())
	}
	if !r.Group(NameEveryone).IsWildcard() {
		t.Fatal("EVERYONE must be the wildcard")
	}

	explicit := Standard([]model.Snowflake{1}, nil, nil, []model.Snowflake{7})
	if !explicit.Group(NameAllStaff).Equal(NewGroup(7)) {
		t.Fatalf("explicit ALL_STAFF = %v", explicit.Group(NameAllStaff).IDs())
	}
}

func TestRegistry_NameOf(t *testing.T) {
	r := Standard([]model.Snowflake{1}, []model.Snowflake{2}, []model.Snowflake{3}, nil)
	if got := r.NameOf(NewGroup(Everyone)); got != "Everyone" {
		t.Fatalf("NameOf(wildcard) = %q", got)
	}
	if got := r.NameOf(NewGroup(1, 2, 3)); got != "All Staff" {
		t.Fatalf("NameOf(staff) = %q", got)
	}
	if got := r.NameOf(NewGroup(42)); got != "Unknown Role" {
		t.Fatalf("NameOf(unknown) = %q", got)
	}
}

func TestRegistry_UndefinedIsEmpty(t *testing.T) {
	r := NewRegistry()
	if r.Group("NOPE").Len() != 0 {
		t.Fatal("undefined group should be empty")
	}
}
