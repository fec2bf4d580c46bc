// Package roles defines role groups and the authorization gate.
//
// A Group is a set of role ids. The id 0 is a wildcard: a group that
// contains it admits every member, including members with no roles.
package roles

import (
	"sort"
	"strings"

	"github.com/supportdesk/ticketbot/pkg/model"
)

// Everyone is the wildcard role id.
const Everyone model.Snowflake = 0

// Group is an immutable set of role ids.
type Group struct {
	ids map[model.Snowflake]struct{}
}

// NewGroup builds a group from ids. Duplicates collapse.
func NewGroup(ids ...model.Snowflake) Group {
	g := Group{ids: make(map[model.Snowflake]struct{}, len(ids))}
	for _, id := range ids {
		g.ids[id] = struct{}{}
	}
	return g
}

// Union returns a group holding every id of every argument.
func Union(groups ...Group) Group {
	var ids []model.Snowflake
	for _, g := range groups {
		ids = append(ids, g.IDs()...)
	}
	return NewGroup(ids...)
}

// Has reports whether id is a member of g.
func (g Group) Has(id model.Snowflake) bool {
	_, ok := g.ids[id]
	return ok
}

// IsWildcard reports whether g admits everyone.
func (g Group) IsWildcard() bool { return g.Has(Everyone) }

// Len returns the number of ids in g.
func (g Group) Len() int { return len(g.ids) }

// IDs returns the ids in ascending order.
func (g Group) IDs() []model.Snowflake {
	out := make([]model.Snowflake, 0, len(g.ids))
	for id := range g.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal reports whether g and o hold the same ids.
func (g Group) Equal(o Group) bool {
	if len(g.ids) != len(o.ids) {
		return false
	}
	for id := range g.ids {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

// Key is a canonical string for g, usable as a map key.
func (g Group) Key() string {
	ids := g.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// Allowed reports whether a member holding memberRoles may use a command
// restricted to g: true when g is a wildcard or any held role is in g.
func Allowed(memberRoles []model.Snowflake, g Group) bool {
	if g.IsWildcard() {
		return true
	}
	for _, r := range memberRoles {
		if g.Has(r) {
			return true
		}
	}
	return false
}

// Named group identifiers.
const (
	NameEveryone   = "EVERYONE"
	NameSupport    = "SUPPORT"
	NameModerators = "MODERATORS"
	NameAllStaff   = "ALL_STAFF"
	NameAdmin      = "ADMIN"
)

// Registry maps group names to groups, in declaration order.
type Registry struct {
	names  []string
	groups map[string]Group
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{groups: map[string]Group{}}
}

// Define adds or replaces a named group.
func (r *Registry) Define(name string, g Group) {
	if _, ok := r.groups[name]; !ok {
		r.names = append(r.names, name)
	}
	r.groups[name] = g
}

// Group returns the named group. An undefined name yields an empty group,
// which admits nobody.
func (r *Registry) Group(name string) Group {
	g, ok := r.groups[name]
	if !ok {
		return NewGroup()
	}
	return g
}

// NameOf returns the title-cased name of the first defined group equal
// to g, or "Unknown Role".
func (r *Registry) NameOf(g Group) string {
	for _, n := range r.names {
		if r.groups[n].Equal(g) {
			return Prettify(n)
		}
	}
	return "Unknown Role"
}

// Prettify turns ALL_STAFF into "All Staff".
func Prettify(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		w = strings.ToLower(w)
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Standard builds the registry the bot uses: EVERYONE is the wildcard,
// ALL_STAFF defaults to the union of support, moderators and admin when
// allStaff is empty.
func Standard(support, moderators, admin, allStaff []model.Snowflake) *Registry {
	r := NewRegistry()
	r.Define(NameEveryone, NewGroup(Everyone))
	sup := NewGroup(support...)
	mod := NewGroup(moderators...)
	adm := NewGroup(admin...)
	staff := NewGroup(allStaff...)
	if staff.Len() == 0 {
		staff = Union(sup, mod, adm)
	}
	r.Define(NameSupport, sup)
	r.Define(NameModerators, mod)
	r.Define(NameAllStaff, staff)
	r.Define(NameAdmin, adm)
	return r
}
