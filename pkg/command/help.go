package command

import (
	"sort"
	"strings"

	"github.com/supportdesk/ticketbot/pkg/roles"
)

// HelpTitle is the title of the command list.
const HelpTitle = "Command List"

// HintTitle is the title of a single-command usage hint.
const HintTitle = "Command Help"

// Usage renders one rule as a help line.
func Usage(r *Rule, prefix string) string {
	return "**`" + r.EffectiveSyntax(prefix) + "`** - " + r.Help
}

type section struct {
	group roles.Group
	rules []*Rule
}

// Document renders the command list. Rules are grouped by their exact
// role set. Sections holding the wildcard come first, then larger sets
// before smaller; ties keep first-appearance order.
func (t *Table) Document(prefix string, reg *roles.Registry) string {
	var sections []*section
	byKey := map[string]*section{}
	for i := range t.rules {
		r := &t.rules[i]
		k := r.Roles.Key()
		s, ok := byKey[k]
		if !ok {
			s = &section{group: r.Roles}
			byKey[k] = s
			sections = append(sections, s)
		}
		s.rules = append(s.rules, r)
	}

	sort.SliceStable(sections, func(i, j int) bool {
		wi, wj := sections[i].group.IsWildcard(), sections[j].group.IsWildcard()
		if wi != wj {
			return wi
		}
		return sections[i].group.Len() > sections[j].group.Len()
	})

	var b strings.Builder
	for _, s := range sections {
		b.WriteString("\n\n__**Commands for ")
		b.WriteString(reg.NameOf(s.group))
		b.WriteString("**__\n\n")
		lines := make([]string, len(s.rules))
		for i, r := range s.rules {
			lines[i] = Usage(r, prefix)
		}
		b.WriteString(strings.Join(lines, "\n"))
	}
	return b.String()
}
