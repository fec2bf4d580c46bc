// Package command holds the command table, the pattern router and the
// help synthesizer.
//
// A Rule is a regular expression plus metadata. Rules are tried in table
// order against the whole message text; the first rule whose effective
// pattern matches the entire text wins and no later rule is tried. The
// effective pattern is the quoted current prefix followed by the rule's
// pattern, or the bare pattern for rules that do not require a prefix.
// The prefix is passed on every call, so a prefix change applies to the
// very next message.
//
// Authorization is not done here. The caller checks the matched rule's
// role group after the match, so an unauthorized sender only ever learns
// "not allowed".
package command

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/supportdesk/ticketbot/pkg/roles"
)

// MentionPlaceholder in a pattern stands for a member token: a
// name#discriminator or a mention.
const MentionPlaceholder = "(@mention)"

const mentionPattern = `((?:[^#@:]+#\d{4})|(?:<@!?\d{8,32}>))`

// Rule is one routable command. Rules are not modified after the table
// is built.
type Rule struct {
	Pattern       string
	RequirePrefix bool
	Roles         roles.Group
	// HelpTriggers are words that, when a message starts with one but
	// matches no rule, select this rule's usage hint.
	HelpTriggers []string
	Syntax       string
	Help         string
	Bind         Binder
}

// EffectiveSyntax is the syntax as the user must type it.
func (r *Rule) EffectiveSyntax(prefix string) string {
	if r.RequirePrefix {
		return prefix + r.Syntax
	}
	return r.Syntax
}

// Table is an ordered, compiled rule table. Safe for concurrent use.
type Table struct {
	rules    []Rule
	matchers []*matcher
}

// matcher caches the compiled expressions of one rule for the last
// prefix it saw. A snapshot is never modified after it is stored.
type matcher struct {
	pattern string // with the mention placeholder substituted
	cur     atomic.Pointer[compiled]
}

type compiled struct {
	prefix   string
	full     *regexp.Regexp
	triggers []*regexp.Regexp
}

// NewTable validates and compiles rules. Order is preserved.
func NewTable(rules []Rule) (*Table, error) {
	t := &Table{rules: append([]Rule(nil), rules...)}
	for i := range t.rules {
		r := &t.rules[i]
		if r.Bind == nil {
			return nil, fmt.Errorf("rule %d (%s): no binder", i, r.Syntax)
		}
		m := &matcher{pattern: strings.ReplaceAll(r.Pattern, MentionPlaceholder, mentionPattern)}
		if _, err := regexp.Compile(m.pattern); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.Syntax, err)
		}
		t.matchers = append(t.matchers, m)
	}
	return t, nil
}

// MustTable is NewTable that panics on error, for static tables.
func MustTable(rules []Rule) *Table {
	t, err := NewTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Rules returns the rules in table order.
func (t *Table) Rules() []Rule { return append([]Rule(nil), t.rules...) }

func (m *matcher) compile(r *Rule, prefix string) *compiled {
	if c := m.cur.Load(); c != nil && c.prefix == prefix {
		return c
	}
	lead := ""
	if r.RequirePrefix {
		lead = regexp.QuoteMeta(prefix)
	}
	c := &compiled{
		prefix: prefix,
		full:   regexp.MustCompile(`\A(?:` + lead + m.pattern + `)\z`),
	}
	for _, trig := range r.HelpTriggers {
		c.triggers = append(c.triggers, regexp.MustCompile(`\A`+lead+regexp.QuoteMeta(trig)+`\b`))
	}
	m.cur.Store(c)
	return c
}

// Match is a full match of one rule.
type Match struct {
	Rule  *Rule
	Index int
	// Args are the captured groups that took part in the match, left to
	// right.
	Args []string
}

// Match returns the first rule whose effective pattern matches all of
// text.
func (t *Table) Match(prefix, text string) (Match, bool) {
	for i := range t.rules {
		r := &t.rules[i]
		loc := t.matchers[i].compile(r, prefix).full.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		var args []string
		for g := 1; g*2+1 < len(loc); g++ {
			start, end := loc[g*2], loc[g*2+1]
			if start < 0 {
				continue
			}
			args = append(args, text[start:end])
		}
		return Match{Rule: r, Index: i, Args: args}, true
	}
	return Match{}, false
}

// Hint returns the first rule with a help trigger that text starts with,
// for messages that matched no rule.
func (t *Table) Hint(prefix, text string) (*Rule, bool) {
	for i := range t.rules {
		r := &t.rules[i]
		if len(r.HelpTriggers) == 0 {
			continue
		}
		for _, re := range t.matchers[i].compile(r, prefix).triggers {
			if re.MatchString(text) {
				return r, true
			}
		}
	}
	return nil, false
}
