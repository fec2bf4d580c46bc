package command

import (
	"strings"
	"testing"

	"github.com/supportdesk/ticketbot/pkg/roles"
)

func TestDocument_DefaultRules(t *testing.T) {
	tbl := testTable(t)
	got := tbl.Document("!", testRegistry())
	want := "\n\n__**Commands for Everyone**__\n\n" +
		"**`!help`** - Displays a list of commands.\n" +
		"**`!new <reason>`** - Creates a new ticket with the specified reason. The reason must be at least 10 characters long.\n" +
		"**`!close [message]`** - Closes the current ticket with an optional message.\n" +
		"**`!getopen`** - Returns whether we are currently accepting new tickets.\n" +
		"**`prefix`** - Returns the current prefix for support bot commands." +
		"\n\n__**Commands for All Staff**__\n\n" +
		"**`!setopen <true|false>`** - Sets whether new tickets will be accepted.\n" +
		"**`!newfor <user> [reason]`** - Creates a new ticket for the provided user. Use full name with discriminator or @mention.\n" +
		"**`!buyer <user> [true|false]`** - Sets whether the provided user has the Buyer role. Defaults to true." +
		"\n\n__**Commands for Admin**__\n\n" +
		"**`!prefix <value>`** - Updates the prefix for all subsequent commands."
	if got != want {
		t.Fatalf("Document mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestDocument_UsesCurrentPrefix(t *testing.T) {
	tbl := testTable(t)
	doc := tbl.Document("??", testRegistry())
	if !strings.Contains(doc, "**`??help`**") || strings.Contains(doc, "**`!help`**") {
		t.Fatalf("prefix not applied:\n%s", doc)
	}
	if !strings.Contains(doc, "**`prefix`**") {
		t.Fatal("bare rule got a prefix")
	}
}

func TestDocument_SectionOrder(t *testing.T) {
	reg := roles.NewRegistry()
	reg.Define("SMALL", roles.NewGroup(1))
	reg.Define("BIG", roles.NewGroup(1, 2, 3))
	reg.Define("OPEN_DOOR", roles.NewGroup(roles.Everyone, 5))
	r := func(syntax string, g roles.Group) Rule {
		return Rule{Pattern: syntax, RequirePrefix: true, Roles: g, Syntax: syntax, Help: syntax, Bind: bindHelp}
	}
	tbl := MustTable([]Rule{
		r("a", roles.NewGroup(1)),
		r("b", roles.NewGroup(7, 8)),
		r("c", roles.NewGroup(1, 2, 3)),
		r("d", roles.NewGroup(roles.Everyone, 5)),
		r("e", roles.NewGroup(1)),
		r("f", roles.NewGroup(9, 10)),
	})
	doc := tbl.Document("", reg)

	order := []string{
		"Commands for Open Door",
		"Commands for Big",
		"Commands for Unknown Role**__\n\n**`b`**",
		"Commands for Unknown Role**__\n\n**`f`**",
		"Commands for Small**__\n\n**`a`** - a\n**`e`** - e",
	}
	pos := -1
	for _, s := range order {
		i := strings.Index(doc, s)
		if i < 0 {
			t.Fatalf("missing %q in\n%s", s, doc)
		}
		if i <= pos {
			t.Fatalf("%q out of order in\n%s", s, doc)
		}
		pos = i
	}
}

func TestUsage(t *testing.T) {
	r := &Rule{Syntax: "close [message]", Help: "Closes.", RequirePrefix: true}
	if got := Usage(r, "!"); got != "**`!close [message]`** - Closes." {
		t.Fatalf("Usage = %q", got)
	}
	r.RequirePrefix = false
	if got := Usage(r, "!"); got != "**`close [message]`** - Closes." {
		t.Fatalf("Usage without prefix = %q", got)
	}
}
