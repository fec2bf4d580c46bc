package command

import "github.com/supportdesk/ticketbot/pkg/roles"

// DefaultRules returns the bot's command table, in routing order, with
// role groups taken from reg.
//
// Order matters: "prefix" without the prefix precedes "prefix <value>",
// and "new <reason>" only matches reasons of ten characters or more so
// shorter attempts fall through to its usage hint.
func DefaultRules(reg *roles.Registry) []Rule {
	everyone := reg.Group(roles.NameEveryone)
	staff := reg.Group(roles.NameAllStaff)
	admin := reg.Group(roles.NameAdmin)

	return []Rule{
		{
			Pattern:       `help`,
			RequirePrefix: true,
			Roles:         everyone,
			Syntax:        "help",
			Help:          "Displays a list of commands.",
			Bind:          bindHelp,
		},
		{
			Pattern:       `new ((?:.|\n){10,})`,
			RequirePrefix: true,
			Roles:         everyone,
			HelpTriggers:  []string{"new"},
			Syntax:        "new <reason>",
			Help:          "Creates a new ticket with the specified reason. The reason must be at least 10 characters long.",
			Bind:          bindNew,
		},
		{
			Pattern:       `close(?: (.+))?`,
			RequirePrefix: true,
			Roles:         everyone,
			Syntax:        "close [message]",
			Help:          "Closes the current ticket with an optional message.",
			Bind:          bindClose,
		},
		{
			Pattern:       `getopen`,
			RequirePrefix: true,
			Roles:         everyone,
			HelpTriggers:  []string{"getopen"},
			Syntax:        "getopen",
			Help:          "Returns whether we are currently accepting new tickets.",
			Bind:          bindGetOpen,
		},
		{
			Pattern: `prefix`,
			Roles:   everyone,
			Syntax:  "prefix",
			Help:    "Returns the current prefix for support bot commands.",
			Bind:    bindGetPrefix,
		},
		{
			Pattern:       `setopen ((?:true)|(?:false))`,
			RequirePrefix: true,
			Roles:         staff,
			HelpTriggers:  []string{"setopen"},
			Syntax:        "setopen <true|false>",
			Help:          "Sets whether new tickets will be accepted.",
			Bind:          bindSetOpen,
		},
		{
			Pattern:       `newfor (@mention)(?: ((?:.|\n)+))?`,
			RequirePrefix: true,
			Roles:         staff,
			HelpTriggers:  []string{"newfor"},
			Syntax:        "newfor <user> [reason]",
			Help:          "Creates a new ticket for the provided user. Use full name with discriminator or @mention.",
			Bind:          bindNewFor,
		},
		{
			Pattern:       `buyer (@mention)(?: ((?:true)|(?:false)))?`,
			RequirePrefix: true,
			Roles:         staff,
			HelpTriggers:  []string{"buyer"},
			Syntax:        "buyer <user> [true|false]",
			Help:          "Sets whether the provided user has the Buyer role. Defaults to true.",
			Bind:          bindBuyer,
		},
		{
			Pattern:       `prefix (.+)`,
			RequirePrefix: true,
			Roles:         admin,
			HelpTriggers:  []string{"prefix"},
			Syntax:        "prefix <value>",
			Help:          "Updates the prefix for all subsequent commands.",
			Bind:          bindSetPrefix,
		},
	}
}
