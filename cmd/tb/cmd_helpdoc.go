package main

import (
	"fmt"

	"github.com/supportdesk/ticketbot/pkg/command"
	"github.com/supportdesk/ticketbot/pkg/config"
	"github.com/supportdesk/ticketbot/pkg/settings"
)

// cmdHelpDoc prints the command list the bot would send for "help", so
// the section names can be checked against a layout before deploying it.
func (a *app) cmdHelpDoc(args []string) int {
	fs := a.flagSet("help-doc")
	cfgPath := configFlag(fs)
	prefix := fs.String("prefix", settings.DefaultPrefix, "command prefix")
	if code, done := a.parseFlags(fs, args); done {
		return code
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return a.errorf("help-doc: %v", err)
	}
	reg := cfg.Registry()
	table, err := command.NewTable(command.DefaultRules(reg))
	if err != nil {
		return a.errorf("help-doc: %v", err)
	}
	fmt.Fprintf(a.out, "%s%s\n", command.HelpTitle, table.Document(*prefix, reg))
	return 0
}
