package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/supportdesk/ticketbot/pkg/ticket"
)

func (a *app) cmdTickets(args []string) int {
	fs := a.flagSet("tickets")
	db := dbFlag(fs)
	jsonOut := fs.Bool("json", false, "output as JSON")
	if code, done := a.parseFlags(fs, args); done {
		return code
	}
	if err := a.openStore(*db); err != nil {
		return a.errorf("tickets: %v", err)
	}

	recs := ticket.Records(a.store)
	if *jsonOut {
		if recs == nil {
			recs = []ticket.Record{}
		}
		a.printJSON(recs)
		return 0
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No ticket records.")
		return 0
	}
	fmt.Fprintf(a.out, "%-24s %-20s %-16s %s\n", "AUTHOR", "ID", "OPENED", "REASON")
	for _, r := range recs {
		reason := r.Reason
		if reason == "" {
			reason = "None"
		}
		if !r.IsOpen {
			reason += " (closed)"
		}
		fmt.Fprintf(a.out, "%-24s %-20s %-16s %s\n", r.AuthorName, r.Author, humanize.Time(r.OpenedAt()), reason)
	}
	return 0
}
