package main

import (
	"encoding/json"
	"fmt"

	"github.com/supportdesk/ticketbot/pkg/store"
)

func (a *app) cmdStore(args []string) int {
	if len(args) == 0 {
		return a.errorf("store: expected get, set, del, keys, export or import")
	}
	sub := args[0]
	fs := a.flagSet("store " + sub)
	db := dbFlag(fs)
	if code, done := a.parseFlags(fs, args[1:]); done {
		return code
	}
	pos := fs.Args()

	switch sub {
	case "get", "set", "del", "keys", "export", "import":
	default:
		return a.errorf("store: unknown subcommand %q", sub)
	}
	if err := a.openStore(*db); err != nil {
		return a.errorf("store: %v", err)
	}

	switch sub {
	case "get":
		if len(pos) == 0 {
			a.printJSON(a.store.Snapshot())
			return 0
		}
		v, ok := a.store.Get(pos[0])
		if !ok {
			return a.errorf("store get: no key %q", pos[0])
		}
		a.printJSON(v)

	case "set":
		switch len(pos) {
		case 1:
			values, err := store.DecodeObject([]byte(pos[0]))
			if err != nil {
				return a.errorf("store set: %v", err)
			}
			if err := a.store.Merge(values); err != nil {
				return a.errorf("store set: %v", err)
			}
			fmt.Fprintf(a.out, "set %d key(s)\n", len(values))
		case 2:
			if !json.Valid([]byte(pos[1])) {
				return a.errorf("store set: value for %q is not valid JSON", pos[0])
			}
			if err := a.store.Set(pos[0], json.RawMessage(pos[1])); err != nil {
				return a.errorf("store set: %v", err)
			}
			fmt.Fprintf(a.out, "set %s\n", pos[0])
		default:
			return a.errorf("store set: expected <key> <json> or <json-object>")
		}

	case "del":
		if len(pos) == 0 {
			return a.errorf("store del: expected at least one key")
		}
		for _, k := range pos {
			if err := a.store.Delete(k); err != nil {
				return a.errorf("store del %s: %v", k, err)
			}
		}

	case "keys":
		for _, k := range a.store.Keys() {
			fmt.Fprintln(a.out, k)
		}

	case "export":
		if len(pos) != 1 {
			return a.errorf("store export: expected <file>")
		}
		if err := store.ExportFile(a.store, pos[0]); err != nil {
			return a.errorf("store export: %v", err)
		}

	case "import":
		if len(pos) != 1 {
			return a.errorf("store import: expected <file>")
		}
		n, err := store.ImportFile(a.store, pos[0])
		if err != nil {
			return a.errorf("store import: %v", err)
		}
		fmt.Fprintf(a.out, "imported %d key(s)\n", n)
	}
	return 0
}
