package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/supportdesk/ticketbot/pkg/config"
	"github.com/supportdesk/ticketbot/pkg/store"
)

// app holds shared state for all CLI subcommands.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	store *store.Store
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut}
}

// Close releases the database connection if one was opened.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// openStore opens the database at path, creating its directory first.
func (a *app) openStore(path string, opts ...store.Option) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create %s: %w", dir, err)
		}
	}
	s, err := store.New(path, opts...)
	if err != nil {
		return fmt.Errorf("cannot open database %q: %w", path, err)
	}
	a.store = s
	return nil
}

func (a *app) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// parseFlags parses args into fs. done reports that the command should
// return code without running.
func (a *app) parseFlags(fs *pflag.FlagSet, args []string) (code int, done bool) {
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0, true
		}
		return 1, true
	}
	return 0, false
}

func dbFlag(fs *pflag.FlagSet) *string {
	return fs.String("db", config.EnvOr("TICKETBOT_DB", defaultDB), "SQLite database path")
}

func configFlag(fs *pflag.FlagSet) *string {
	return fs.String("config", config.EnvOr("TICKETBOT_CONFIG", defaultConfig), "guild layout YAML")
}

// errorf prints a "tb: " prefixed error and returns exit code 1.
func (a *app) errorf(format string, args ...any) int {
	fmt.Fprintf(a.errOut, "tb: "+format+"\n", args...)
	return 1
}

// printJSON writes v to stdout as indented JSON.
func (a *app) printJSON(v any) {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
