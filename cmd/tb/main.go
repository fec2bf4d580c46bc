// Command tb is the ticketbot CLI: it runs the support-ticket bot against
// a guild and inspects the bot's durable state.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
)

const version = "1.0.0"

const (
	defaultDir    = ".ticketbot"
	defaultDB     = defaultDir + "/ticketbot.db"
	defaultConfig = "ticketbot.yaml"
	defaultGuild  = "guild.yaml"
)

func main() {
	// A missing .env is fine; the real environment still applies.
	_ = godotenv.Load(".env")
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	case "--version", "-v", "version":
		fmt.Fprintln(stdout, "tb", version)
		return 0
	}

	a := newApp(stdin, stdout, stderr)
	defer a.Close()

	switch args[0] {
	case "run":
		return a.cmdRun(args[1:])
	case "store":
		return a.cmdStore(args[1:])
	case "tickets":
		return a.cmdTickets(args[1:])
	case "help-doc":
		return a.cmdHelpDoc(args[1:])
	default:
		fmt.Fprintf(stderr, "tb: unknown command %q\n", args[0])
		fmt.Fprintln(stderr, "Run 'tb --help' for usage.")
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `tb - support-ticket chat bot

Routes prefixed chat commands, opens private ticket channels and keeps
its state in one durable JSON document.

Usage:
  tb <command> [flags]

Commands:
  run                       Run the bot on the console driver
  tickets [--json]          List stored ticket records
  help-doc [--prefix P]     Print the command list as the bot would
  store get [key]           Print one value, or the whole document
  store set <key> <json>    Set one key to a JSON value
  store set <json-object>   Merge a JSON object into the document
  store del <key>...        Delete keys
  store keys                List keys
  store export <file>       Write the document to a file
  store import <file>       Merge a JSON file into the document

Flags for run:
  --config PATH        Guild layout YAML (default: ticketbot.yaml)
  --guild PATH         Guild fixture YAML (default: guild.yaml)
  --metrics-addr ADDR  Serve Prometheus metrics at ADDR/metrics
  --workers N          Message handler workers (default: 1)

Environment:
  TICKETBOT_DB          SQLite database path (default: .ticketbot/ticketbot.db)
  TICKETBOT_CONFIG      Guild layout YAML
  TICKETBOT_GUILD       Guild fixture YAML
  TICKETBOT_LOG_LEVEL   debug, info, warn or error (default: info)
  TICKETBOT_LOG_SINK    stderr, stdout or file:PATH (default: stderr)

Variables in ./.env are loaded first and never override the environment.

Console directives (tb run):
  /as <member>     Speak as a member
  /in <channel>    Speak in a channel, or "dm"
  /quit            Stop

Exit codes:
  0  success
  1  error
`)
}
