// Package console is a line-oriented chat adapter for running the bot
// against an in-memory guild from a terminal or a script.
//
// Each input line is one message, sent as the current member in the
// current channel. Lines starting with "/" are console directives:
//
//	/as <member>    speak as a member (mention, name#dddd or name)
//	/in <channel>   speak in a channel (name, #name or id); "dm" for a
//	                direct message
//	/quit           stop reading
//
// A line starting with "//" is sent with one slash removed. The two
// characters \n inside a message become a newline.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/supportdesk/ticketbot/pkg/model"
	"github.com/supportdesk/ticketbot/pkg/platform"
)

// Console reads messages from in and prints bot output to out.
type Console struct {
	dir platform.Directory
	in  io.Reader

	outMu sync.Mutex
	out   io.Writer

	as      model.Snowflake
	channel model.Channel
}

// New creates a Console over dir.
func New(dir platform.Directory, in io.Reader, out io.Writer) *Console {
	return &Console{dir: dir, in: in, out: out}
}

// Name implements bot.Adapter.
func (c *Console) Name() string { return "console" }

// Start implements bot.Adapter. It returns nil at end of input or on
// /quit.
func (c *Console) Start(ctx context.Context, out chan<- model.Message) error {
	sc := bufio.NewScanner(c.in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "/") && !strings.HasPrefix(line, "//") {
			if quit := c.directive(line); quit {
				return nil
			}
			continue
		}
		line = strings.TrimPrefix(line, "/")

		msg, ok := c.message(strings.ReplaceAll(line, `\n`, "\n"))
		if !ok {
			continue
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return sc.Err()
}

func (c *Console) directive(line string) (quit bool) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "quit", "exit":
		return true
	case "as":
		m, ok := platform.ResolveMember(c.dir, arg)
		if !ok {
			c.printf("! no member %q\n", arg)
			return false
		}
		c.as = m.ID
		c.printf("* speaking as %s\n", m.Tag())
	case "in":
		ch, ok := c.resolveChannel(arg)
		if !ok {
			c.printf("! no channel %q\n", arg)
			return false
		}
		c.channel = ch
		c.printf("* in %s\n", c.channelLabel(ch))
	default:
		c.printf("! unknown directive /%s (use /as, /in or /quit)\n", name)
	}
	return false
}

func (c *Console) resolveChannel(arg string) (model.Channel, bool) {
	if arg == "dm" {
		return model.Channel{Kind: model.ChannelDirect, Name: "dm"}, true
	}
	if id, err := model.ParseSnowflake(arg); err == nil {
		if ch, ok := c.dir.Channel(id); ok {
			return ch, true
		}
	}
	return c.dir.ChannelNamed(strings.TrimPrefix(arg, "#"))
}

// message builds an inbound message from the current member and
// channel. Both are looked up again so role and channel changes made by
// earlier commands are visible.
func (c *Console) message(content string) (model.Message, bool) {
	if c.as == 0 {
		c.printf("! pick a member with /as first\n")
		return model.Message{}, false
	}
	author, ok := c.dir.Member(c.as)
	if !ok {
		c.printf("! member %s is gone\n", c.as)
		return model.Message{}, false
	}
	ch := c.channel
	switch {
	case ch.Kind == "":
		c.printf("! pick a channel with /in first\n")
		return model.Message{}, false
	case ch.Kind != model.ChannelDirect:
		if cur, ok := c.dir.Channel(ch.ID); ok {
			ch = cur
		} else {
			c.printf("! channel %s is gone\n", c.channelLabel(ch))
			return model.Message{}, false
		}
	}
	return model.Message{GuildID: c.dir.GuildID(), Author: author, Channel: ch, Content: content}, true
}

// Print writes one outgoing message. Pass it as the guild's OnSend hook.
func (c *Console) Print(s platform.Sent) {
	var where string
	if s.MemberID != 0 {
		where = "@" + s.MemberID.String()
		if m, ok := c.dir.Member(s.MemberID); ok {
			where = "@" + m.Tag()
		}
		where += " (direct)"
	} else {
		where = c.channelLabel(model.Channel{ID: s.ChannelID})
	}

	var b strings.Builder
	if s.Out.Text != "" {
		fmt.Fprintf(&b, "%s | %s\n", where, indent(s.Out.Text))
	}
	if e := s.Out.Embed; e != nil {
		fmt.Fprintf(&b, "%s | [%s] %s\n", where, e.Title, indent(strings.TrimLeft(e.Description, "\n")))
	}
	c.printf("%s", b.String())
}

func (c *Console) channelLabel(ch model.Channel) string {
	if ch.Kind == model.ChannelDirect {
		return "dm"
	}
	if cur, ok := c.dir.Channel(ch.ID); ok {
		return "#" + cur.Name
	}
	if ch.Name != "" {
		return "#" + ch.Name
	}
	return "#" + ch.ID.String()
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}
