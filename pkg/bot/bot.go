// Package bot turns inbound chat messages into replies.
//
// Bot.Handle filters a message, routes it through the command table,
// checks the sender's roles against the matched rule and runs the bound
// operation. Engine feeds Bot from one or more adapters on a worker
// pool.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/supportdesk/ticketbot/pkg/command"
	"github.com/supportdesk/ticketbot/pkg/model"
	"github.com/supportdesk/ticketbot/pkg/platform"
	"github.com/supportdesk/ticketbot/pkg/roles"
	"github.com/supportdesk/ticketbot/pkg/settings"
	"github.com/supportdesk/ticketbot/pkg/ticket"
)

// Replies sent outside the command flow.
const (
	PrivateChatReply = "Sorry, I can't help you in a private chat."
	NotGuildReply    = "Sorry, I only respond to commands that are sent in a guild."
	failedReply      = "Something went wrong while running that command."
)

// Deps are the collaborators a Bot needs.
type Deps struct {
	Table    *command.Table
	Registry *roles.Registry
	Settings *settings.Settings
	Tickets  *ticket.Manager
	Platform platform.Platform
	// GuildID is the only guild the bot answers in.
	GuildID model.Snowflake
}

// Bot handles messages. Safe for concurrent use.
type Bot struct {
	Deps
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Bot.
type Option func(*Bot)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bot) { b.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(b *Bot) { b.metrics = m }
}

// New creates a Bot.
func New(d Deps, opts ...Option) *Bot {
	b := &Bot{Deps: d, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	if b.metrics == nil {
		b.metrics = NewMetrics()
	}
	return b
}

// Metrics returns the bot's metrics.
func (b *Bot) Metrics() *Metrics { return b.metrics }

// Handle processes one message. Errors are reported to the sender and
// logged; none are returned.
func (b *Bot) Handle(ctx context.Context, msg model.Message) {
	log := b.logger.With("msg_id", uuid.NewString(), "author", msg.Author.ID, "channel", msg.Channel.ID)

	if msg.Author.ID == b.Platform.Self().ID {
		return
	}
	switch msg.Channel.Kind {
	case model.ChannelDirect:
		b.sendDirect(ctx, log, msg.Author.ID, model.Outgoing{Text: PrivateChatReply})
		return
	case model.ChannelText:
	default:
		b.send(ctx, log, msg.Channel.ID, model.Outgoing{Text: NotGuildReply})
		return
	}
	if msg.GuildID != b.GuildID {
		log.Debug("ignoring message from another guild", "guild", msg.GuildID)
		return
	}

	prefix := b.Settings.Prefix.Get()
	m, ok := b.Table.Match(prefix, msg.Content)
	if !ok {
		b.hint(ctx, log, msg, prefix)
		return
	}
	if !roles.Allowed(msg.Author.Roles, m.Rule.Roles) {
		log.Info("command denied", "syntax", m.Rule.Syntax)
		b.metrics.deny()
		b.reply(ctx, log, msg, b.notAllowed())
		return
	}
	op, err := m.Rule.Bind(m.Args)
	if err != nil {
		log.Error("bind command", "syntax", m.Rule.Syntax, "err", err)
		b.reply(ctx, log, msg, b.Settings.ErrorEmbed(failedReply))
		return
	}

	log = log.With("op", op.Name())
	log.Debug("dispatching")
	b.metrics.command(op.Name())
	if err := b.dispatch(ctx, log, msg, prefix, op); err != nil {
		if text, ok := ticket.UserMessage(err); ok {
			log.Info("command rejected", "reason", err)
			b.reply(ctx, log, msg, b.Settings.ErrorEmbed(text))
			return
		}
		log.Error("command failed", "err", err)
		b.reply(ctx, log, msg, b.Settings.ErrorEmbed(failedReply))
	}
}

// hint answers a message that matched no rule but starts like one.
func (b *Bot) hint(ctx context.Context, log *slog.Logger, msg model.Message, prefix string) {
	r, ok := b.Table.Hint(prefix, msg.Content)
	if !ok {
		return
	}
	if !roles.Allowed(msg.Author.Roles, r.Roles) {
		b.metrics.deny()
		b.reply(ctx, log, msg, b.notAllowed())
		return
	}
	b.metrics.hint()
	b.reply(ctx, log, msg, b.Settings.Embed(command.HintTitle, command.Usage(r, prefix)))
}

func (b *Bot) dispatch(ctx context.Context, log *slog.Logger, msg model.Message, prefix string, op command.Op) error {
	switch op := op.(type) {
	case command.Help:
		b.reply(ctx, log, msg, b.Settings.Embed(command.HelpTitle, b.Table.Document(prefix, b.Registry)))
	case command.NewTicket:
		_, err := b.Tickets.Create(ctx, op.Reason, msg.Author, msg.Channel.ID)
		return err
	case command.NewTicketFor:
		_, err := b.Tickets.CreateFor(ctx, op.Member, op.Reason, msg.Channel.ID)
		return err
	case command.CloseTicket:
		return b.Tickets.Close(ctx, op.Message, msg.Author, msg.Channel)
	case command.GetOpen:
		answer := "No"
		if b.Settings.AcceptingTickets.Get() {
			answer = "Yes"
		}
		b.reply(ctx, log, msg, b.Settings.Embed("Result", answer))
	case command.SetOpen:
		if err := b.Settings.AcceptingTickets.Set(op.Open); err != nil {
			return err
		}
		b.reply(ctx, log, msg, b.success())
	case command.GetPrefix:
		b.reply(ctx, log, msg, b.Settings.Embed("Result", "The current prefix is: `"+prefix+"`."))
	case command.SetPrefix:
		if err := b.Settings.Prefix.Set(op.Prefix); err != nil {
			return err
		}
		b.reply(ctx, log, msg, b.success())
	case command.SetBuyer:
		if err := b.Tickets.SetBuyer(ctx, op.Member, op.Grant); err != nil {
			if errors.Is(err, platform.ErrUnknownMember) {
				return ticket.ErrMemberNotFound
			}
			return err
		}
		b.reply(ctx, log, msg, b.success())
	default:
		return fmt.Errorf("unhandled operation %T", op)
	}
	return nil
}

func (b *Bot) notAllowed() *model.Embed {
	return b.Settings.TitledErrorEmbed("Not Allowed", "You are not allowed to use that command!")
}

func (b *Bot) success() *model.Embed {
	return b.Settings.Embed("Success", "The command completed successfully.")
}

func (b *Bot) reply(ctx context.Context, log *slog.Logger, msg model.Message, e *model.Embed) {
	b.send(ctx, log, msg.Channel.ID, model.Outgoing{Embed: e})
}

func (b *Bot) send(ctx context.Context, log *slog.Logger, channelID model.Snowflake, out model.Outgoing) {
	if err := b.Platform.Send(ctx, channelID, out); err != nil {
		log.Warn("reply failed", "err", err)
	}
}

func (b *Bot) sendDirect(ctx context.Context, log *slog.Logger, memberID model.Snowflake, out model.Outgoing) {
	if err := b.Platform.SendDirect(ctx, memberID, out); err != nil {
		log.Debug("direct reply failed", "err", err)
	}
}
