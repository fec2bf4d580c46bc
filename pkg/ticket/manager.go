// Package ticket implements the ticket lifecycle.
//
// A ticket is a private channel named after the author's id, under the
// configured ticket category, plus a record in the store under
// model.TicketKey(authorID). The channel is what proves a ticket is
// open: Create refuses when a channel with the author's id as its name
// exists. Closing deletes both the record and the channel; nothing is
// retained.
//
// Two Creates for the same author that run concurrently can both pass
// the existing-channel check. Nothing here serializes them.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/supportdesk/ticketbot/pkg/clock"
	"github.com/supportdesk/ticketbot/pkg/model"
	"github.com/supportdesk/ticketbot/pkg/platform"
	"github.com/supportdesk/ticketbot/pkg/settings"
	"github.com/supportdesk/ticketbot/pkg/store"
)

// Observer is told about lifecycle events. Used for metrics.
type Observer interface {
	TicketOpened()
	TicketClosed()
}

type nopObserver struct{}

func (nopObserver) TicketOpened() {}
func (nopObserver) TicketClosed() {}

// Manager runs ticket operations against a store and a platform.
type Manager struct {
	store    store.Interface
	settings *settings.Settings
	plat     platform.Platform
	layout   Layout
	clock    clock.Clock
	logger   *slog.Logger
	observer Observer
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for open times and durations.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithObserver sets the lifecycle observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) { m.observer = o }
}

// NewManager creates a Manager.
func NewManager(st store.Interface, s *settings.Settings, plat platform.Platform, layout Layout, opts ...Option) *Manager {
	m := &Manager{
		store:    st,
		settings: s,
		plat:     plat,
		layout:   layout,
		clock:    clock.Real(),
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Layout returns the resolved layout.
func (m *Manager) Layout() Layout { return m.layout }

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// Create opens a ticket for author and acknowledges it in replyTo.
//
// Preconditions are checked in a fixed order and the first failure is
// returned: tickets must be accepted (ErrNotAccepting), a category must
// be configured (ErrNoCategory), and the author must not already have a
// ticket channel (*AlreadyOpenError).
func (m *Manager) Create(ctx context.Context, reason string, author model.Member, replyTo model.Snowflake) (model.Channel, error) {
	if !m.settings.AcceptingTickets.Get() {
		return model.Channel{}, ErrNotAccepting
	}
	if m.layout.CategoryID == 0 {
		return model.Channel{}, ErrNoCategory
	}
	if existing, ok := m.plat.ChannelNamed(author.ID.String()); ok {
		return model.Channel{}, &AlreadyOpenError{Channel: existing}
	}

	grants := []platform.Grant{
		{Kind: platform.TargetMember, ID: author.ID, Allow: platform.Participant},
		{Kind: platform.TargetMember, ID: m.plat.Self().ID, Allow: platform.Participant},
		{Kind: platform.TargetRole, ID: m.plat.EveryoneRoleID(), Deny: platform.PermReadMessages | platform.PermReadHistory},
	}
	for _, id := range append(append([]model.Snowflake{}, m.layout.SupportRoles...), m.layout.ModeratorRoles...) {
		grants = append(grants, platform.Grant{Kind: platform.TargetRole, ID: id, Allow: platform.Participant})
	}

	ch, err := m.plat.CreatePrivateChannel(ctx, platform.ChannelSpec{
		Name:       author.ID.String(),
		CategoryID: m.layout.CategoryID,
		Grants:     grants,
	})
	if err != nil {
		return model.Channel{}, fmt.Errorf("create ticket channel: %w", err)
	}

	authorName := author.DisplayName()
	rec := model.Ticket{
		OpenTime:   m.clock.Now().Unix(),
		IsOpen:     true,
		Reason:     reason,
		AuthorName: authorName,
		AuthorID:   author.ID.String(),
	}
	if err := m.store.Set(model.TicketKey(author.ID), rec); err != nil {
		// The channel stays; Close treats a channel without a record as a
		// desync and removes it.
		return ch, fmt.Errorf("save ticket: %w", err)
	}
	m.observer.TicketOpened()
	m.logger.Info("ticket opened", "author", author.ID, "channel", ch.ID)

	m.send(ctx, replyTo, model.Outgoing{Embed: m.settings.Embed("Ticket Opened",
		"A ticket has been opened for you in "+ch.Mention()+".")})

	troubleshooting := "troubleshooting"
	if m.layout.TroubleshootingID != 0 {
		troubleshooting = model.Channel{ID: m.layout.TroubleshootingID}.Mention()
	}
	m.send(ctx, ch.ID, model.Outgoing{Embed: m.settings.Embed("Ticket Opened",
		"A ticket has been opened for "+author.Mention()+". Customer support will be with you as soon as possible.\n\n"+
			"Reason: `"+orNone(reason)+"`\n\n"+
			"You may close this ticket at any time by typing `"+m.settings.Prefix.Get()+"close`.\n\n"+
			"If you have any more information about the issue you are facing, please write it below.\n\n"+
			"Please be sure to review "+troubleshooting+" since a solution for most problems can be found there.")})

	if m.layout.LogChannelID != 0 {
		m.send(ctx, m.layout.LogChannelID, model.Outgoing{Embed: m.settings.Embed("Ticket Opened",
			"Channel: "+ch.Mention()+"\nAuthor: "+authorName+"\nReason: "+orNone(reason))})
	}
	return ch, nil
}

// CreateFor opens a ticket on behalf of the member named by token, a
// mention or name#discriminator.
func (m *Manager) CreateFor(ctx context.Context, token, reason string, replyTo model.Snowflake) (model.Channel, error) {
	member, ok := platform.ResolveMember(m.plat, token)
	if !ok {
		return model.Channel{}, ErrMemberNotFound
	}
	return m.Create(ctx, reason, member, replyTo)
}

// InTicket reports whether ch is a ticket channel: a numeric name under
// the configured category.
func (m *Manager) InTicket(ch model.Channel) bool {
	if m.layout.CategoryID == 0 || ch.CategoryID != m.layout.CategoryID {
		return false
	}
	if ch.Name == "" {
		return false
	}
	for _, r := range ch.Name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

const thankYou = "Thank you for using the %s support system. We hope you are satisfied with the support that you received.\n" +
	"Please fill out the customer support satisfaction survey. It is only a few questions and helps us improve our customer support. "

// Close closes the ticket whose channel is ch. message is the optional
// closing message. Outside a ticket channel it returns ErrNotInTicket
// and changes nothing.
//
// When no record exists for the channel, or the record cannot be
// decoded, the channel is still deleted and no error is returned. An
// undecodable record is deleted with it.
func (m *Manager) Close(ctx context.Context, message string, invoker model.Member, ch model.Channel) error {
	if !m.InTicket(ch) {
		return ErrNotInTicket
	}
	auditReason := "Closed by: " + invoker.Tag() + ". Reason: " + orNone(message)

	authorID, err := model.ParseSnowflake(ch.Name)
	if err != nil {
		// Digits that overflow a snowflake can never name an author.
		m.logger.Warn("ticket channel name is not an id", "channel", ch.ID, "name", ch.Name)
		return m.deleteChannel(ctx, ch, auditReason)
	}
	key := model.TicketKey(authorID)

	var rec model.Ticket
	found, err := m.store.Lookup(key, &rec)
	if err != nil {
		m.logger.Warn("undecodable ticket record, removing it", "key", key, "err", err)
		if err := m.store.Delete(key); err != nil {
			return fmt.Errorf("delete ticket record: %w", err)
		}
		return m.deleteChannel(ctx, ch, auditReason)
	}
	if !found {
		m.logger.Warn("no ticket record for channel, deleting channel without it", "channel", ch.ID, "key", key)
		return m.deleteChannel(ctx, ch, auditReason)
	}

	open := Breakdown(m.clock.Now().Sub(rec.OpenedAt()))
	summary := m.settings.Embed("Ticket Closed",
		"Author: "+rec.AuthorName+"\n"+
			"Reason: "+orNone(rec.Reason)+"\n"+
			"Time open: "+open.String()+"\n"+
			"Closed by: "+invoker.DisplayName()+"\n"+
			"Close message: "+orNone(message))

	if m.layout.LogChannelID != 0 {
		m.send(ctx, m.layout.LogChannelID, model.Outgoing{Embed: summary})
	}
	m.notifyAuthor(ctx, rec, summary)

	if err := m.store.Delete(key); err != nil {
		return fmt.Errorf("delete ticket record: %w", err)
	}
	if err := m.deleteChannel(ctx, ch, auditReason); err != nil {
		return err
	}
	m.observer.TicketClosed()
	m.logger.Info("ticket closed", "author", authorID, "channel", ch.ID, "open_for", open.String())
	return nil
}

// notifyAuthor sends the summary and a thank-you note to the author.
// Failures are logged and otherwise ignored.
func (m *Manager) notifyAuthor(ctx context.Context, rec model.Ticket, summary *model.Embed) {
	id, err := model.ParseSnowflake(rec.AuthorID)
	if err != nil {
		return
	}
	if _, ok := m.plat.Member(id); !ok {
		return
	}
	err = m.plat.SendDirect(ctx, id, model.Outgoing{Embed: summary})
	if err == nil {
		err = m.plat.SendDirect(ctx, id, model.Outgoing{Text: fmt.Sprintf(thankYou, m.plat.GuildName())})
	}
	switch {
	case err == nil:
	case errors.Is(err, platform.ErrForbidden):
		m.logger.Debug("author does not accept direct messages", "author", id)
	default:
		m.logger.Warn("direct message to ticket author failed", "author", id, "err", err)
	}
}

func (m *Manager) deleteChannel(ctx context.Context, ch model.Channel, auditReason string) error {
	if err := m.plat.DeleteChannel(ctx, ch.ID, auditReason); err != nil {
		return fmt.Errorf("delete ticket channel: %w", err)
	}
	return nil
}

func (m *Manager) send(ctx context.Context, channelID model.Snowflake, out model.Outgoing) {
	if err := m.plat.Send(ctx, channelID, out); err != nil {
		m.logger.Warn("send failed", "channel", channelID, "err", err)
	}
}

// SetBuyer grants or revokes the configured buyer role for the member
// named by token.
func (m *Manager) SetBuyer(ctx context.Context, token string, grant bool) error {
	if m.layout.BuyerRoleID == 0 {
		return ErrNoBuyerRole
	}
	member, ok := platform.ResolveMember(m.plat, token)
	if !ok {
		return ErrMemberNotFound
	}
	if grant {
		return m.plat.AddRole(ctx, member.ID, m.layout.BuyerRoleID)
	}
	return m.plat.RemoveRole(ctx, member.ID, m.layout.BuyerRoleID)
}

// Record is a stored ticket with its author id parsed from the key.
type Record struct {
	Author model.Snowflake `json:"-"`
	model.Ticket
}

// Records lists the ticket records in st, oldest first. Undecodable
// entries are skipped.
func Records(st store.Interface) []Record {
	var out []Record
	for _, k := range st.Keys() {
		if !strings.HasPrefix(k, model.TicketKeyPrefix) {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(k, model.TicketKeyPrefix), 10, 64)
		if err != nil {
			continue
		}
		var t model.Ticket
		if ok, err := st.Lookup(k, &t); !ok || err != nil {
			continue
		}
		out = append(out, Record{Author: model.Snowflake(id), Ticket: t})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OpenTime < out[j].OpenTime })
	return out
}
