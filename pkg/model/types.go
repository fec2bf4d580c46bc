// Package model defines the core domain types for ticketbot.
//
// Ticketbot runs a support desk inside a chat guild. Members open
// "tickets" with a command; each ticket is a private channel named after
// the member's numeric id plus a record in the durable store. Staff close
// the ticket from inside that channel, which removes both.
//
// Identifiers are platform snowflakes: unsigned integers rendered in
// decimal. Role id 0 is reserved as the "everyone" wildcard in role
// groups and is never a real role.
package model

import (
	"strconv"
	"time"
)

// Snowflake is a platform identifier for a guild, member, role or channel.
type Snowflake uint64

// String renders the id in decimal, the form used for channel names and
// store keys.
func (s Snowflake) String() string { return strconv.FormatUint(uint64(s), 10) }

// ParseSnowflake parses a decimal id.
func ParseSnowflake(s string) (Snowflake, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Snowflake(v), nil
}

// Member is a guild member as seen by the bot.
type Member struct {
	ID            Snowflake   `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	Discriminator string      `json:"discriminator" yaml:"discriminator"`
	Roles         []Snowflake `json:"roles,omitempty" yaml:"roles"`
	Bot           bool        `json:"bot,omitempty" yaml:"bot"`
}

// Mention returns the platform mention token for the member.
func (m Member) Mention() string { return "<@" + m.ID.String() + ">" }

// Tag returns "name#discriminator".
func (m Member) Tag() string { return m.Name + "#" + m.Discriminator }

// DisplayName is the "mention (name#discriminator)" form stored on
// tickets and shown in log summaries.
func (m Member) DisplayName() string { return m.Mention() + " (" + m.Tag() + ")" }

// ChannelKind distinguishes where a message was sent.
type ChannelKind string

const (
	ChannelText     ChannelKind = "text"
	ChannelDirect   ChannelKind = "direct"
	ChannelVoice    ChannelKind = "voice"
	ChannelCategory ChannelKind = "category"
)

// Channel is a guild channel or category. CategoryID is zero for
// channels that are not under a category.
type Channel struct {
	ID         Snowflake   `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Kind       ChannelKind `json:"kind" yaml:"kind"`
	CategoryID Snowflake   `json:"category_id,omitempty" yaml:"category_id"`
}

// Mention returns the platform mention token for the channel.
func (c Channel) Mention() string { return "<#" + c.ID.String() + ">" }

// Role is a guild role.
type Role struct {
	ID   Snowflake `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
}

// Message is one inbound chat message.
type Message struct {
	GuildID Snowflake `json:"guild_id"`
	Author  Member    `json:"author"`
	Channel Channel   `json:"channel"`
	Content string    `json:"content"`
}

// Embed is a titled, colored reply block.
type Embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

// Outgoing is a reply: plain text, an embed, or both.
type Outgoing struct {
	Text  string `json:"text,omitempty"`
	Embed *Embed `json:"embed,omitempty"`
}

// Ticket is the stored record for an open ticket. The JSON layout is the
// persisted wire format under the key TicketKey(AuthorID).
type Ticket struct {
	OpenTime   int64  `json:"open_time"`
	IsOpen     bool   `json:"is_open"`
	Reason     string `json:"reason"`
	AuthorName string `json:"author_name"`
	AuthorID   string `json:"author_id"`
}

// OpenedAt returns the open time as a time.Time.
func (t Ticket) OpenedAt() time.Time { return time.Unix(t.OpenTime, 0) }

// TicketKeyPrefix is the store key prefix for ticket records.
const TicketKeyPrefix = "ticket_"

// TicketKey returns the store key for an author's ticket record.
func TicketKey(authorID Snowflake) string { return TicketKeyPrefix + authorID.String() }
