// Package platform describes what ticketbot needs from the chat platform:
// a Messenger to send and manage channels, and a Directory to resolve
// configured ids and members. The bot core depends only on these
// interfaces. Guild (memory.go) is an in-memory implementation used by
// the console driver and the tests.
package platform

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/supportdesk/ticketbot/pkg/model"
)

// ErrForbidden is returned when the platform refuses an action, most
// commonly a direct message to a member who has them disabled.
var ErrForbidden = errors.New("platform: forbidden")

// ErrUnknownChannel is returned for operations on a channel that does
// not exist.
var ErrUnknownChannel = errors.New("platform: unknown channel")

// ErrUnknownMember is returned for operations on a member that does not
// exist.
var ErrUnknownMember = errors.New("platform: unknown member")

// Permission is a bit set of channel permissions.
type Permission uint32

const (
	PermReadMessages Permission = 1 << iota
	PermSendMessages
	PermReadHistory
	PermAttachFiles
	PermEmbedLinks
	PermMentionEveryone
	PermExternalEmojis
	PermAddReactions
)

// Participant is what every ticket participant is granted.
const Participant = PermReadMessages | PermSendMessages | PermReadHistory |
	PermAttachFiles | PermEmbedLinks | PermMentionEveryone |
	PermExternalEmojis | PermAddReactions

// TargetKind says whether a grant applies to a member or a role.
type TargetKind string

const (
	TargetMember TargetKind = "member"
	TargetRole   TargetKind = "role"
)

// Grant is one permission overwrite on a channel.
type Grant struct {
	Kind  TargetKind
	ID    model.Snowflake
	Allow Permission
	Deny  Permission
}

// ChannelSpec describes a channel to create.
type ChannelSpec struct {
	Name       string
	CategoryID model.Snowflake
	Grants     []Grant
}

// Messenger sends messages and manages channels.
type Messenger interface {
	Send(ctx context.Context, channelID model.Snowflake, out model.Outgoing) error
	CreatePrivateChannel(ctx context.Context, spec ChannelSpec) (model.Channel, error)
	DeleteChannel(ctx context.Context, channelID model.Snowflake, auditReason string) error
	// SendDirect returns ErrForbidden when the member does not accept
	// direct messages.
	SendDirect(ctx context.Context, memberID model.Snowflake, out model.Outgoing) error
}

// Directory resolves guild objects.
type Directory interface {
	GuildID() model.Snowflake
	GuildName() string
	// Self is the bot's own member.
	Self() model.Member
	// EveryoneRoleID is the guild's default role.
	EveryoneRoleID() model.Snowflake

	Role(id model.Snowflake) (model.Role, bool)
	Channel(id model.Snowflake) (model.Channel, bool)
	// ChannelNamed returns the first channel with exactly this name.
	ChannelNamed(name string) (model.Channel, bool)
	Member(id model.Snowflake) (model.Member, bool)
	// MemberNamed finds a member by "name#discriminator" or bare name.
	MemberNamed(name string) (model.Member, bool)

	AddRole(ctx context.Context, memberID, roleID model.Snowflake) error
	RemoveRole(ctx context.Context, memberID, roleID model.Snowflake) error
}

// Platform is both halves.
type Platform interface {
	Messenger
	Directory
}

var mentionRe = regexp.MustCompile(`\A<@!?(\d{8,32})>\z`)

// ResolveMember turns a mention or a name#discriminator token into a
// member. A well-formed mention for an unknown id falls back to a name
// lookup of the raw token.
func ResolveMember(dir Directory, token string) (model.Member, bool) {
	token = strings.TrimSpace(token)
	if m := mentionRe.FindStringSubmatch(token); m != nil {
		if id, err := model.ParseSnowflake(m[1]); err == nil {
			if member, ok := dir.Member(id); ok {
				return member, true
			}
		}
	}
	return dir.MemberNamed(token)
}
