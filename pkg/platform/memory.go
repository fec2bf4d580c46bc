package platform

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/supportdesk/ticketbot/pkg/model"
)

// Sent records one outgoing message.
type Sent struct {
	ChannelID model.Snowflake // zero for direct messages
	MemberID  model.Snowflake // zero for channel messages
	Out       model.Outgoing
}

// Deletion records one channel deletion.
type Deletion struct {
	Channel model.Channel
	Reason  string
}

// Guild is an in-memory Platform. Safe for concurrent use.
type Guild struct {
	mu sync.Mutex

	id        model.Snowflake
	name      string
	self      model.Member
	everyone  model.Snowflake
	roles     map[model.Snowflake]model.Role
	members   map[model.Snowflake]model.Member
	channels  map[model.Snowflake]model.Channel
	order     []model.Snowflake // channel creation order
	grants    map[model.Snowflake][]Grant
	dmBlocked map[model.Snowflake]bool
	nextID    model.Snowflake

	sent      []Sent
	deletions []Deletion

	// OnSend, when set, is called for every message sent. Used by the
	// console driver to print replies.
	OnSend func(Sent)
}

// NewGuild creates an empty guild. The bot's own member is added to the
// member list.
func NewGuild(id model.Snowflake, name string, self model.Member) *Guild {
	g := &Guild{
		id:        id,
		name:      name,
		self:      self,
		everyone:  id, // the default role shares the guild id
		roles:     map[model.Snowflake]model.Role{},
		members:   map[model.Snowflake]model.Member{},
		channels:  map[model.Snowflake]model.Channel{},
		grants:    map[model.Snowflake][]Grant{},
		dmBlocked: map[model.Snowflake]bool{},
		nextID:    900000000000000000,
	}
	g.members[self.ID] = self
	g.roles[g.everyone] = model.Role{ID: g.everyone, Name: "@everyone"}
	return g
}

// AddRoleDef defines a role.
func (g *Guild) AddRoleDef(r model.Role) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roles[r.ID] = r
}

// AddMember adds or replaces a member.
func (g *Guild) AddMember(m model.Member) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.members[m.ID] = m
}

// AddChannel adds or replaces a channel or category.
func (g *Guild) AddChannel(c model.Channel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.channels[c.ID]; !ok {
		g.order = append(g.order, c.ID)
	}
	g.channels[c.ID] = c
}

// BlockDirect makes SendDirect to memberID fail with ErrForbidden.
func (g *Guild) BlockDirect(memberID model.Snowflake) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dmBlocked[memberID] = true
}

// GuildID implements Directory.
func (g *Guild) GuildID() model.Snowflake { return g.id }

// GuildName implements Directory.
func (g *Guild) GuildName() string { return g.name }

// Self implements Directory.
func (g *Guild) Self() model.Member { return g.self }

// EveryoneRoleID implements Directory.
func (g *Guild) EveryoneRoleID() model.Snowflake { return g.everyone }

// Role implements Directory.
func (g *Guild) Role(id model.Snowflake) (model.Role, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.roles[id]
	return r, ok
}

// Channel implements Directory.
func (g *Guild) Channel(id model.Snowflake) (model.Channel, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.channels[id]
	return c, ok
}

// ChannelNamed implements Directory.
func (g *Guild) ChannelNamed(name string) (model.Channel, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range g.order {
		if c, ok := g.channels[id]; ok && c.Name == name {
			return c, true
		}
	}
	return model.Channel{}, false
}

// Member implements Directory.
func (g *Guild) Member(id model.Snowflake) (model.Member, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.members[id]
	return m, ok
}

// MemberNamed implements Directory. Matches "name#discriminator" exactly,
// or a bare name when it is unambiguous.
func (g *Guild) MemberNamed(name string) (model.Member, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var bare []model.Member
	for _, m := range g.members {
		if m.Tag() == name {
			return m, true
		}
		if !strings.Contains(name, "#") && m.Name == name {
			bare = append(bare, m)
		}
	}
	if len(bare) == 1 {
		return bare[0], true
	}
	return model.Member{}, false
}

// AddRole implements Directory.
func (g *Guild) AddRole(_ context.Context, memberID, roleID model.Snowflake) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.members[memberID]
	if !ok {
		return ErrUnknownMember
	}
	for _, r := range m.Roles {
		if r == roleID {
			return nil
		}
	}
	m.Roles = append(append([]model.Snowflake{}, m.Roles...), roleID)
	g.members[memberID] = m
	return nil
}

// RemoveRole implements Directory.
func (g *Guild) RemoveRole(_ context.Context, memberID, roleID model.Snowflake) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.members[memberID]
	if !ok {
		return ErrUnknownMember
	}
	kept := make([]model.Snowflake, 0, len(m.Roles))
	for _, r := range m.Roles {
		if r != roleID {
			kept = append(kept, r)
		}
	}
	m.Roles = kept
	g.members[memberID] = m
	return nil
}

// Send implements Messenger.
func (g *Guild) Send(_ context.Context, channelID model.Snowflake, out model.Outgoing) error {
	g.mu.Lock()
	if _, ok := g.channels[channelID]; !ok {
		g.mu.Unlock()
		return fmt.Errorf("send to %s: %w", channelID, ErrUnknownChannel)
	}
	s := Sent{ChannelID: channelID, Out: out}
	g.sent = append(g.sent, s)
	hook := g.OnSend
	g.mu.Unlock()
	if hook != nil {
		hook(s)
	}
	return nil
}

// SendDirect implements Messenger.
func (g *Guild) SendDirect(_ context.Context, memberID model.Snowflake, out model.Outgoing) error {
	g.mu.Lock()
	if _, ok := g.members[memberID]; !ok {
		g.mu.Unlock()
		return ErrUnknownMember
	}
	if g.dmBlocked[memberID] {
		g.mu.Unlock()
		return ErrForbidden
	}
	s := Sent{MemberID: memberID, Out: out}
	g.sent = append(g.sent, s)
	hook := g.OnSend
	g.mu.Unlock()
	if hook != nil {
		hook(s)
	}
	return nil
}

// CreatePrivateChannel implements Messenger.
func (g *Guild) CreatePrivateChannel(_ context.Context, spec ChannelSpec) (model.Channel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if spec.CategoryID != 0 {
		if cat, ok := g.channels[spec.CategoryID]; !ok || cat.Kind != model.ChannelCategory {
			return model.Channel{}, fmt.Errorf("category %s: %w", spec.CategoryID, ErrUnknownChannel)
		}
	}
	g.nextID++
	c := model.Channel{ID: g.nextID, Name: spec.Name, Kind: model.ChannelText, CategoryID: spec.CategoryID}
	g.channels[c.ID] = c
	g.order = append(g.order, c.ID)
	g.grants[c.ID] = append([]Grant(nil), spec.Grants...)
	return c, nil
}

// DeleteChannel implements Messenger.
func (g *Guild) DeleteChannel(_ context.Context, channelID model.Snowflake, auditReason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.channels[channelID]
	if !ok {
		return fmt.Errorf("delete %s: %w", channelID, ErrUnknownChannel)
	}
	delete(g.channels, channelID)
	delete(g.grants, channelID)
	g.deletions = append(g.deletions, Deletion{Channel: c, Reason: auditReason})
	return nil
}

// Grants returns the permission overwrites of a created channel.
func (g *Guild) Grants(channelID model.Snowflake) []Grant {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Grant(nil), g.grants[channelID]...)
}

// Sent returns every message sent so far.
func (g *Guild) Sent() []Sent {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Sent(nil), g.sent...)
}

// SentTo returns the messages sent to one channel.
func (g *Guild) SentTo(channelID model.Snowflake) []model.Outgoing {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []model.Outgoing
	for _, s := range g.sent {
		if s.ChannelID == channelID && s.MemberID == 0 {
			out = append(out, s.Out)
		}
	}
	return out
}

// DirectTo returns the direct messages delivered to one member.
func (g *Guild) DirectTo(memberID model.Snowflake) []model.Outgoing {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []model.Outgoing
	for _, s := range g.sent {
		if s.MemberID == memberID {
			out = append(out, s.Out)
		}
	}
	return out
}

// Deletions returns every channel deletion so far.
func (g *Guild) Deletions() []Deletion {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Deletion(nil), g.deletions...)
}

// Channels returns all channels sorted by id.
func (g *Guild) Channels() []model.Channel {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]model.Channel, 0, len(g.channels))
	for _, c := range g.channels {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Fixture is the YAML layout of a guild for the console driver.
type Fixture struct {
	ID       model.Snowflake `yaml:"id"`
	Name     string          `yaml:"name"`
	Self     model.Member    `yaml:"self"`
	Roles    []model.Role    `yaml:"roles"`
	Members  []model.Member  `yaml:"members"`
	Channels []model.Channel `yaml:"channels"`
	// NoDirect lists members that refuse direct messages.
	NoDirect []model.Snowflake `yaml:"no_direct"`
}

// LoadFixture builds a Guild from a YAML fixture file.
func LoadFixture(path string) (*Guild, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guild fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse guild fixture: %w", err)
	}
	return f.Build(), nil
}

// Build creates the Guild described by f.
func (f Fixture) Build() *Guild {
	self := f.Self
	self.Bot = true
	g := NewGuild(f.ID, f.Name, self)
	for _, r := range f.Roles {
		g.AddRoleDef(r)
	}
	for _, m := range f.Members {
		g.AddMember(m)
	}
	for _, c := range f.Channels {
		if c.Kind == "" {
			c.Kind = model.ChannelText
		}
		g.AddChannel(c)
	}
	for _, id := range f.NoDirect {
		g.BlockDirect(id)
	}
	return g
}

var _ Platform = (*Guild)(nil)
