// Package config loads ticketbot's static guild layout.
//
// The layout names the guild the bot serves and the ids of the channels,
// category and roles it works with. It is read once at startup from a
// YAML file named by the --config flag or TICKETBOT_CONFIG. Settings that
// change at runtime (prefix, accepting tickets, colors) are not here;
// they live in the durable store (package settings).
//
// A zero id means "not configured".
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/supportdesk/ticketbot/pkg/model"
	"github.com/supportdesk/ticketbot/pkg/roles"
)

// Config is the static layout.
type Config struct {
	GuildID                  model.Snowflake `yaml:"guild_id"`
	TicketCategoryID         model.Snowflake `yaml:"ticket_category_id"`
	LogChannelID             model.Snowflake `yaml:"log_channel_id"`
	TroubleshootingChannelID model.Snowflake `yaml:"troubleshooting_channel_id"`
	BuyerRoleID              model.Snowflake `yaml:"buyer_role_id"`

	RoleGroups RoleGroups `yaml:"role_groups"`
}

// RoleGroups lists role ids per named group. AllStaff defaults to the
// union of the other three when left empty.
type RoleGroups struct {
	Support    []model.Snowflake `yaml:"support"`
	Moderators []model.Snowflake `yaml:"moderators"`
	Admin      []model.Snowflake `yaml:"admin"`
	AllStaff   []model.Snowflake `yaml:"all_staff"`
}

// Registry builds the named role groups.
func (c *Config) Registry() *roles.Registry {
	rg := c.RoleGroups
	return roles.Standard(rg.Support, rg.Moderators, rg.Admin, rg.AllStaff)
}

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML layout. Unknown fields are rejected so typos in
// id names do not silently leave a feature unconfigured.
func Parse(b []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the layout for values the bot cannot run with.
func (c *Config) Validate() error {
	if c.GuildID == 0 {
		return fmt.Errorf("config: guild_id is required")
	}
	for name, ids := range map[string][]model.Snowflake{
		"support":    c.RoleGroups.Support,
		"moderators": c.RoleGroups.Moderators,
		"admin":      c.RoleGroups.Admin,
		"all_staff":  c.RoleGroups.AllStaff,
	} {
		for _, id := range ids {
			if id == roles.Everyone {
				return fmt.Errorf("config: role_groups.%s: role id 0 is reserved for everyone", name)
			}
		}
	}
	return nil
}

// EnvOr returns the environment variable key, or def when unset or empty.
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
