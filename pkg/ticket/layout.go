package ticket

import (
	"log/slog"

	"github.com/supportdesk/ticketbot/pkg/config"
	"github.com/supportdesk/ticketbot/pkg/model"
	"github.com/supportdesk/ticketbot/pkg/platform"
)

// Layout is the configured guild layout after checking it against the
// directory. A zero id means the feature is unconfigured.
type Layout struct {
	CategoryID        model.Snowflake
	LogChannelID      model.Snowflake
	TroubleshootingID model.Snowflake
	BuyerRoleID       model.Snowflake

	// Roles granted participant access to every ticket channel.
	SupportRoles   []model.Snowflake
	ModeratorRoles []model.Snowflake
}

// ResolveLayout keeps the configured ids that exist in dir. Ids that do
// not are logged and dropped.
func ResolveLayout(cfg *config.Config, dir platform.Directory, logger *slog.Logger) Layout {
	if logger == nil {
		logger = slog.Default()
	}
	var l Layout

	if id := cfg.TicketCategoryID; id != 0 {
		if c, ok := dir.Channel(id); ok && c.Kind == model.ChannelCategory {
			l.CategoryID = id
		} else {
			logger.Warn("ticket category not found", "id", id)
		}
	}
	if id := cfg.LogChannelID; id != 0 {
		if _, ok := dir.Channel(id); ok {
			l.LogChannelID = id
		} else {
			logger.Warn("log channel not found", "id", id)
		}
	}
	if id := cfg.TroubleshootingChannelID; id != 0 {
		if _, ok := dir.Channel(id); ok {
			l.TroubleshootingID = id
		} else {
			logger.Warn("troubleshooting channel not found", "id", id)
		}
	}
	if id := cfg.BuyerRoleID; id != 0 {
		if _, ok := dir.Role(id); ok {
			l.BuyerRoleID = id
		} else {
			logger.Warn("buyer role not found", "id", id)
		}
	}

	l.SupportRoles = knownRoles(dir, cfg.RoleGroups.Support, "support", logger)
	l.ModeratorRoles = knownRoles(dir, cfg.RoleGroups.Moderators, "moderators", logger)
	return l
}

func knownRoles(dir platform.Directory, ids []model.Snowflake, group string, logger *slog.Logger) []model.Snowflake {
	var out []model.Snowflake
	for _, id := range ids {
		if _, ok := dir.Role(id); !ok {
			logger.Warn("invalid role id in role group", "group", group, "id", id)
			continue
		}
		out = append(out, id)
	}
	return out
}
