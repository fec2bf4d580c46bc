// Package settings holds the runtime-mutable bot settings that live in
// the durable store: the command prefix, whether new tickets are
// accepted, and the two reply colors.
package settings

import (
	"fmt"

	"github.com/supportdesk/ticketbot/pkg/model"
	"github.com/supportdesk/ticketbot/pkg/store"
)

// Store keys.
const (
	KeyPrefix           = "prefix"
	KeyAcceptingTickets = "is_accepting_tickets"
	KeyEmbedColor       = "embed_color"
	KeyErrorColor       = "error_color"
)

// Defaults applied when a key is absent.
const (
	DefaultPrefix     = "!"
	DefaultEmbedColor = 0x7289DA
	DefaultErrorColor = 0xE74C3C
)

// Settings is the explicit configuration object handed to the router and
// the ticket manager.
type Settings struct {
	Prefix           *store.Property[string]
	AcceptingTickets *store.Property[bool]
	EmbedColor       *store.Property[int]
	ErrorColor       *store.Property[int]
}

// Load binds every setting to st, writing defaults for absent keys.
func Load(st store.Interface) (*Settings, error) {
	var (
		s   Settings
		err error
	)
	if s.Prefix, err = store.NewProperty(st, KeyPrefix, DefaultPrefix); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if s.AcceptingTickets, err = store.NewProperty(st, KeyAcceptingTickets, false); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if s.EmbedColor, err = store.NewProperty(st, KeyEmbedColor, DefaultEmbedColor); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if s.ErrorColor, err = store.NewProperty(st, KeyErrorColor, DefaultErrorColor); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return &s, nil
}

// ErrorTitle is the title of error replies.
const ErrorTitle = "Could Not Complete"

// Embed builds a reply in the embed color.
func (s *Settings) Embed(title, description string) *model.Embed {
	return &model.Embed{Title: title, Description: description, Color: s.EmbedColor.Get()}
}

// ErrorEmbed builds an error reply in the error color.
func (s *Settings) ErrorEmbed(description string) *model.Embed {
	return s.TitledErrorEmbed(ErrorTitle, description)
}

// TitledErrorEmbed is ErrorEmbed with a custom title.
func (s *Settings) TitledErrorEmbed(title, description string) *model.Embed {
	return &model.Embed{Title: title, Description: description, Color: s.ErrorColor.Get()}
}
