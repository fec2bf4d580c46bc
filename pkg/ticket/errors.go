package ticket

import (
	"errors"

	"github.com/supportdesk/ticketbot/pkg/model"
)

// Rejections. UserMessage gives the text shown for each.
var (
	ErrNotAccepting   = errors.New("ticket: not accepting new tickets")
	ErrNoCategory     = errors.New("ticket: ticket category not configured")
	ErrNotInTicket    = errors.New("ticket: not inside an open ticket")
	ErrMemberNotFound = errors.New("ticket: member not found")
	ErrNoBuyerRole    = errors.New("ticket: buyer role not configured")
)

// AlreadyOpenError is returned when the author already has a ticket
// channel.
type AlreadyOpenError struct {
	Channel model.Channel
}

func (e *AlreadyOpenError) Error() string {
	return "ticket: already open in " + e.Channel.Name
}

var userMessages = map[error]string{
	ErrNotAccepting:   "Sorry, we are not currently accepting new tickets.",
	ErrNoCategory:     "Sorry, the command could not be completed because a ticket channel category has not been configured by the owner.",
	ErrNotInTicket:    "That command can only be used inside an open ticket.",
	ErrMemberNotFound: "That member could not be found.",
	ErrNoBuyerRole:    "Could not complete because the buyer role has not been configured.",
}

// UserMessage returns the reply text for a rejection, or false for
// errors that are not rejections.
func UserMessage(err error) (string, bool) {
	var open *AlreadyOpenError
	if errors.As(err, &open) {
		return "You already have a ticket open in " + open.Channel.Mention() + "!", true
	}
	for sentinel, msg := range userMessages {
		if errors.Is(err, sentinel) {
			return msg, true
		}
	}
	return "", false
}
