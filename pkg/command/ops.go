package command

import "fmt"

// Op is a bound command: one of the concrete types below. The set is
// closed; dispatchers switch on the concrete type.
type Op interface {
	// Name is a stable identifier used in logs and metrics.
	Name() string
	isOp()
}

// Help asks for the command list.
type Help struct{}

// NewTicket opens a ticket for the sender.
type NewTicket struct{ Reason string }

// CloseTicket closes the ticket whose channel the command was sent in.
// Message is empty when no closing message was given.
type CloseTicket struct{ Message string }

// GetOpen reports whether new tickets are accepted.
type GetOpen struct{}

// GetPrefix reports the current prefix.
type GetPrefix struct{}

// SetOpen turns ticket intake on or off.
type SetOpen struct{ Open bool }

// NewTicketFor opens a ticket on behalf of another member, named by a
// mention or name#discriminator token.
type NewTicketFor struct {
	Member string
	Reason string
}

// SetBuyer grants or revokes the buyer role.
type SetBuyer struct {
	Member string
	Grant  bool
}

// SetPrefix changes the prefix.
type SetPrefix struct{ Prefix string }

func (Help) Name() string         { return "help" }
func (NewTicket) Name() string    { return "new" }
func (CloseTicket) Name() string  { return "close" }
func (GetOpen) Name() string      { return "getopen" }
func (GetPrefix) Name() string    { return "getprefix" }
func (SetOpen) Name() string      { return "setopen" }
func (NewTicketFor) Name() string { return "newfor" }
func (SetBuyer) Name() string     { return "buyer" }
func (SetPrefix) Name() string    { return "setprefix" }

func (Help) isOp()         {}
func (NewTicket) isOp()    {}
func (CloseTicket) isOp()  {}
func (GetOpen) isOp()      {}
func (GetPrefix) isOp()    {}
func (SetOpen) isOp()      {}
func (NewTicketFor) isOp() {}
func (SetBuyer) isOp()     {}
func (SetPrefix) isOp()    {}

// Binder turns a rule's captured groups into an Op.
type Binder func(args []string) (Op, error)

// ArityError reports a capture count a binder cannot accept. It means the
// rule's pattern and its binder disagree.
type ArityError struct {
	Op       string
	Got      int
	Min, Max int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("command %s: got %d argument(s), want %d..%d", e.Op, e.Got, e.Min, e.Max)
}

// bind wraps fn with an arity check. Missing optional arguments are
// passed as "".
func bind(name string, min, max int, fn func(a []string) Op) Binder {
	return func(args []string) (Op, error) {
		if len(args) < min || len(args) > max {
			return nil, &ArityError{Op: name, Got: len(args), Min: min, Max: max}
		}
		padded := make([]string, max)
		copy(padded, args)
		return fn(padded), nil
	}
}

func parseBool(s string) bool { return s == "true" }

var (
	bindHelp      = bind("help", 0, 0, func([]string) Op { return Help{} })
	bindNew       = bind("new", 1, 1, func(a []string) Op { return NewTicket{Reason: a[0]} })
	bindClose     = bind("close", 0, 1, func(a []string) Op { return CloseTicket{Message: a[0]} })
	bindGetOpen   = bind("getopen", 0, 0, func([]string) Op { return GetOpen{} })
	bindGetPrefix = bind("getprefix", 0, 0, func([]string) Op { return GetPrefix{} })
	bindSetOpen   = bind("setopen", 1, 1, func(a []string) Op { return SetOpen{Open: parseBool(a[0])} })
	bindNewFor    = bind("newfor", 1, 2, func(a []string) Op { return NewTicketFor{Member: a[0], Reason: a[1]} })
	bindBuyer     = bind("buyer", 1, 2, func(a []string) Op {
		return SetBuyer{Member: a[0], Grant: a[1] == "" || parseBool(a[1])}
	})
	bindSetPrefix = bind("setprefix", 1, 1, func(a []string) Op { return SetPrefix{Prefix: a[0]} })
)
