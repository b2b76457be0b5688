package modal

import (
	"errors"
	"fmt"
)

// Reason identifies why a transition was refused
type Reason string

const (
	ReasonBusy           Reason = "busy"
	ReasonAlreadyOpen    Reason = "already-open"
	ReasonNotOpen        Reason = "not-open"
	ReasonVetoed         Reason = "vetoed"
	ReasonHandoffRefused Reason = "handoff-refused"
	ReasonDestroyed      Reason = "destroyed"
)

// Sentinel errors matched by errors.Is against a *TransitionError
var (
	ErrBusy           = errors.New("panel is busy")
	ErrAlreadyOpen    = errors.New("panel is already open")
	ErrNotOpen        = errors.New("panel is not open")
	ErrVetoed         = errors.New("transition vetoed by listener")
	ErrHandoffRefused = errors.New("active panel refused handoff")
	ErrDestroyed      = errors.New("panel is destroyed")
	ErrUnknownPanel   = errors.New("unknown panel")
)

var reasonErrors = map[Reason]error{
	ReasonBusy:           ErrBusy,
	ReasonAlreadyOpen:    ErrAlreadyOpen,
	ReasonNotOpen:        ErrNotOpen,
	ReasonVetoed:         ErrVetoed,
	ReasonHandoffRefused: ErrHandoffRefused,
	ReasonDestroyed:      ErrDestroyed,
}

// TransitionError represents a refused open or close
type TransitionError struct {
	PanelID string
	From    State
	To      State
	Reason  Reason
	// Related is the panel involved in a handoff, if any
	Related string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("cannot transition %s from %s to %s: %s", e.PanelID, e.From, e.To, e.Reason)
	if e.Related != "" {
		msg += " (related " + e.Related + ")"
	}
	return msg
}

// Unwrap maps the reason to its sentinel error
func (e *TransitionError) Unwrap() error {
	return reasonErrors[e.Reason]
}

// OptionError is returned when an option value has the wrong type or the key is unknown
type OptionError struct {
	Key   OptionKey
	Value any
	Want  string
}

func (e *OptionError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("unknown option %q", e.Key)
	}
	return fmt.Sprintf("option %q: got %T, want %s", e.Key, e.Value, e.Want)
}
