// Package sendflow is the reducer-driven state machine sequencing a send
// attempt: entering → validating → valid, invalid or awaiting an explicit
// recipient confirmation.
//
// The reducer never calls the resolver. Callers await the resolver
// themselves and feed the outcome back as a DestinationResolved action,
// tagged with the sequence number of the validation request it answers;
// stale answers are dropped here so the newest request always wins.
package sendflow

import (
	"github.com/haljin/sendcore/internal/destination"
)

// DestinationState names the phase of the current send attempt.
type DestinationState string

const (
	StateEntering             DestinationState = "entering"
	StateValidating           DestinationState = "validating"
	StateValid                DestinationState = "valid"
	StateInvalid              DestinationState = "invalid"
	StateRequiresConfirmation DestinationState = "requires-confirmation"
)

// State is one send attempt. A fresh value is created per attempt and
// mutated only through Reduce.
type State struct {
	Unparsed         string
	DestinationState DestinationState

	// Destination is set in the valid, invalid and
	// requires-confirmation states.
	Destination destination.Destination

	// InvalidReason is preserved for display while invalid.
	InvalidReason destination.InvalidReason
	InvalidDetail string

	// RequestSeq identifies the validation request whose answer is
	// still welcome. Zero outside validating.
	RequestSeq uint64

	// ConfirmationHandle is the username awaiting explicit
	// acknowledgment in the requires-confirmation state.
	ConfirmationHandle string
}

// NewState returns the initial state of a send attempt.
func NewState() State {
	return State{DestinationState: StateEntering}
}

// Signal is an out-of-band outcome the caller must act on. Self-payment
// is a conversion, not a send: it redirects flow instead of settling into
// an invalid state.
type Signal string

const (
	SignalNone                Signal = ""
	SignalRedirectSelfPayment Signal = "redirect-self-payment"
)

// Action is one reducer input.
type Action interface{ isAction() }

// SetUnparsedDestination records a keystroke. It always re-enters the
// entering state and clears any prior validity.
type SetUnparsedDestination struct {
	Text string
}

// RequestValidation asks for the current text to be resolved. Seq must be
// a fresh monotonic value; RefDataLoaded guards the transition until the
// supporting reference data (wallets, network info, contacts) is in.
type RequestValidation struct {
	Seq           uint64
	RefDataLoaded bool
}

// DestinationResolved feeds a resolver outcome back in. KnownContact says
// whether an intraledger recipient is already among the user's contacts.
type DestinationResolved struct {
	Seq          uint64
	Destination  destination.Destination
	KnownContact bool
}

// ConfirmRecipient acknowledges an unfamiliar recipient.
type ConfirmRecipient struct{}

// Reset clears the attempt. Always permitted from any state.
type Reset struct{}

func (SetUnparsedDestination) isAction() {}
func (RequestValidation) isAction()      {}
func (DestinationResolved) isAction()    {}
func (ConfirmRecipient) isAction()       {}
func (Reset) isAction()                  {}

// Reduce applies one action. It is pure and never fails: illegal
// transitions are no-ops that preserve the current state.
func Reduce(s State, a Action) (State, Signal) {
	switch action := a.(type) {
	case Reset:
		return NewState(), SignalNone

	case SetUnparsedDestination:
		next := NewState()
		next.Unparsed = action.Text
		return next, SignalNone

	case RequestValidation:
		if !action.RefDataLoaded {
			return s, SignalNone
		}
		// A newer request while one is in flight supersedes it.
		if s.DestinationState != StateEntering && s.DestinationState != StateValidating {
			return s, SignalNone
		}
		next := s
		next.DestinationState = StateValidating
		next.RequestSeq = action.Seq
		next.Destination = nil
		next.InvalidReason = ""
		next.InvalidDetail = ""
		next.ConfirmationHandle = ""
		return next, SignalNone

	case DestinationResolved:
		if s.DestinationState != StateValidating || action.Seq != s.RequestSeq {
			return s, SignalNone // stale or unsolicited answer
		}
		return applyResolved(s, action)

	case ConfirmRecipient:
		if s.DestinationState != StateRequiresConfirmation {
			return s, SignalNone
		}
		next := s
		next.DestinationState = StateValid
		next.ConfirmationHandle = ""
		return next, SignalNone
	}
	return s, SignalNone
}

func applyResolved(s State, action DestinationResolved) (State, Signal) {
	next := s
	next.RequestSeq = 0

	switch dest := action.Destination.(type) {
	case destination.Invalid:
		if dest.Reason == destination.ReasonSelfPayment {
			// Self-payment redirects to the conversion flow; the
			// attempt itself starts over.
			return NewState(), SignalRedirectSelfPayment
		}
		next.DestinationState = StateInvalid
		next.Destination = dest
		next.InvalidReason = dest.Reason
		next.InvalidDetail = dest.Detail
		return next, SignalNone

	case destination.IntraledgerRecipient:
		next.Destination = dest
		if !action.KnownContact {
			next.DestinationState = StateRequiresConfirmation
			next.ConfirmationHandle = dest.Handle
			return next, SignalNone
		}
		next.DestinationState = StateValid
		return next, SignalNone

	default:
		next.DestinationState = StateValid
		next.Destination = action.Destination
		return next, SignalNone
	}
}
