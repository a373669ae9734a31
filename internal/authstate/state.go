// Package authstate tracks one visitor's authentication status.
//
// Reduce is the only function that produces a new State. A Store owns the
// current State for one visitor and applies events to it; Actions couples
// session-client calls to the Pending/Fulfilled/Rejected events.
package authstate

import (
	"account_portal/internal/domain"
)

// State is replaced wholesale on every transition.
type State struct {
	Status          domain.SessionStatus `json:"status"`
	Message         string               `json:"message"`
	IsAuthenticated bool                 `json:"isAuthenticated"`
	User            *domain.UserProfile  `json:"user"`
}

// Initial is {Idle, "", false, nil}.
func Initial() State {
	return State{Status: domain.StatusIdle}
}

// Operation names one session-client call tracked by the store.
type Operation string

const (
	OpSignUp               Operation = "signUp"
	OpConfirmSignUp        Operation = "confirmSignUp"
	OpResendSignUp         Operation = "resendSignUp"
	OpSignIn               Operation = "signIn"
	OpForgotPassword       Operation = "forgotPassword"
	OpResendForgotPassword Operation = "resendForgotPassword"
	OpResetPassword        Operation = "resetPassword"
	OpCompleteNewPassword  Operation = "completeNewPassword"
	OpSignOut              Operation = "signOut"
	OpFetchSession         Operation = "fetchSession"
)

// authenticates reports whether a fulfilled op carries the signed-in user.
func (op Operation) authenticates() bool {
	return op == OpSignIn || op == OpFetchSession || op == OpCompleteNewPassword
}

// EventKind distinguishes async lifecycle events from explicit resets.
type EventKind int

const (
	EventPending EventKind = iota
	EventFulfilled
	EventRejected
	EventResetState
	EventResetStatus
	EventResetErrors
)

func (k EventKind) String() string {
	switch k {
	case EventPending:
		return "pending"
	case EventFulfilled:
		return "fulfilled"
	case EventRejected:
		return "rejected"
	case EventResetState:
		return "resetState"
	case EventResetStatus:
		return "resetStatus"
	case EventResetErrors:
		return "resetErrors"
	default:
		return "unknown"
	}
}

// Event is one input to Reduce.
type Event struct {
	Kind    EventKind
	Op      Operation
	User    *domain.UserProfile
	Message string
}

func Pending(op Operation) Event { return Event{Kind: EventPending, Op: op} }

func Fulfilled(op Operation, user *domain.UserProfile) Event {
	return Event{Kind: EventFulfilled, Op: op, User: user}
}

// Rejected records err's provider message.
func Rejected(op Operation, err error) Event {
	return Event{Kind: EventRejected, Op: op, Message: domain.ErrorMessage(err)}
}

func ResetState() Event  { return Event{Kind: EventResetState} }
func ResetStatus() Event { return Event{Kind: EventResetStatus} }
func ResetErrors() Event { return Event{Kind: EventResetErrors} }

// Reduce returns the state that follows s after e. It never mutates s.
func Reduce(s State, e Event) State {
	switch e.Kind {
	case EventPending:
		s.Status = domain.StatusLoading
		return s

	case EventRejected:
		s.Status = domain.StatusFailed
		s.Message = e.Message
		return s

	case EventFulfilled:
		return fulfil(s, e)

	case EventResetState:
		return Initial()

	case EventResetStatus:
		s.Status = domain.StatusIdle
		return s

	case EventResetErrors:
		s.Status = domain.StatusIdle
		s.Message = ""
		return s
	}
	return s
}

func fulfil(s State, e Event) State {
	switch {
	case e.Op.authenticates():
		if e.User == nil {
			// isAuthenticated must never be set without a user
			s.Status = domain.StatusFailed
			s.Message = "No user information was returned."
			return s
		}
		s.Status = domain.StatusSucceeded
		s.IsAuthenticated = true
		s.User = e.User
		return s

	case e.Op == OpSignOut:
		return Initial()

	case e.Op == OpForgotPassword:
		next := Initial()
		next.Status = domain.StatusSucceeded
		return next

	case e.Op == OpResendForgotPassword:
		return Initial()

	case e.Op == OpResendSignUp:
		s.Status = domain.StatusIdle
		return s

	default:
		s.Status = domain.StatusSucceeded
		return s
	}
}
