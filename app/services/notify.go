package services

import (
	"errors"
	"sync"

	"folio/app/auth"
	"folio/app/filter"
	"folio/app/repositories"
)

// Outcome messages posted to the caller's notification channel.
const (
	MsgAdded         = "Add successfully."
	MsgUpdated       = "updated successfully"
	MsgDeleted       = "deleted."
	MsgReplyAdded    = "Reply added."
	MsgLoginSuccess  = "Login success."
	MsgGoodbye       = "Goodbye."
	MsgInvalidLogin  = "Invalid username or password."
	MsgNotFound      = "not found"
	MsgLoginRequired = "login required"
	MsgStorageBusy   = "storage busy, try again"
	MsgConflict      = "already exists"
)

// Notifier receives human-readable outcomes, flash style.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Notifications collects messages in order. The zero value is ready to use.
type Notifications struct {
	mu       sync.Mutex
	messages []string
}

func (n *Notifications) Notify(message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

// Messages returns a copy of everything posted so far.
func (n *Notifications) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// Last returns the most recent message, or "" when there is none.
func (n *Notifications) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

// Caller is the explicit identity of whoever invokes a workflow action.
// The zero Caller is anonymous and discards notifications.
type Caller struct {
	Token  auth.Token
	Notify Notifier
}

func (c Caller) notify(message string) {
	if c.Notify != nil && message != "" {
		c.Notify.Notify(message)
	}
}

// Message turns a workflow error into the text shown to the caller.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, auth.ErrUnauthorized):
		return MsgLoginRequired
	case errors.Is(err, auth.ErrInvalidCredentials):
		return MsgInvalidLogin
	case errors.Is(err, filter.ErrMissingField):
		return filter.ErrMissingField.Error()
	case errors.Is(err, filter.ErrTooLong):
		return filter.ErrTooLong.Error()
	case errors.Is(err, filter.ErrMaliciousContent):
		return filter.ErrMaliciousContent.Error()
	case errors.Is(err, ErrTitleRequired):
		return ErrTitleRequired.Error()
	case errors.Is(err, repositories.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, repositories.ErrTimeout):
		return MsgStorageBusy
	case errors.Is(err, repositories.ErrConflict):
		return MsgConflict
	default:
		return err.Error()
	}
}
