package services

import (
	"errors"
	"fmt"
	"testing"

	"folio/app/auth"
	"folio/app/filter"
	"folio/app/repositories"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{auth.ErrUnauthorized, MsgLoginRequired},
		{auth.ErrInvalidCredentials, MsgInvalidLogin},
		{fmt.Errorf("%w: 501 characters, limit 500", filter.ErrTooLong), "content too long"},
		{filter.ErrMaliciousContent, "malicious content"},
		{filter.ErrMissingField, "author and content are required"},
		{fmt.Errorf("lookup: %w", repositories.ErrNotFound), MsgNotFound},
		{repositories.ErrTimeout, MsgStorageBusy},
		{repositories.ErrConflict, MsgConflict},
		{errors.New("disk on fire"), "disk on fire"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.err), "%v", tt.err)
	}
}

func TestNotifications(t *testing.T) {
	var notes Notifications
	assert.Empty(t, notes.Last())

	caller := Caller{Notify: &notes}
	caller.notify(MsgAdded)
	caller.notify("")
	caller.notify(MsgDeleted)
	assert.Equal(t, []string{MsgAdded, MsgDeleted}, notes.Messages())
	assert.Equal(t, MsgDeleted, notes.Last())

	var got []string
	fn := Caller{Notify: NotifierFunc(func(m string) { got = append(got, m) })}
	fn.notify(MsgGoodbye)
	assert.Equal(t, []string{MsgGoodbye}, got)

	// A caller without a notifier discards messages.
	Caller{}.notify(MsgAdded)
}
