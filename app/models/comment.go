package models

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid comment: %w", err)
	}

	if c.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
}

// HasReply reports whether the administrator has answered this comment.
// Replies are never retracted, so once true it stays true.
func (c *Comment) HasReply() bool {
	return len(c.Replies) > 0
}
