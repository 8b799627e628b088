package models

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks if the reply meets all validation requirements
func (r *AdminReply) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid reply: %w", err)
	}

	if r.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (r *AdminReply) BeforeCreate() {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}
