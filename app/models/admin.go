package models

import "fmt"

// Validate checks the administrator record before it is stored.
func (a *Administrator) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("invalid administrator: %w", err)
	}
	return nil
}

// DisplayName falls back to the username when no name was provided.
func (a *Administrator) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Username
}
