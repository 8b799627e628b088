// Package auth verifies the administrator's credentials and tracks which
// callers hold an authenticated session.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"folio/app/models"
	"folio/app/repositories"
)

// CredentialStore owns the administrator's password hash. Cleartext
// passwords are never stored or compared.
type CredentialStore struct {
	admins repositories.AdminRepository
	hasher Hasher

	dummyOnce sync.Once
	dummyHash string
}

// NewCredentialStore creates a CredentialStore over the given admin storage.
func NewCredentialStore(admins repositories.AdminRepository, hasher Hasher) *CredentialStore {
	return &CredentialStore{admins: admins, hasher: hasher}
}

// Authenticate returns the administrator whose username and password match.
// The username must match exactly. Unknown usernames still pay for one hash
// comparison so the two failure cases cannot be told apart by timing.
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (*models.Administrator, error) {
	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		s.hasher.Compare(s.dummy(), password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load administrator: %w", err)
	}

	nameOK := subtle.ConstantTimeCompare([]byte(admin.Username), []byte(username)) == 1
	passOK := s.hasher.Compare(admin.PasswordHash, password)
	if !nameOK || !passOK {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// Verify reports whether the attempt matches. The error is non-nil only when
// the store itself failed.
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (bool, error) {
	_, err := s.Authenticate(ctx, username, password)
	if errors.Is(err, ErrInvalidCredentials) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetPassword replaces the administrator's hash unconditionally.
func (s *CredentialStore) SetPassword(ctx context.Context, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	admin, err := s.admins.FirstAdmin(ctx)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	return s.admins.UpdateAdmin(ctx, admin)
}

// SetName changes the administrator's display name.
func (s *CredentialStore) SetName(ctx context.Context, name string) error {
	admin, err := s.admins.FirstAdmin(ctx)
	if err != nil {
		return err
	}
	admin.Name = strings.TrimSpace(name)
	return s.admins.UpdateAdmin(ctx, admin)
}

// Provision creates the administrator, or rewrites the existing one with the
// given username, name and password.
func (s *CredentialStore) Provision(ctx context.Context, username, name, password string) (*models.Administrator, bool, error) {
	if password == "" {
		return nil, false, ErrEmptyPassword
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, err
	}

	admin, err := s.admins.FirstAdmin(ctx)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		admin = &models.Administrator{
			Username:     strings.TrimSpace(username),
			Name:         strings.TrimSpace(name),
			PasswordHash: hash,
		}
		if err := s.admins.CreateAdmin(ctx, admin); err != nil {
			return nil, false, err
		}
		return admin, true, nil
	case err != nil:
		return nil, false, err
	}

	admin.Username = strings.TrimSpace(username)
	admin.Name = strings.TrimSpace(name)
	admin.PasswordHash = hash
	if err := s.admins.UpdateAdmin(ctx, admin); err != nil {
		return nil, false, err
	}
	return admin, false, nil
}

func (s *CredentialStore) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("folio-timing-placeholder")
	})
	return s.dummyHash
}
