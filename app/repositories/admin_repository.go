package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"folio/app/models"

	"github.com/dgraph-io/badger/v4"
)

// CreateAdmin stores a new administrator. Usernames are unique, compared
// case-insensitively; a duplicate is ErrConflict.
func (r *Repository) CreateAdmin(ctx context.Context, admin *models.Administrator) error {
	admin.Username = strings.TrimSpace(admin.Username)
	if err := admin.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	id, err := r.nextID(AdminSeqKey)
	if err != nil {
		return err
	}

	return r.update(ctx, func(txn *badger.Txn) error {
		if err := ensureUsernameFree(txn, admin.Username); err != nil {
			return err
		}
		admin.ID = id
		if err := setEntity(txn, adminKey(id), admin); err != nil {
			return err
		}
		return setInt(txn, adminLoginKey(admin.Username), id)
	})
}

// GetAdmin retrieves an administrator by ID
func (r *Repository) GetAdmin(ctx context.Context, id int) (*models.Administrator, error) {
	var admin models.Administrator
	err := r.view(ctx, func(txn *badger.Txn) error {
		return getEntity(txn, adminKey(id), &admin)
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetAdminByUsername retrieves an administrator by login name
func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (*models.Administrator, error) {
	var admin models.Administrator
	err := r.view(ctx, func(txn *badger.Txn) error {
		id, err := getInt(txn, adminLoginKey(username))
		if err != nil {
			return err
		}
		return getEntity(txn, adminKey(id), &admin)
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// FirstAdmin returns the administrator with the lowest id. The site runs
// with exactly one, so this is "the" administrator.
func (r *Repository) FirstAdmin(ctx context.Context) (*models.Administrator, error) {
	var first *models.Administrator
	err := r.view(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 1
		prefix := []byte(AdminKeyPrefix)
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(prefix)
		if !it.ValidForPrefix(prefix) {
			return ErrNotFound
		}
		first = &models.Administrator{}
		return it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, first)
		})
	})
	if err != nil {
		return nil, err
	}
	return first, nil
}

// UpdateAdmin rewrites an administrator, moving the username index when the
// username changes.
func (r *Repository) UpdateAdmin(ctx context.Context, admin *models.Administrator) error {
	admin.Username = strings.TrimSpace(admin.Username)
	if err := admin.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return r.update(ctx, func(txn *badger.Txn) error {
		var existing models.Administrator
		if err := getEntity(txn, adminKey(admin.ID), &existing); err != nil {
			return err
		}

		if !strings.EqualFold(existing.Username, admin.Username) {
			if err := ensureUsernameFree(txn, admin.Username); err != nil {
				return err
			}
			if err := txn.Delete(adminLoginKey(existing.Username)); err != nil {
				return err
			}
			if err := setInt(txn, adminLoginKey(admin.Username), admin.ID); err != nil {
				return err
			}
		}
		return setEntity(txn, adminKey(admin.ID), admin)
	})
}

func ensureUsernameFree(txn *badger.Txn, username string) error {
	_, err := txn.Get(adminLoginKey(username))
	switch {
	case err == nil:
		return fmt.Errorf("%w: username %q is taken", ErrConflict, username)
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil
	default:
		return err
	}
}
