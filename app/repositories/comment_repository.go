package repositories

import (
	"context"
	"errors"
	"fmt"

	"folio/app/models"

	"github.com/dgraph-io/badger/v4"
)

// AddComment appends a comment to a project's thread. The creation time and
// id are assigned here, so insertion order is display order.
func (r *Repository) AddComment(ctx context.Context, projectID int, author, content string) (*models.Comment, error) {
	if projectID <= 0 {
		return nil, ErrNotFound
	}
	comment := &models.Comment{
		ProjectID: projectID,
		Author:    author,
		Content:   content,
	}
	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	id, err := r.nextID(CommentSeqKey)
	if err != nil {
		return nil, err
	}
	comment.ID = id

	err = r.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(projectKey(projectID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := setEntity(txn, commentKey(projectID, id), comment); err != nil {
			return err
		}
		if err := setInt(txn, commentRefKey(id), projectID); err != nil {
			return err
		}
		return touchThread(txn, projectID, 1, 0)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComment retrieves a comment by ID
func (r *Repository) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	err := r.view(ctx, func(txn *badger.Txn) error {
		projectID, err := getInt(txn, commentRefKey(id))
		if err != nil {
			return err
		}
		return getEntity(txn, commentKey(projectID, id), &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments retrieves the comments of a project in insertion order. A
// project without comments yields an empty slice; a missing project is
// ErrNotFound.
func (r *Repository) ListComments(ctx context.Context, projectID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.view(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(projectKey(projectID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return eachEntity(txn, commentPrefix(projectID), func(c *models.Comment) {
			comments = append(comments, c)
		})
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}
