package repositories

import (
	"context"
	"fmt"

	"folio/app/models"

	"github.com/dgraph-io/badger/v4"
)

// AddAdminReply attaches a reply to an existing comment.
func (r *Repository) AddAdminReply(ctx context.Context, commentID int, content string) (*models.AdminReply, error) {
	if commentID <= 0 {
		return nil, ErrNotFound
	}
	reply := &models.AdminReply{
		CommentID: commentID,
		Content:   content,
	}
	reply.BeforeCreate()
	if err := reply.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	id, err := r.nextID(ReplySeqKey)
	if err != nil {
		return nil, err
	}
	reply.ID = id

	err = r.update(ctx, func(txn *badger.Txn) error {
		projectID, err := getInt(txn, commentRefKey(commentID))
		if err != nil {
			return err
		}
		if _, err := txn.Get(commentKey(projectID, commentID)); err != nil {
			return fmt.Errorf("comment %d is indexed but missing: %w", commentID, err)
		}

		if err := setEntity(txn, replyKey(commentID, id), reply); err != nil {
			return err
		}
		return touchThread(txn, projectID, 0, 1)
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// ListReplies retrieves the replies to a comment in insertion order.
func (r *Repository) ListReplies(ctx context.Context, commentID int) ([]*models.AdminReply, error) {
	replies := []*models.AdminReply{}
	err := r.view(ctx, func(txn *badger.Txn) error {
		if _, err := getInt(txn, commentRefKey(commentID)); err != nil {
			return err
		}
		return eachEntity(txn, replyPrefix(commentID), func(reply *models.AdminReply) {
			replies = append(replies, reply)
		})
	})
	if err != nil {
		return nil, err
	}
	return replies, nil
}
