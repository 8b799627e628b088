package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"folio/app/models"

	"github.com/dgraph-io/badger/v4"
)

// CreateProject stores a new project with empty content.
func (r *Repository) CreateProject(ctx context.Context, title string) (*models.Project, error) {
	project := &models.Project{Title: strings.TrimSpace(title)}
	project.BeforeCreate()
	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	id, err := r.nextID(ProjectSeqKey)
	if err != nil {
		return nil, err
	}
	project.ID = id

	err = r.update(ctx, func(txn *badger.Txn) error {
		if err := setEntity(txn, projectKey(id), project); err != nil {
			return err
		}
		return setEntity(txn, threadKey(id), threadStats{})
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// GetProject retrieves a project without its comments.
func (r *Repository) GetProject(ctx context.Context, id int) (*models.Project, error) {
	var project models.Project
	err := r.view(ctx, func(txn *badger.Txn) error {
		if err := getEntity(txn, projectKey(id), &project); err != nil {
			return err
		}
		stats, err := readThread(txn, id)
		if err != nil {
			return err
		}
		project.CommentCount = stats.Comments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProjectThread retrieves a project with its comments and each comment's
// replies, all read from one snapshot.
func (r *Repository) GetProjectThread(ctx context.Context, id int) (*models.Project, error) {
	var project models.Project
	err := r.view(ctx, func(txn *badger.Txn) error {
		if err := getEntity(txn, projectKey(id), &project); err != nil {
			return err
		}

		project.Comments = []*models.Comment{}
		if err := eachEntity(txn, commentPrefix(id), func(c *models.Comment) {
			project.Comments = append(project.Comments, c)
		}); err != nil {
			return err
		}
		for _, c := range project.Comments {
			c.Replies = []*models.AdminReply{}
			if err := eachEntity(txn, replyPrefix(c.ID), func(reply *models.AdminReply) {
				c.Replies = append(c.Replies, reply)
			}); err != nil {
				return err
			}
			c.Answered = c.HasReply()
		}
		project.CommentCount = len(project.Comments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects retrieves every project in creation order.
func (r *Repository) ListProjects(ctx context.Context) ([]*models.Project, error) {
	projects := []*models.Project{}
	err := r.view(ctx, func(txn *badger.Txn) error {
		if err := eachEntity(txn, []byte(ProjectKeyPrefix), func(p *models.Project) {
			projects = append(projects, p)
		}); err != nil {
			return err
		}
		for _, p := range projects {
			stats, err := readThread(txn, p.ID)
			if err != nil {
				return err
			}
			p.CommentCount = stats.Comments
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateProjectContent replaces the rendered body of a project.
func (r *Repository) UpdateProjectContent(ctx context.Context, id int, content string) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		var project models.Project
		if err := getEntity(txn, projectKey(id), &project); err != nil {
			return err
		}
		project.Content = content
		return setEntity(txn, projectKey(id), &project)
	})
}

// DeleteProject removes a project, its comments and their replies in a
// single transaction.
func (r *Repository) DeleteProject(ctx context.Context, id int) error {
	return r.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(projectKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		// Registers the thread row in this transaction's read set.
		if _, err := readThread(txn, id); err != nil {
			return err
		}

		var doomed [][]byte
		for _, key := range listKeys(txn, commentPrefix(id)) {
			commentID, err := trailingID(key)
			if err != nil {
				return err
			}
			doomed = append(doomed, key, commentRefKey(commentID))
			doomed = append(doomed, listKeys(txn, replyPrefix(commentID))...)
		}
		doomed = append(doomed, threadKey(id), projectKey(id))

		for _, key := range doomed {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// trailingID parses the id after the last ':' of a key.
func trailingID(key []byte) (int, error) {
	s := string(key)
	id, err := strconv.Atoi(s[strings.LastIndexByte(s, ':')+1:])
	if err != nil {
		return 0, fmt.Errorf("malformed key %q: %w", s, err)
	}
	return id, nil
}
