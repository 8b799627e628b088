package services

import (
	"context"
	"errors"
	"strings"

	"folio/app/auth"
	"folio/app/filter"
	"folio/app/logging"
	"folio/app/models"
	"folio/app/repositories"
)

// ErrTitleRequired rejects a project published without a title.
var ErrTitleRequired = errors.New("title is required")

// ModerationService handles business logic for projects, comments and
// replies. Administrator-only actions check the caller's session before
// touching anything else, so a refused call changes no state.
type ModerationService struct {
	content  repositories.ContentRepository
	sessions *auth.SessionManager
	filter   *filter.Filter
	renderer Renderer
}

// NewModerationService creates a new ModerationService
func NewModerationService(content repositories.ContentRepository, sessions *auth.SessionManager, f *filter.Filter, renderer Renderer) *ModerationService {
	return &ModerationService{
		content:  content,
		sessions: sessions,
		filter:   f,
		renderer: renderer,
	}
}

// fail posts the message for err and hands err back.
func (s *ModerationService) fail(caller Caller, err error) error {
	caller.notify(Message(err))
	return err
}

func (s *ModerationService) requireAdmin(caller Caller) (int, error) {
	return s.sessions.RequireAuthenticated(caller.Token)
}

// Login authenticates the caller and returns the new session token.
func (s *ModerationService) Login(ctx context.Context, caller Caller, username, password string) (auth.Token, error) {
	token, err := s.sessions.Login(ctx, username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			logging.Errorf("login: %v", err)
		}
		return "", s.fail(caller, err)
	}
	caller.notify(MsgLoginSuccess)
	return token, nil
}

// Logout ends the caller's session. It never fails.
func (s *ModerationService) Logout(caller Caller) {
	s.sessions.Logout(caller.Token)
	caller.notify(MsgGoodbye)
}

// Identity reports which administrator, if any, the caller is.
func (s *ModerationService) Identity(caller Caller) (int, bool) {
	return s.sessions.CurrentIdentity(caller.Token)
}

// PublishProject creates a project with empty content.
func (s *ModerationService) PublishProject(ctx context.Context, caller Caller, title string) (*models.Project, error) {
	adminID, err := s.requireAdmin(caller)
	if err != nil {
		return nil, s.fail(caller, err)
	}
	if strings.TrimSpace(title) == "" {
		return nil, s.fail(caller, ErrTitleRequired)
	}

	project, err := s.content.CreateProject(ctx, title)
	if err != nil {
		return nil, s.fail(caller, err)
	}
	logging.With("admin", adminID, "project", project.ID).Info("project published")
	caller.notify(MsgAdded)
	return project, nil
}

// EditProjectContent renders raw and stores it as the project's body.
func (s *ModerationService) EditProjectContent(ctx context.Context, caller Caller, id int, raw string) error {
	if _, err := s.requireAdmin(caller); err != nil {
		return s.fail(caller, err)
	}

	rendered, err := s.renderer.Render(raw)
	if err != nil {
		return s.fail(caller, err)
	}
	if err := s.content.UpdateProjectContent(ctx, id, rendered); err != nil {
		return s.fail(caller, err)
	}
	caller.notify(MsgUpdated)
	return nil
}

// DeleteProject removes a project together with its comments and replies.
func (s *ModerationService) DeleteProject(ctx context.Context, caller Caller, id int) error {
	adminID, err := s.requireAdmin(caller)
	if err != nil {
		return s.fail(caller, err)
	}

	if err := s.content.DeleteProject(ctx, id); err != nil {
		return s.fail(caller, err)
	}
	logging.With("admin", adminID, "project", id).Info("project deleted")
	caller.notify(MsgDeleted)
	return nil
}

// PostComment files a visitor comment. Anyone may comment; the filter
// decides before anything is stored.
func (s *ModerationService) PostComment(ctx context.Context, caller Caller, projectID int, author, content string) (*models.Comment, error) {
	verdict := s.filter.Check(author, content)
	if !verdict.Accepted {
		logging.Debugf("comment on project %d rejected: %v", projectID, verdict.Err())
		return nil, s.fail(caller, verdict.Err())
	}

	comment, err := s.content.AddComment(ctx, projectID, strings.TrimSpace(author), verdict.Content)
	if err != nil {
		return nil, s.fail(caller, err)
	}
	caller.notify(MsgAdded)
	return comment, nil
}

// PostAdminReply answers a comment.
func (s *ModerationService) PostAdminReply(ctx context.Context, caller Caller, commentID int, content string) (*models.AdminReply, error) {
	if _, err := s.requireAdmin(caller); err != nil {
		return nil, s.fail(caller, err)
	}

	reply, err := s.content.AddAdminReply(ctx, commentID, content)
	if err != nil {
		return nil, s.fail(caller, err)
	}
	caller.notify(MsgReplyAdded)
	return reply, nil
}

// ListProjects retrieves every project in publication order.
func (s *ModerationService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.content.ListProjects(ctx)
}

// GetProjectThread retrieves a project with its comments and their replies.
func (s *ModerationService) GetProjectThread(ctx context.Context, id int) (*models.Project, error) {
	return s.content.GetProjectThread(ctx, id)
}
