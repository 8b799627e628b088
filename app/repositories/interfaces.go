package repositories

import (
	"context"

	"folio/app/models"
)

// ProjectRepository defines the interface for project data access.
// Authorization is the caller's job; nothing here checks who is asking.
type ProjectRepository interface {
	CreateProject(ctx context.Context, title string) (*models.Project, error)
	GetProject(ctx context.Context, id int) (*models.Project, error)
	GetProjectThread(ctx context.Context, id int) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	UpdateProjectContent(ctx context.Context, id int, content string) error
	DeleteProject(ctx context.Context, id int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	AddComment(ctx context.Context, projectID int, author, content string) (*models.Comment, error)
	GetComment(ctx context.Context, id int) (*models.Comment, error)
	ListComments(ctx context.Context, projectID int) ([]*models.Comment, error)
}

// ReplyRepository defines the interface for admin reply data access
type ReplyRepository interface {
	AddAdminReply(ctx context.Context, commentID int, content string) (*models.AdminReply, error)
	ListReplies(ctx context.Context, commentID int) ([]*models.AdminReply, error)
}

// ContentRepository is everything the moderation workflow persists.
type ContentRepository interface {
	ProjectRepository
	CommentRepository
	ReplyRepository
}

// AdminRepository stores administrator accounts.
type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *models.Administrator) error
	GetAdmin(ctx context.Context, id int) (*models.Administrator, error)
	GetAdminByUsername(ctx context.Context, username string) (*models.Administrator, error)
	FirstAdmin(ctx context.Context) (*models.Administrator, error)
	UpdateAdmin(ctx context.Context, admin *models.Administrator) error
}
