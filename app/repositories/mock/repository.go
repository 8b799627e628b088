package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"folio/app/models"
	"folio/app/repositories"
)

// ContentRepository is an in-memory repositories.ContentRepository.
type ContentRepository struct {
	projects map[int]*models.Project
	comments map[int]*models.Comment
	replies  map[int]*models.AdminReply
	nextID   int
	failWith error
	mutex    sync.RWMutex
}

// AdminRepository is an in-memory repositories.AdminRepository.
type AdminRepository struct {
	admins map[int]*models.Administrator
	nextID int
	mutex  sync.RWMutex
}

var (
	_ repositories.ContentRepository = (*ContentRepository)(nil)
	_ repositories.AdminRepository   = (*AdminRepository)(nil)
)

func NewContentRepository() *ContentRepository {
	return &ContentRepository{
		projects: make(map[int]*models.Project),
		comments: make(map[int]*models.Comment),
		replies:  make(map[int]*models.AdminReply),
		nextID:   1,
	}
}

// FailWrites makes every following write return err. Pass nil to recover.
func (m *ContentRepository) FailWrites(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failWith = err
}

func (m *ContentRepository) allocate() int {
	id := m.nextID
	m.nextID++
	return id
}

// ProjectRepository implementation
func (m *ContentRepository) CreateProject(ctx context.Context, title string) (*models.Project, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}
	project := &models.Project{Title: strings.TrimSpace(title)}
	project.BeforeCreate()
	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrInvalid, err)
	}
	project.ID = m.allocate()
	m.projects[project.ID] = project
	return copyProject(project), nil
}

func (m *ContentRepository) GetProject(ctx context.Context, id int) (*models.Project, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	project, exists := m.projects[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	p := copyProject(project)
	p.CommentCount = len(m.commentsOf(id))
	return p, nil
}

func (m *ContentRepository) GetProjectThread(ctx context.Context, id int) (*models.Project, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	project, exists := m.projects[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	p := copyProject(project)
	p.Comments = m.commentsOf(id)
	for _, c := range p.Comments {
		c.Replies = m.repliesOf(c.ID)
		c.Answered = c.HasReply()
	}
	p.CommentCount = len(p.Comments)
	return p, nil
}

func (m *ContentRepository) ListProjects(ctx context.Context) ([]*models.Project, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	projects := []*models.Project{}
	for id := 1; id < m.nextID; id++ {
		if project, exists := m.projects[id]; exists {
			p := copyProject(project)
			p.CommentCount = len(m.commentsOf(id))
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (m *ContentRepository) UpdateProjectContent(ctx context.Context, id int, content string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	project, exists := m.projects[id]
	if !exists {
		return repositories.ErrNotFound
	}
	project.Content = content
	return nil
}

func (m *ContentRepository) DeleteProject(ctx context.Context, id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	if _, exists := m.projects[id]; !exists {
		return repositories.ErrNotFound
	}
	for _, c := range m.commentsOf(id) {
		for _, r := range m.repliesOf(c.ID) {
			delete(m.replies, r.ID)
		}
		delete(m.comments, c.ID)
	}
	delete(m.projects, id)
	return nil
}

// CommentRepository implementation
func (m *ContentRepository) AddComment(ctx context.Context, projectID int, author, content string) (*models.Comment, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}
	if _, exists := m.projects[projectID]; !exists {
		return nil, repositories.ErrNotFound
	}
	comment := &models.Comment{ProjectID: projectID, Author: author, Content: content}
	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrInvalid, err)
	}
	comment.ID = m.allocate()
	m.comments[comment.ID] = comment
	c := *comment
	return &c, nil
}

func (m *ContentRepository) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	c := *comment
	return &c, nil
}

func (m *ContentRepository) ListComments(ctx context.Context, projectID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if _, exists := m.projects[projectID]; !exists {
		return nil, repositories.ErrNotFound
	}
	return m.commentsOf(projectID), nil
}

// ReplyRepository implementation
func (m *ContentRepository) AddAdminReply(ctx context.Context, commentID int, content string) (*models.AdminReply, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}
	if _, exists := m.comments[commentID]; !exists {
		return nil, repositories.ErrNotFound
	}
	reply := &models.AdminReply{CommentID: commentID, Content: content}
	reply.BeforeCreate()
	if err := reply.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrInvalid, err)
	}
	reply.ID = m.allocate()
	m.replies[reply.ID] = reply
	r := *reply
	return &r, nil
}

func (m *ContentRepository) ListReplies(ctx context.Context, commentID int) ([]*models.AdminReply, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if _, exists := m.comments[commentID]; !exists {
		return nil, repositories.ErrNotFound
	}
	return m.repliesOf(commentID), nil
}

// commentsOf returns copies of a project's comments ordered by id.
// Callers hold the mutex.
func (m *ContentRepository) commentsOf(projectID int) []*models.Comment {
	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.ProjectID == projectID {
			c := *comment
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments
}

func (m *ContentRepository) repliesOf(commentID int) []*models.AdminReply {
	replies := []*models.AdminReply{}
	for _, reply := range m.replies {
		if reply.CommentID == commentID {
			r := *reply
			replies = append(replies, &r)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].ID < replies[j].ID })
	return replies
}

func copyProject(p *models.Project) *models.Project {
	c := *p
	c.Comments = nil
	return &c
}

func NewAdminRepository() *AdminRepository {
	return &AdminRepository{
		admins: make(map[int]*models.Administrator),
		nextID: 1,
	}
}

// AdminRepository implementation
func (m *AdminRepository) CreateAdmin(ctx context.Context, admin *models.Administrator) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	admin.Username = strings.TrimSpace(admin.Username)
	if err := admin.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repositories.ErrInvalid, err)
	}
	if m.byUsername(admin.Username) != nil {
		return repositories.ErrConflict
	}
	admin.ID = m.nextID
	m.nextID++
	stored := *admin
	m.admins[admin.ID] = &stored
	return nil
}

func (m *AdminRepository) GetAdmin(ctx context.Context, id int) (*models.Administrator, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	admin, exists := m.admins[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	a := *admin
	return &a, nil
}

func (m *AdminRepository) GetAdminByUsername(ctx context.Context, username string) (*models.Administrator, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	admin := m.byUsername(username)
	if admin == nil {
		return nil, repositories.ErrNotFound
	}
	a := *admin
	return &a, nil
}

func (m *AdminRepository) FirstAdmin(ctx context.Context) (*models.Administrator, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for id := 1; id < m.nextID; id++ {
		if admin, exists := m.admins[id]; exists {
			a := *admin
			return &a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *AdminRepository) UpdateAdmin(ctx context.Context, admin *models.Administrator) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := admin.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repositories.ErrInvalid, err)
	}
	if _, exists := m.admins[admin.ID]; !exists {
		return repositories.ErrNotFound
	}
	if other := m.byUsername(admin.Username); other != nil && other.ID != admin.ID {
		return repositories.ErrConflict
	}
	stored := *admin
	m.admins[admin.ID] = &stored
	return nil
}

func (m *AdminRepository) byUsername(username string) *models.Administrator {
	for _, admin := range m.admins {
		if strings.EqualFold(admin.Username, username) {
			return admin
		}
	}
	return nil
}
