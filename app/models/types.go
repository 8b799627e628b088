package models

import "time"

// Administrator is the single account allowed to publish and moderate.
type Administrator struct {
	ID           int    `json:"id" validate:"gte=0"`
	Name         string `json:"name" validate:"max=60"`
	Username     string `json:"username" validate:"required,min=1,max=40"`
	PasswordHash string `json:"password_hash" validate:"required"`
}

// Project is a published article with its comment thread.
type Project struct {
	ID           int        `json:"id" validate:"gte=0"`
	Title        string     `json:"title" validate:"required,min=1,max=100"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"created_at" validate:"required"`
	CommentCount int        `json:"comment_count"`
	Comments     []*Comment `json:"comments,omitempty" validate:"-"`
}

// Comment is a visitor message attached to a project.
type Comment struct {
	ID        int           `json:"id" validate:"gte=0"`
	ProjectID int           `json:"project_id" validate:"required,gt=0"`
	Author    string        `json:"author" validate:"required,min=1,max=50"`
	Content   string        `json:"content" validate:"required,min=1,max=500"`
	CreatedAt time.Time     `json:"created_at" validate:"required"`
	Replies   []*AdminReply `json:"replies,omitempty" validate:"-"`
	// Answered is filled in thread views only.
	Answered bool `json:"answered" validate:"-"`
}

// AdminReply is the administrator's answer to a single comment.
type AdminReply struct {
	ID        int       `json:"id" validate:"gte=0"`
	CommentID int       `json:"comment_id" validate:"required,gt=0"`
	Content   string    `json:"content" validate:"required,min=1"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
}
