package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name: "valid comment",
			comment: &Comment{
				ID:        1,
				ProjectID: 1,
				Author:    "Ann",
				Content:   "This is a valid comment",
				CreatedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "author too long",
			comment: &Comment{
				ID:        1,
				ProjectID: 1,
				Author:    strings.Repeat("a", 51),
				Content:   "This is a valid comment",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "empty content",
			comment: &Comment{
				ID:        1,
				ProjectID: 1,
				Author:    "Ann",
				Content:   "",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "content at the 500 character bound",
			comment: &Comment{
				ID:        1,
				ProjectID: 1,
				Author:    "Ann",
				Content:   strings.Repeat("é", 500),
				CreatedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "content over the bound",
			comment: &Comment{
				ID:        1,
				ProjectID: 1,
				Author:    "Ann",
				Content:   strings.Repeat("a", 501),
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "missing project",
			comment: &Comment{
				ID:        1,
				Author:    "Ann",
				Content:   "Valid content",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "zero creation time",
			comment: &Comment{
				ID:        1,
				ProjectID: 1,
				Author:    "Ann",
				Content:   "Valid content",
				CreatedAt: time.Time{},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentBeforeCreate(t *testing.T) {
	comment := &Comment{
		ID:        1,
		ProjectID: 1,
		Author:    "Ann",
		Content:   "Test Comment",
	}

	assert.True(t, comment.CreatedAt.IsZero())
	comment.BeforeCreate()
	assert.False(t, comment.CreatedAt.IsZero())
}

func TestCommentHasReply(t *testing.T) {
	comment := &Comment{ID: 1}
	assert.False(t, comment.HasReply())

	comment.Replies = append(comment.Replies, &AdminReply{ID: 1, CommentID: 1, Content: "thanks"})
	assert.True(t, comment.HasReply())
}
