package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProjectValidation(t *testing.T) {
	tests := []struct {
		name    string
		project *Project
		wantErr bool
	}{
		{
			name:    "valid project with empty content",
			project: &Project{ID: 1, Title: "Algorithm", CreatedAt: time.Now()},
			wantErr: false,
		},
		{
			name:    "empty title",
			project: &Project{ID: 1, Title: "", CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "title too long",
			project: &Project{ID: 1, Title: strings.Repeat("t", 101), CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "zero creation time",
			project: &Project{ID: 1, Title: "Algorithm"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProjectBeforeCreate(t *testing.T) {
	project := &Project{Title: "Algorithm"}

	assert.True(t, project.CreatedAt.IsZero())
	project.BeforeCreate()
	assert.False(t, project.CreatedAt.IsZero())
}

func TestReplyValidation(t *testing.T) {
	reply := &AdminReply{CommentID: 3, Content: "Thanks for reading"}
	assert.Error(t, reply.Validate())

	reply.BeforeCreate()
	assert.NoError(t, reply.Validate())

	reply.CommentID = 0
	assert.Error(t, reply.Validate())
}

func TestAdministratorValidation(t *testing.T) {
	admin := &Administrator{Username: "admin", PasswordHash: "$2a$10$hash"}
	assert.NoError(t, admin.Validate())
	assert.Equal(t, "admin", admin.DisplayName())

	admin.Name = "Site Owner"
	assert.Equal(t, "Site Owner", admin.DisplayName())

	admin.PasswordHash = ""
	assert.Error(t, admin.Validate())
}
