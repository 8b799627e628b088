package controllers

import (
	"net/http"

	"folio/app/services"
	"folio/app/session"
)

// CommentController handles HTTP requests for comments and admin replies
type CommentController struct {
	base
}

// NewCommentController creates a new CommentController
func NewCommentController(service *services.ModerationService, sessions *session.Store) *CommentController {
	return &CommentController{base{service: service, sessions: sessions}}
}

type createCommentRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Create handles posting a visitor comment. No login is needed.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		cc.badRequest(w, r, err)
		return
	}
	var req createCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		cc.badRequest(w, r, err)
		return
	}

	caller, notes := cc.caller(r)
	comment, err := cc.service.PostComment(r.Context(), caller, projectID, req.Author, req.Content)
	messages, _ := cc.finish(w, r, caller.Token, notes)
	if err != nil {
		fail(w, err, messages)
		return
	}
	sendJSON(w, http.StatusCreated, comment, messages)
}

type createReplyRequest struct {
	Content string `json:"content"`
}

// Reply handles the administrator answering a comment
func (cc *CommentController) Reply(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "id")
	if err != nil {
		cc.badRequest(w, r, err)
		return
	}
	var req createReplyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		cc.badRequest(w, r, err)
		return
	}

	caller, notes := cc.caller(r)
	reply, err := cc.service.PostAdminReply(r.Context(), caller, commentID, req.Content)
	messages, _ := cc.finish(w, r, caller.Token, notes)
	if err != nil {
		fail(w, err, messages)
		return
	}
	sendJSON(w, http.StatusCreated, reply, messages)
}
