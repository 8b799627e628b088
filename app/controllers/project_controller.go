package controllers

import (
	"net/http"

	"folio/app/services"
	"folio/app/session"
)

// ProjectController handles HTTP requests for projects
type ProjectController struct {
	base
}

// NewProjectController creates a new ProjectController
func NewProjectController(service *services.ModerationService, sessions *session.Store) *ProjectController {
	return &ProjectController{base{service: service, sessions: sessions}}
}

// Index handles listing all projects
func (pc *ProjectController) Index(w http.ResponseWriter, r *http.Request) {
	projects, err := pc.service.ListProjects(r.Context())
	if err != nil {
		fail(w, err, nil)
		return
	}
	sendJSON(w, http.StatusOK, projects, nil)
}

// Show handles displaying a single project with its thread
func (pc *ProjectController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.badRequest(w, r, err)
		return
	}

	project, err := pc.service.GetProjectThread(r.Context(), id)
	if err != nil {
		fail(w, err, nil)
		return
	}
	sendJSON(w, http.StatusOK, project, nil)
}

type createProjectRequest struct {
	Title string `json:"title"`
}

// Create handles publishing a new project
func (pc *ProjectController) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pc.badRequest(w, r, err)
		return
	}

	caller, notes := pc.caller(r)
	project, err := pc.service.PublishProject(r.Context(), caller, req.Title)
	messages, _ := pc.finish(w, r, caller.Token, notes)
	if err != nil {
		fail(w, err, messages)
		return
	}
	sendJSON(w, http.StatusCreated, project, messages)
}

type editProjectRequest struct {
	Content string `json:"content"`
}

// Edit handles replacing a project's content
func (pc *ProjectController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.badRequest(w, r, err)
		return
	}
	var req editProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pc.badRequest(w, r, err)
		return
	}

	caller, notes := pc.caller(r)
	err = pc.service.EditProjectContent(r.Context(), caller, id, req.Content)
	messages, _ := pc.finish(w, r, caller.Token, notes)
	if err != nil {
		fail(w, err, messages)
		return
	}
	sendJSON(w, http.StatusOK, nil, messages)
}

// Delete handles deleting a project and its thread
func (pc *ProjectController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.badRequest(w, r, err)
		return
	}

	caller, notes := pc.caller(r)
	err = pc.service.DeleteProject(r.Context(), caller, id)
	messages, _ := pc.finish(w, r, caller.Token, notes)
	if err != nil {
		fail(w, err, messages)
		return
	}
	sendJSON(w, http.StatusOK, nil, messages)
}
