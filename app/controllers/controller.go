// Package controllers adapts the moderation workflow to JSON over HTTP.
package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"folio/app/auth"
	"folio/app/filter"
	"folio/app/logging"
	"folio/app/repositories"
	"folio/app/services"
	"folio/app/session"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// msgBadRequest is the notification for a body or path that cannot be read.
const msgBadRequest = "invalid request"

// envelope is the shape of every JSON response.
type envelope struct {
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
	Messages []string    `json:"messages"`
}

// base holds what every controller needs.
type base struct {
	service  *services.ModerationService
	sessions *session.Store
}

// caller builds the workflow caller for r. Notifications are collected and
// flushed by finish.
func (b base) caller(r *http.Request) (services.Caller, *services.Notifications) {
	notes := &services.Notifications{}
	return services.Caller{Token: b.sessions.Token(r), Notify: notes}, notes
}

// finish persists token and the collected notifications in the session
// cookie and returns the messages for the response body. A cookie that
// cannot be written is logged; callers that depend on the token check err.
func (b base) finish(w http.ResponseWriter, r *http.Request, token auth.Token, notes *services.Notifications) ([]string, error) {
	messages := notes.Messages()
	err := b.sessions.Save(w, r, token, messages)
	if err != nil {
		logging.Warnf("save session: %v", err)
	}
	return messages, err
}

// Identity reports the administrator behind r. Used by the admin guard.
func (b base) Identity(r *http.Request) (int, bool) {
	return b.service.Identity(services.Caller{Token: b.sessions.Token(r)})
}

func sendJSON(w http.ResponseWriter, status int, data interface{}, messages []string) {
	if messages == nil {
		messages = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data, Messages: messages}); err != nil {
		logging.Warnf("encode response: %v", err)
	}
}

func sendError(w http.ResponseWriter, status int, message string, messages []string) {
	if messages == nil {
		messages = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Error: message, Messages: messages}); err != nil {
		logging.Warnf("encode response: %v", err)
	}
}

// statusFor maps workflow errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, filter.ErrMissingField),
		errors.Is(err, filter.ErrTooLong),
		errors.Is(err, filter.ErrMaliciousContent),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, repositories.ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, repositories.ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail answers with the status and message for err.
func fail(w http.ResponseWriter, err error, messages []string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Errorf("request failed: %v", err)
	}
	sendError(w, status, services.Message(err), messages)
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, mux.Vars(r)[name])
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// badRequest answers a request whose path or body could not be read.
func (b base) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	notes := &services.Notifications{}
	notes.Notify(msgBadRequest)
	messages, _ := b.finish(w, r, b.sessions.Token(r), notes)
	sendError(w, http.StatusBadRequest, err.Error(), messages)
}
