package controllers

import (
	"net/http"

	"folio/app/logging"
	"folio/app/services"
	"folio/app/session"
)

// AuthController handles login, logout and session inspection
type AuthController struct {
	base
}

// NewAuthController creates a new AuthController
func NewAuthController(service *services.ModerationService, sessions *session.Store) *AuthController {
	return &AuthController{base{service: service, sessions: sessions}}
}

const msgSessionFailed = "could not start session"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type identityResponse struct {
	Authenticated bool `json:"authenticated"`
	AdminID       int  `json:"admin_id,omitempty"`
}

// Login verifies credentials and binds a new session to the cookie
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ac.badRequest(w, r, err)
		return
	}

	caller, notes := ac.caller(r)
	token, err := ac.service.Login(r.Context(), caller, req.Username, req.Password)
	if err != nil {
		// A failed attempt leaves any previous session as it was.
		messages, _ := ac.finish(w, r, caller.Token, notes)
		fail(w, err, messages)
		return
	}

	messages, err := ac.finish(w, r, token, notes)
	if err != nil {
		// The client never received the token, so nobody may hold it.
		ac.service.Logout(services.Caller{Token: token})
		sendError(w, http.StatusInternalServerError, msgSessionFailed, []string{msgSessionFailed})
		return
	}
	if caller.Token != "" && caller.Token != token {
		ac.service.Logout(services.Caller{Token: caller.Token})
	}

	id, _ := ac.service.Identity(services.Caller{Token: token})
	sendJSON(w, http.StatusOK, identityResponse{Authenticated: true, AdminID: id}, messages)
}

// Logout ends the session. It succeeds for anonymous callers too.
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	caller, notes := ac.caller(r)
	ac.service.Logout(caller)
	messages, _ := ac.finish(w, r, "", notes)
	sendJSON(w, http.StatusOK, identityResponse{}, messages)
}

// Session reports the current identity and drains pending flash messages
func (ac *AuthController) Session(w http.ResponseWriter, r *http.Request) {
	id, ok := ac.Identity(r)
	flashes, err := ac.sessions.Flashes(w, r)
	if err != nil {
		logging.Warnf("drain flashes: %v", err)
	}
	sendJSON(w, http.StatusOK, identityResponse{Authenticated: ok, AdminID: id}, flashes)
}
