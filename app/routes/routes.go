// Package routes wires controllers and middleware onto a gorilla/mux router.
package routes

import (
	"net/http"

	"folio/app/controllers"
	"folio/app/middleware"
	"folio/app/services"
	"folio/app/session"

	"github.com/gorilla/mux"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Service  *services.ModerationService
	Sessions *session.Store
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Deps) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	projectController := controllers.NewProjectController(deps.Service, deps.Sessions)
	commentController := controllers.NewCommentController(deps.Service, deps.Sessions)
	authController := controllers.NewAuthController(deps.Service, deps.Sessions)

	adminOnly := middleware.RequireAdmin(authController.Identity, services.MsgLoginRequired)
	admin := func(h http.HandlerFunc) http.Handler {
		return adminOnly(h)
	}

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	// Projects
	projects := api.PathPrefix("/projects").Subrouter()
	projects.HandleFunc("", projectController.Index).Methods("GET")
	projects.HandleFunc("/{id:[0-9]+}", projectController.Show).Methods("GET")
	projects.Handle("", admin(projectController.Create)).Methods("POST")
	projects.Handle("/{id:[0-9]+}", admin(projectController.Edit)).Methods("PUT")
	projects.Handle("/{id:[0-9]+}", admin(projectController.Delete)).Methods("DELETE")

	// Comments and replies
	projects.HandleFunc("/{projectId:[0-9]+}/comments", commentController.Create).Methods("POST")
	api.Handle("/comments/{id:[0-9]+}/replies", admin(commentController.Reply)).Methods("POST")

	// Session
	api.HandleFunc("/login", authController.Login).Methods("POST")
	api.HandleFunc("/logout", authController.Logout).Methods("POST")
	api.HandleFunc("/session", authController.Session).Methods("GET")

	return router
}

// NewServer returns an http.Server for addr with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
