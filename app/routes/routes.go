package routes

import (
	"net/http"
	"time"

	"simplefeed/app/controllers"
	"simplefeed/app/flash"
	"simplefeed/app/middleware"
	"simplefeed/app/services"
	"simplefeed/app/views"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Deps is what the route table needs to build its controllers.
type Deps struct {
	Posts     *services.PostService
	Comments  *services.CommentService
	Flash     *flash.Store
	Templates views.Templates
	Logger    *zap.Logger
}

// registerResources mounts the post and comment routes on r. Fixed paths
// come before {id} so that "new" is not read as an id.
func registerResources(r *mux.Router, pc *controllers.PostController, cc *controllers.CommentController) {
	posts := r.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", pc.Index).Methods("GET")
	posts.HandleFunc("", pc.Create).Methods("POST")
	posts.HandleFunc("/new", pc.New).Methods("GET")
	posts.HandleFunc("/search/{keyword}", pc.Search).Methods("GET")
	posts.HandleFunc("/{id}", pc.Show).Methods("GET")
	posts.HandleFunc("/{id}/edit", pc.Edit).Methods("GET")
	posts.HandleFunc("/{id}", pc.Update).Methods("PUT", "PATCH")
	posts.HandleFunc("/{id}", pc.Delete).Methods("DELETE")

	posts.HandleFunc("/{post_id}/comments", cc.Index).Methods("GET")
	posts.HandleFunc("/{post_id}/comments", cc.Create).Methods("POST")
	posts.HandleFunc("/{post_id}/comments/{id}", cc.Delete).Methods("DELETE")
}

// SetupRoutes defines the application's routes and returns a router. Every
// resource route is served at the root, negotiated per request, and under
// /api, always as JSON.
func SetupRoutes(d Deps) *mux.Router {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	format := controllers.NewFormatter(d.Templates, d.Flash, logger)
	postController := controllers.NewPostController(d.Posts, format)
	commentController := controllers.NewCommentController(d.Comments, format)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(format.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(format.MethodNotAllowed)

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	api.NotFoundHandler = http.HandlerFunc(format.NotFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(format.MethodNotAllowed)
	registerResources(api, postController, commentController)

	// Web routes
	router.HandleFunc("/", postController.Index).Methods("GET")
	registerResources(router, postController, commentController)

	return router
}

// Handler wraps the router with the middleware that must run before route
// matching, plus request logging and panic recovery.
func Handler(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var h http.Handler = SetupRoutes(d)
	h = middleware.FormatSuffix(h)
	h = middleware.MethodOverride(h)
	h = middleware.Recoverer(logger)(h)
	h = middleware.Logger(logger)(h)
	return middleware.RequestID(h)
}

// NewServer returns an http.Server for handler on addr.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}
