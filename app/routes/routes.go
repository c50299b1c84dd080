package routes

import (
	"net/http"

	"dentalrcm/app/controllers"
	"dentalrcm/app/middleware"
	"dentalrcm/app/repositories"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

// SetupRoutes defines the application's routes on top of store and returns a router.
func SetupRoutes(store repositories.Storage, log logrus.FieldLogger) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recoverer(log))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LimitBody(MaxBodyBytes))

	// mux skips middleware when no route matches, so wrap these directly.
	router.NotFoundHandler = middleware.Logger(log)(jsonStatus(http.StatusNotFound, "not found"))
	router.MethodNotAllowedHandler = middleware.Logger(log)(jsonStatus(http.StatusMethodNotAllowed, "method not allowed"))

	router.HandleFunc("/healthz", healthz).Methods("GET")

	blogPosts := controllers.NewBlogPostController(store, log)
	contacts := controllers.NewContactSubmissionController(store, log)
	downloads := controllers.NewLeadMagnetDownloadController(store, log)

	// API routes are registered with full paths on the root router. An /api
	// subrouter without its own handlers reports a method mismatch as a 404.

	// Blog posts. GET takes a slug, PUT and DELETE take a numeric id.
	router.HandleFunc("/api/blog-posts", blogPosts.Index).Methods("GET")
	router.HandleFunc("/api/blog-posts", blogPosts.Create).Methods("POST")
	router.HandleFunc("/api/blog-posts/{slug}", blogPosts.Show).Methods("GET")
	router.HandleFunc("/api/blog-posts/{id}", blogPosts.Update).Methods("PUT")
	router.HandleFunc("/api/blog-posts/{id}", blogPosts.Delete).Methods("DELETE")

	// Contact form
	router.HandleFunc("/api/contact-submissions", contacts.Index).Methods("GET")
	router.HandleFunc("/api/contact-submissions", contacts.Create).Methods("POST")

	// Lead magnet downloads
	router.HandleFunc("/api/lead-magnet-downloads", downloads.Index).Methods("GET")
	router.HandleFunc("/api/lead-magnet-downloads", downloads.Create).Methods("POST")

	return router
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func jsonStatus(status int, message string) http.Handler {
	body := []byte(`{"error":"` + message + `"}` + "\n")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	})
}
