// Package router wires every route of the application onto a gorilla/mux
// router.
//
// Route table:
//
//	GET       /                      → welcome message
//	GET       /home                  → list all students (HTML)
//	GET       /add/student           → empty creation form
//	POST      /add/student           → create, redirect to /home
//	GET       /update/student/{id}   → pre-filled update form
//	POST      /update/student/{id}   → update, redirect to /home
//	GET|POST  /delete/student/{id}   → delete, redirect to /home
//
//	POST      /api/students          → create (JSON)
//	GET       /api/students          → list (JSON)
//	GET       /api/students/{id}     → get one (JSON)
//	PUT       /api/students/{id}     → update (JSON)
//	DELETE    /api/students/{id}     → delete (JSON)
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/aanand-mishra/students-web/internal/http/handlers/student"
	"github.com/aanand-mishra/students-web/internal/http/handlers/web"
	"github.com/aanand-mishra/students-web/internal/storage"
)

// Options are the route behaviours chosen in config.
type Options struct {
	// AllowGetDelete keeps GET /delete/student/{id} routed.
	AllowGetDelete bool
	// StrictUpdate rejects update submissions that omit a field.
	StrictUpdate bool
}

// Web ids are positive integers; anything else does not match and is a 404.
const idPattern = "{id:[0-9]+}"

// New builds the application handler.
func New(store storage.Storage, view web.Renderer, opts Options) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", web.Index()).Methods(http.MethodGet)
	r.HandleFunc("/home", web.Home(store, view)).Methods(http.MethodGet)

	r.HandleFunc("/add/student", web.AddForm(view)).Methods(http.MethodGet)
	r.HandleFunc("/add/student", web.Add(store)).Methods(http.MethodPost)

	r.HandleFunc("/update/student/"+idPattern, web.UpdateForm(store, view)).Methods(http.MethodGet)
	r.HandleFunc("/update/student/"+idPattern, web.Update(store, opts.StrictUpdate)).Methods(http.MethodPost)

	// Deleting on GET is unsafe (links get prefetched and crawled) but old
	// clients depend on it.
	deleteMethods := []string{http.MethodPost}
	if opts.AllowGetDelete {
		deleteMethods = append(deleteMethods, http.MethodGet)
	}
	r.HandleFunc("/delete/student/"+idPattern, web.Delete(store)).Methods(deleteMethods...)

	api := r.PathPrefix("/api/students").Subrouter()
	api.HandleFunc("", student.New(store)).Methods(http.MethodPost)
	api.HandleFunc("", student.GetList(store)).Methods(http.MethodGet)
	api.HandleFunc("/{id}", student.GetByID(store)).Methods(http.MethodGet)
	api.HandleFunc("/{id}", student.Update(store, opts.StrictUpdate)).Methods(http.MethodPut)
	api.HandleFunc("/{id}", student.Delete(store)).Methods(http.MethodDelete)

	// Wrapping the whole router, rather than r.Use, also logs the 404 and
	// 405 answers mux produces for unmatched requests.
	return logRequests(r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
