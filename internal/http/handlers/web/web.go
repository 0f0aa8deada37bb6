// Package web contains the HTML routes of the student records site.
//
// Like the JSON handlers, every route is a factory: it receives its
// dependencies once at startup and returns the http.HandlerFunc the router
// calls on every request. No handler keeps a record between requests.
package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/aanand-mishra/students-web/internal/http/form"
	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"
)

// WelcomeMessage is the plain-text body of GET /.
const WelcomeMessage = "Welcome to the Student Records project"

// HomePath is where every successful mutation redirects to.
const HomePath = "/home"

// Renderer draws the three HTML pages.
type Renderer interface {
	Home(w http.ResponseWriter, students []types.Student) error
	AddStudent(w http.ResponseWriter) error
	UpdateStudent(w http.ResponseWriter, student types.Student) error
}

// Index handles GET /
func Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, WelcomeMessage)
	}
}

// Home handles GET /home
func Home(store storage.Storage, view Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := store.GetStudents(r.Context())
		if err != nil {
			serverError(w, "error listing students", err)
			return
		}

		if err := view.Home(w, students); err != nil {
			serverError(w, "error rendering home", err)
		}
	}
}

// AddForm handles GET /add/student
func AddForm(view Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := view.AddStudent(w); err != nil {
			serverError(w, "error rendering add form", err)
		}
	}
}

// Add handles POST /add/student
//
// Creation is lenient: absent keys are stored as empty values.
func Add(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := form.Parse(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		student, err := store.CreateStudent(r.Context(), f.Fields())
		if err != nil {
			serverError(w, "error creating student", err)
			return
		}

		slog.Info("student created", slog.Int64("id", student.ID))
		http.Redirect(w, r, HomePath, http.StatusFound)
	}
}

// UpdateForm handles GET /update/student/{id}
func UpdateForm(store storage.Storage, view Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		student, err := store.GetStudentByID(r.Context(), id)
		if err != nil {
			storeError(w, r, "error getting student", err)
			return
		}

		if err := view.UpdateStudent(w, student); err != nil {
			serverError(w, "error rendering update form", err)
		}
	}
}

// Update handles POST /update/student/{id}
//
// All four fields are overwritten. With strict set, a submission that
// omits any key is rejected with 400; otherwise omitted keys become "".
// An unknown id is a 404 either way, checked before the body is read.
func Update(store storage.Storage, strict bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		if _, err := store.GetStudentByID(r.Context(), id); err != nil {
			storeError(w, r, "error getting student", err)
			return
		}

		f, err := form.Parse(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if strict {
			if err := form.RequireAll(f); err != nil {
				http.Error(w, "missing form fields: "+strings.Join(form.Missing(err), ", "),
					http.StatusBadRequest)
				return
			}
		}

		if _, err := store.UpdateStudentByID(r.Context(), id, f.Fields()); err != nil {
			storeError(w, r, "error updating student", err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		http.Redirect(w, r, HomePath, http.StatusFound)
	}
}

// Delete handles GET and POST /delete/student/{id}
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		if err := store.DeleteStudentByID(r.Context(), id); err != nil {
			storeError(w, r, "error deleting student", err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id), slog.String("method", r.Method))
		http.Redirect(w, r, HomePath, http.StatusFound)
	}
}

// pathID reads the {id} route variable. Ids that are not a positive int64
// behave like unknown ids.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func storeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	serverError(w, msg, err)
}

func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
