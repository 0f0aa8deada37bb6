// Package student contains the JSON handlers of the /api/students routes.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `store` even after the factory call has returned. Example:
//
//	r.HandleFunc("/api/students", student.New(store)).Methods(http.MethodPost)
//	//                                    ^^^^^^^^^^
//	//               New(store) is called ONCE at startup. It returns a
//	//               handler func which is called on EVERY incoming request.
package student

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/aanand-mishra/students-web/internal/http/form"
	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/utils/response"
)

var errInvalidID = errors.New("invalid id: must be an integer")

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Creates a new student from the JSON request body. Missing keys are stored
// as empty values, exactly like the HTML form.
//
// Request body (JSON):
//
//	{ "name": "Ana", "email": "a@x.com", "course": "CS", "phone": "123" }
//
// Success response (201 Created) — the stored student:
//
//	{ "id": 1, "name": "Ana", "email": "a@x.com", "course": "CS", "phone": "123" }
//
// Error responses:
//
//	400 Bad Request  — empty body or malformed JSON
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		f, err := form.DecodeJSON(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student, err := store.CreateStudent(r.Context(), f.Fields())
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := store.GetStudentByID(r.Context(), id)
		if err != nil {
			writeStoreError(w, "error getting student", id, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /api/students
// Returns a JSON array of all students, [] (not null) when there are none.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.GetStudents(r.Context())
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Replaces ALL fields of an existing student.
//
// With strict set every key must be present (an empty string counts as
// present); otherwise missing keys overwrite with "".
//
// Error responses:
//
//	400 Bad Request  — invalid id, empty body, or a missing key in strict mode
//	404 Not Found    — no student with that id (checked before the body)
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage, strict bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		if _, err := store.GetStudentByID(r.Context(), id); err != nil {
			writeStoreError(w, "error getting student", id, err)
			return
		}

		f, err := form.DecodeJSON(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if strict {
			if err := form.RequireAll(f); err != nil {
				var validateErrs validator.ValidationErrors
				if !errors.As(err, &validateErrs) {
					response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
					return
				}
				response.WriteJSON(w, http.StatusBadRequest,
					response.ValidationError(validateErrs))
				return
			}
		}

		updated, err := store.UpdateStudentByID(r.Context(), id, f.Fields())
		if err != nil {
			writeStoreError(w, "error updating student", id, err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id}
// Permanently removes a student record.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		if err := store.DeleteStudentByID(r.Context(), id); err != nil {
			writeStoreError(w, "error deleting student", id, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK())
	}
}

// pathID parses {id}, answering 400 itself when it is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errInvalidID))
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, msg string, id int64, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(storage.ErrNotFound))
		return
	}

	slog.Error(msg, slog.Int64("id", id), slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
