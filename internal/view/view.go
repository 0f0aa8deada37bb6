// Package view renders the HTML pages of the web interface.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/aanand-mishra/students-web/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer holds the parsed page templates. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view.New: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Home renders the list of every student.
func (v *Renderer) Home(w http.ResponseWriter, students []types.Student) error {
	return v.render(w, "home", struct{ Students []types.Student }{students})
}

// AddStudent renders the empty creation form.
func (v *Renderer) AddStudent(w http.ResponseWriter) error {
	return v.render(w, "add_student", types.Student{})
}

// UpdateStudent renders the update form pre-filled with student.
func (v *Renderer) UpdateStudent(w http.ResponseWriter, student types.Student) error {
	return v.render(w, "update_student", student)
}

// render executes into a buffer first so a template error leaves w
// untouched and the caller can still send a 500.
func (v *Renderer) render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
