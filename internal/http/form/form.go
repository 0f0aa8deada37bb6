// Package form adapts incoming submissions into types.StudentForm.
//
// Parsing never rejects a submission for missing keys; a missing key is
// recorded as a nil field. Routes that need every key call RequireAll.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-web/internal/types"
)

// Form keys, in the order they appear on the page.
const (
	KeyName   = "name"
	KeyEmail  = "email"
	KeyCourse = "course"
	KeyPhone  = "phone"
)

// 32 MB, the same default net/http uses for multipart forms.
const maxMemory = 32 << 20

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

var validate = newValidator()

// newValidator reports field errors by form key ("name") rather than by
// Go field name ("Name").
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Parse reads the four student keys from an urlencoded or multipart body.
// Query string values are ignored.
func Parse(r *http.Request) (types.StudentForm, error) {
	if err := parseBody(r); err != nil {
		return types.StudentForm{}, fmt.Errorf("form.Parse: %w", err)
	}

	return types.StudentForm{
		Name:   lookup(r, KeyName),
		Email:  lookup(r, KeyEmail),
		Course: lookup(r, KeyCourse),
		Phone:  lookup(r, KeyPhone),
	}, nil
}

func parseBody(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

// lookup returns nil when key is absent and the first value otherwise,
// so a key sent as "name=" yields a pointer to "".
func lookup(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// DecodeJSON reads a StudentForm from a JSON body. Keys missing from the
// object, or sent as null, are nil.
func DecodeJSON(r *http.Request) (types.StudentForm, error) {
	var f types.StudentForm

	err := json.NewDecoder(r.Body).Decode(&f)
	if errors.Is(err, io.EOF) {
		return types.StudentForm{}, ErrEmptyBody
	}
	if err != nil {
		return types.StudentForm{}, fmt.Errorf("form.DecodeJSON: %w", err)
	}

	return f, nil
}

// RequireAll reports every key absent from f. The returned error is a
// validator.ValidationErrors whose Field() values are form keys.
func RequireAll(f types.StudentForm) error {
	return validate.Struct(f)
}

// Missing lists the absent keys of f, in page order.
func Missing(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	keys := make([]string, 0, len(verrs))
	for _, e := range verrs {
		keys = append(keys, e.Field())
	}
	return keys
}
