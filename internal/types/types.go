// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// Student represents a student record in our system.
//
// No field other than ID carries any constraint: every text field may be
// empty, and phone is kept as text so its formatting survives.
type Student struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Course string `json:"course"`
	Phone  string `json:"phone"`
}

// StudentFields are the four writable values of a Student.
// Create and update copy them verbatim, empty strings included.
type StudentFields struct {
	Name   string
	Email  string
	Course string
	Phone  string
}

// Fields returns the writable part of s.
func (s Student) Fields() StudentFields {
	return StudentFields{
		Name:   s.Name,
		Email:  s.Email,
		Course: s.Course,
		Phone:  s.Phone,
	}
}

// StudentForm is a submission as it arrived at the HTTP boundary.
//
// A nil pointer means the key was absent from the submission, which is
// different from a key sent with an empty value. The validate:"required"
// tags are only checked when a route demands all four keys; see
// form.RequireAll.
type StudentForm struct {
	Name   *string `json:"name"   form:"name"   validate:"required"`
	Email  *string `json:"email"  form:"email"  validate:"required"`
	Course *string `json:"course" form:"course" validate:"required"`
	Phone  *string `json:"phone"  form:"phone"  validate:"required"`
}

// Fields flattens the form, treating absent keys as empty.
func (f StudentForm) Fields() StudentFields {
	return StudentFields{
		Name:   deref(f.Name),
		Email:  deref(f.Email),
		Course: deref(f.Course),
		Phone:  deref(f.Phone),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
