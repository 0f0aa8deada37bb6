// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// Handlers depend only on this interface, so the SQLite, GORM and
// in-memory backends are interchangeable and tests can run without a
// database file.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/students-web/internal/types"
)

// ErrNotFound is returned when an operation references a student id that
// does not exist (never created, or already deleted). It is the only error
// kind callers are expected to tell apart; check it with errors.Is.
var ErrNotFound = errors.New("student not found")

// Storage is the database contract.
// Each method touches at most one row, so no method needs a transaction.
type Storage interface {
	// CreateStudent inserts a new record with an auto-assigned id and
	// returns it as stored.
	CreateStudent(ctx context.Context, fields types.StudentFields) (types.Student, error)

	// GetStudentByID fetches a single student by primary key.
	// Returns ErrNotFound if no such row exists.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudents returns every student in id order.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID overwrites all four fields of an existing student,
	// empty values included, and returns the stored record.
	// Returns ErrNotFound if no such row exists.
	UpdateStudentByID(ctx context.Context, id int64, fields types.StudentFields) (types.Student, error)

	// DeleteStudentByID removes a student record permanently.
	// Returns ErrNotFound if no such row exists.
	DeleteStudentByID(ctx context.Context, id int64) error

	// Close releases the underlying database handle.
	Close() error
}
