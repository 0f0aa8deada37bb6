// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/students-web/internal/config"
	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// Every read goes through this column list. COALESCE maps NULLs left by
// rows written outside this application to empty strings.
const selectColumns = `SELECT id,
	COALESCE(name, ''), COALESCE(email, ''), COALESCE(course, ''), COALESCE(phone, '')
	FROM students`

// New opens the SQLite database at cfg.StoragePath, creates the students
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. There is no migration framework beyond this statement.
	//
	// Schema:
	//   id     — integer primary key, auto-assigned by SQLite
	//   name   — optional, unconstrained
	//   email  — optional, no uniqueness or format check
	//   course — optional
	//   phone  — optional, TEXT so formatting like "+1 (555) 010" survives
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			name   TEXT,
			email  TEXT,
			course TEXT,
			phone  TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close closes the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateStudent inserts a new row into the students table.
//
// Prepared statements use placeholders (?). The driver sends the query and
// the values separately, so user input is never parsed as SQL.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreateStudent(ctx context.Context, fields types.StudentFields) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO students (name, email, course, phone) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, fields.Name, fields.Email, fields.Course, fields.Phone)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	// LastInsertId returns the auto-generated primary key of the new row.
	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return types.Student{
		ID:     lastID,
		Name:   fields.Name,
		Email:  fields.Email,
		Course: fields.Course,
		Phone:  fields.Phone,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudentByID fetches exactly one student row matched by primary key.
//
// QueryRow does not report a missing row by itself; sql.ErrNoRows surfaces
// only when Scan is called.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx, selectColumns+" WHERE id = ? LIMIT 1")
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student

	err = stmt.QueryRowContext(ctx, id).Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Course,
		&student.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("GetStudentByID: id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows in insertion order.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx, selectColumns+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close() // must close rows to free the DB connection

	// Non-nil so JSON encodes [] rather than null.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student

		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Email,
			&student.Course,
			&student.Phone,
		); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}

		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateStudentByID overwrites all four fields of a student, empty values
// included. SQLite counts every row matched by WHERE as affected, even when
// the values do not change, so zero affected rows means the id is unknown.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) UpdateStudentByID(ctx context.Context, id int64, fields types.StudentFields) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE students SET name = ?, email = ?, course = ?, phone = ? WHERE id = ?",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, fields.Name, fields.Email, fields.Course, fields.Phone, id)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	if err := requireAffected(result, id); err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: %w", err)
	}

	// Re-fetch the record so we return exactly what is stored in the DB.
	return s.GetStudentByID(ctx, id)
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(ctx context.Context, id int64) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	if err := requireAffected(result, id); err != nil {
		return fmt.Errorf("DeleteStudentByID: %w", err)
	}

	return nil
}

func requireAffected(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	return nil
}
