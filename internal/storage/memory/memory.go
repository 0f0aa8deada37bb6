// Package memory is an in-process Record Store. Nothing survives a restart;
// it backs the "memory" storage driver and the handler tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"
)

type Store struct {
	mu       sync.RWMutex
	students map[int64]types.Student
	lastID   int64
}

var _ storage.Storage = (*Store)(nil)

func New() *Store {
	return &Store{
		students: make(map[int64]types.Student),
	}
}

func (s *Store) CreateStudent(_ context.Context, fields types.StudentFields) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// ids are never reused, like AUTOINCREMENT.
	s.lastID++
	student := types.Student{
		ID:     s.lastID,
		Name:   fields.Name,
		Email:  fields.Email,
		Course: fields.Course,
		Phone:  fields.Phone,
	}
	s.students[student.ID] = student

	return student, nil
}

func (s *Store) GetStudentByID(_ context.Context, id int64) (types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	student, ok := s.students[id]
	if !ok {
		return types.Student{}, fmt.Errorf("GetStudentByID: id %d: %w", id, storage.ErrNotFound)
	}
	return student, nil
}

func (s *Store) GetStudents(_ context.Context) ([]types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students := make([]types.Student, 0, len(s.students))
	for _, student := range s.students {
		students = append(students, student)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })

	return students, nil
}

func (s *Store) UpdateStudentByID(_ context.Context, id int64, fields types.StudentFields) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: id %d: %w", id, storage.ErrNotFound)
	}

	student := types.Student{
		ID:     id,
		Name:   fields.Name,
		Email:  fields.Email,
		Course: fields.Course,
		Phone:  fields.Phone,
	}
	s.students[id] = student

	return student, nil
}

func (s *Store) DeleteStudentByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return fmt.Errorf("DeleteStudentByID: id %d: %w", id, storage.ErrNotFound)
	}
	delete(s.students, id)

	return nil
}

func (s *Store) Close() error { return nil }
