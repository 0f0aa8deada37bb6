// Package storagetest holds the behavioural test suite every
// storage.Storage backend must pass.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/types"
)

// Run executes the suite. newStore must return an empty store; it is called
// once per subtest.
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Storage)
	}{
		{"CreateThenList", testCreateThenList},
		{"CreateEmptyFields", testCreateEmptyFields},
		{"RoundTrip", testRoundTrip},
		{"ListEmpty", testListEmpty},
		{"ListOrder", testListOrder},
		{"UpdateOverwritesAll", testUpdateOverwritesAll},
		{"UpdateWithEmptyValues", testUpdateWithEmptyValues},
		{"UpdateUnchangedValues", testUpdateUnchangedValues},
		{"Delete", testDelete},
		{"UnknownID", testUnknownID},
		{"DeletedID", testDeletedID},
		{"IDsNotReused", testIDsNotReused},
		{"Example", testExample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { s.Close() })
			tt.fn(t, s)
		})
	}
}

var ana = types.StudentFields{Name: "Ana", Email: "a@x.com", Course: "CS", Phone: "123"}

func testCreateThenList(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	created, err := s.CreateStudent(ctx, ana)
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, ana, created.Fields())

	students, err := s.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, created, students[0])
}

func testCreateEmptyFields(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	created, err := s.CreateStudent(ctx, types.StudentFields{})
	require.NoError(t, err)

	got, err := s.GetStudentByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StudentFields{}, got.Fields())
}

func testRoundTrip(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	inputs := []types.StudentFields{
		ana,
		{Name: "  padded  ", Email: "not an email", Course: "", Phone: "+1 (555) 010-0000"},
		{Name: "Zoë Ødegård", Email: "zoë@example.org", Course: "Ελληνικά", Phone: "007"},
		{Name: "Robert'); DROP TABLE students;--", Phone: "0"},
	}

	for _, in := range inputs {
		created, err := s.CreateStudent(ctx, in)
		require.NoError(t, err)

		got, err := s.GetStudentByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, in, got.Fields())
	}
}

func testListEmpty(t *testing.T, s storage.Storage) {
	students, err := s.GetStudents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func testListOrder(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"first", "second", "third", "fourth"} {
		created, err := s.CreateStudent(ctx, types.StudentFields{Name: name})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	students, err := s.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, len(ids))
	for i, student := range students {
		assert.Equal(t, ids[i], student.ID)
	}
}

func testUpdateOverwritesAll(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	created, err := s.CreateStudent(ctx, ana)
	require.NoError(t, err)

	next := types.StudentFields{Name: "Bea", Email: "b@y.org", Course: "Math", Phone: "456"}
	updated, err := s.UpdateStudentByID(ctx, created.ID, next)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, next, updated.Fields())

	got, err := s.GetStudentByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, next, got.Fields())
}

func testUpdateWithEmptyValues(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	created, err := s.CreateStudent(ctx, ana)
	require.NoError(t, err)

	_, err = s.UpdateStudentByID(ctx, created.ID, types.StudentFields{Name: "Ana"})
	require.NoError(t, err)

	got, err := s.GetStudentByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StudentFields{Name: "Ana"}, got.Fields())
}

func testUpdateUnchangedValues(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	created, err := s.CreateStudent(ctx, ana)
	require.NoError(t, err)

	updated, err := s.UpdateStudentByID(ctx, created.ID, ana)
	require.NoError(t, err)
	assert.Equal(t, created, updated)
}

func testDelete(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	keep, err := s.CreateStudent(ctx, types.StudentFields{Name: "keep"})
	require.NoError(t, err)
	gone, err := s.CreateStudent(ctx, types.StudentFields{Name: "gone"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteStudentByID(ctx, gone.ID))

	_, err = s.GetStudentByID(ctx, gone.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	students, err := s.GetStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Student{keep}, students)
}

func testUnknownID(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	_, err := s.GetStudentByID(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.UpdateStudentByID(ctx, 42, ana)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.DeleteStudentByID(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// A failed update must not create the row.
	students, err := s.GetStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func testDeletedID(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	created, err := s.CreateStudent(ctx, ana)
	require.NoError(t, err)
	require.NoError(t, s.DeleteStudentByID(ctx, created.ID))

	_, err = s.UpdateStudentByID(ctx, created.ID, ana)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.DeleteStudentByID(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testIDsNotReused(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	first, err := s.CreateStudent(ctx, ana)
	require.NoError(t, err)
	require.NoError(t, s.DeleteStudentByID(ctx, first.ID))

	second, err := s.CreateStudent(ctx, ana)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func testExample(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	created, err := s.CreateStudent(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := s.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.Student{ID: 1, Name: "Ana", Email: "a@x.com", Course: "CS", Phone: "123"}, got)

	require.NoError(t, s.DeleteStudentByID(ctx, 1))

	_, err = s.GetStudentByID(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
