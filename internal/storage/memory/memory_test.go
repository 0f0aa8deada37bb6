package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/storage/storagetest"
	"github.com/aanand-mishra/students-web/internal/types"
)

func TestStorage(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return New()
	})
}

func TestConcurrentCreates(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateStudent(ctx, types.StudentFields{Name: "n"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	students, err := s.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 50)
	for i, student := range students {
		assert.Equal(t, int64(i+1), student.ID)
	}
}
