package lstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/rKV/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	t.Run("GetMissing", func(t *testing.T) {
		s := NewLocalStore()
		val, ok, err := s.Get("nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, val)
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		s := NewLocalStore()
		require.NoError(t, s.Set("a", "1"))
		require.NoError(t, s.Set("a", "2"))
		val, ok, err := s.Get("a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2", val)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("EmptyValue", func(t *testing.T) {
		s := NewLocalStore()
		require.NoError(t, s.Set("a", ""))
		val, ok, err := s.Get("a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "", val)
	})

	t.Run("DeleteCountsOnlyPresentKeys", func(t *testing.T) {
		s := NewLocalStore()
		require.NoError(t, s.Set("a", "1"))
		require.NoError(t, s.Set("b", "2"))
		removed, err := s.Delete("a", "b", "c")
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		assert.Equal(t, 0, s.Len())

		removed, err = s.Delete("a")
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
	})

	t.Run("DeleteDuplicateKeys", func(t *testing.T) {
		s := NewLocalStore()
		require.NoError(t, s.Set("a", "1"))
		removed, err := s.Delete("a", "a")
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
	})

	t.Run("DeleteWithoutKeys", func(t *testing.T) {
		s := NewLocalStore()
		_, err := s.Delete()
		require.Error(t, err)
		assert.True(t, store.IsCode(err, store.RetCInvalidOperation))
	})
}

func TestLocalStoreConcurrent(t *testing.T) {
	s := NewLocalStore()
	const workers, perWorker = 8, 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("k-%d-%d", w, i)
				_ = s.Set(key, key)
				_, _, _ = s.Get(key)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, s.Len())
}
