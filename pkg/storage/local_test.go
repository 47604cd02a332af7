package storage

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *LocalStorage {
		t.Helper()
		s, err := NewLocalStorage(t.TempDir())
		require.NoError(t, err)
		return s
	}

	t.Run("save and open round trip", func(t *testing.T) {
		s := newStore(t)

		info, err := s.Save(ctx, "january.pdf", "application/pdf", strings.NewReader("%PDF-1.4 fake"))
		require.NoError(t, err)
		assert.Equal(t, "january.pdf", info.Name)
		assert.Equal(t, int64(len("%PDF-1.4 fake")), info.Size)

		r, got, err := s.Open(ctx, info.ID)
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(data))
		assert.Equal(t, info.ID, got.ID)
	})

	t.Run("path resolves to an existing file", func(t *testing.T) {
		s := newStore(t)

		info, err := s.Save(ctx, "statement.pdf", "application/pdf", strings.NewReader("content"))
		require.NoError(t, err)

		path, err := s.Path(ctx, info.ID)
		require.NoError(t, err)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("repeated uploads of the same name stay distinct", func(t *testing.T) {
		s := newStore(t)

		a, err := s.Save(ctx, "statement.pdf", "application/pdf", strings.NewReader("first"))
		require.NoError(t, err)
		b, err := s.Save(ctx, "statement.pdf", "application/pdf", strings.NewReader("second"))
		require.NoError(t, err)

		pathA, err := s.Path(ctx, a.ID)
		require.NoError(t, err)
		pathB, err := s.Path(ctx, b.ID)
		require.NoError(t, err)
		assert.NotEqual(t, pathA, pathB)
	})

	t.Run("delete removes file and metadata", func(t *testing.T) {
		s := newStore(t)

		info, err := s.Save(ctx, "statement.pdf", "application/pdf", strings.NewReader("content"))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, info.ID))
		_, _, err = s.Open(ctx, info.ID)
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Path(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrFileNotFound)
	})
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "a_b.pdf", sanitizeFilename("a\x00b.pdf"))
	assert.Equal(t, "statement.pdf", sanitizeFilename(""))
	assert.Equal(t, "january.pdf", sanitizeFilename("january.pdf"))
}
