package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/bbolt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fiber.Storage = (*bbolt.Storage)(nil)

func mustOpen(t *testing.T, dir string) fiber.Storage {
	t.Helper()
	s, err := Open(dir)
	require.NoError(t, err)
	return s
}

func TestOpen_SetGetDelete(t *testing.T) {
	s := mustOpen(t, t.TempDir())
	defer s.Close()

	got, err := s.Get("cart-storage")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set("cart-storage", []byte(`{"items":[]}`), 0))
	got, err = s.Get("cart-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))

	require.NoError(t, s.Delete("cart-storage"))
	got, err = s.Get("cart-storage")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, s.Delete("never-set"))
}

func TestOpen_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s := mustOpen(t, dir)
	require.NoError(t, s.Set("cart-storage", []byte("v1"), 0))
	require.NoError(t, s.Close())

	reopened := mustOpen(t, dir)
	defer reopened.Close()
	got, err := reopened.Get("cart-storage")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
}

func TestOpen_CreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "shopctl")
	s := mustOpen(t, dir)
	defer s.Close()

	_, err := os.Stat(filepath.Join(dir, FileName))
	assert.NoError(t, err)
}

func TestOpen_UnusableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := Open(file)
	assert.Error(t, err)
}
