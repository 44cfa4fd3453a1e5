package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStagerWritesAndReleases(t *testing.T) {
	dir := t.TempDir()
	s := NewStager(dir, true, zaptest.NewLogger(t))

	staged, release, err := s.Stage("../../etc/statement.pdf", []byte("data"))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(staged.Path))
	assert.True(t, strings.HasSuffix(staged.Path, "-statement.pdf"))
	content, err := os.ReadFile(staged.Path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	release()
	_, err = os.Stat(staged.Path)
	assert.True(t, os.IsNotExist(err))

	// A second release is harmless.
	release()
}

func TestStagerNamesAreUnique(t *testing.T) {
	s := NewStager(t.TempDir(), true, zaptest.NewLogger(t))

	a, releaseA, err := s.Stage("same.csv", nil)
	require.NoError(t, err)
	defer releaseA()
	b, releaseB, err := s.Stage("same.csv", nil)
	require.NoError(t, err)
	defer releaseB()

	assert.NotEqual(t, a.Path, b.Path)
}

func TestStagerDisabled(t *testing.T) {
	dir := t.TempDir()
	s := NewStager(dir, false, zaptest.NewLogger(t))

	staged, release, err := s.Stage("a.csv", []byte("x"))
	require.NoError(t, err)
	defer release()

	assert.Empty(t, staged.Path)
	assert.Equal(t, []byte("x"), staged.Data)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStagerMissingDirectory(t *testing.T) {
	s := NewStager(filepath.Join(t.TempDir(), "missing"), true, zaptest.NewLogger(t))

	_, release, err := s.Stage("a.csv", []byte("x"))
	assert.Error(t, err)
	release()
}
