package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFilePersistenceRoundTrip tests save and load through the file backend
func TestFilePersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	persist := NewFileStatePersistence(dir)

	require.NoError(t, persist.Save("session", []byte(`{"a":1}`)))

	data, err := persist.Load("session")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))
}

// TestFilePersistenceMissing tests that a missing snapshot loads as nil, nil
func TestFilePersistenceMissing(t *testing.T) {
	persist := NewFileStatePersistence(t.TempDir())

	data, err := persist.Load("never-saved")
	require.NoError(t, err)
	assert.Nil(t, data)
}

// TestFilePersistenceCreatesDir tests that save creates the directory
func TestFilePersistenceCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	persist := NewFileStatePersistence(dir)

	require.NoError(t, persist.Save("session", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "session.json"))
	assert.NoError(t, err)
}

// TestFilePersistenceOverwrite tests that saves replace earlier snapshots
func TestFilePersistenceOverwrite(t *testing.T) {
	persist := NewFileStatePersistence(t.TempDir())

	require.NoError(t, persist.Save("session", []byte("first")))
	require.NoError(t, persist.Save("session", []byte("second")))

	data, err := persist.Load("session")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

// TestSQLitePersistenceRoundTrip tests save, overwrite and load through
// the sqlite backend
func TestSQLitePersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	persist, closer, err := NewSQLiteStatePersistence(path)
	require.NoError(t, err)
	defer closer()

	data, err := persist.Load("session")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, persist.Save("session", []byte("first")))
	require.NoError(t, persist.Save("session", []byte("second")))

	data, err = persist.Load("session")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

// TestSQLitePersistenceIsolatesNames tests that snapshots are keyed by name
func TestSQLitePersistenceIsolatesNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	persist, closer, err := NewSQLiteStatePersistence(path)
	require.NoError(t, err)
	defer closer()

	require.NoError(t, persist.Save("one", []byte("1")))
	require.NoError(t, persist.Save("two", []byte("2")))

	data, err := persist.Load("one")
	require.NoError(t, err)
	assert.Equal(t, "1", string(data))

	data, err = persist.Load("two")
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}
