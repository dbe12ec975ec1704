package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "session.json"))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)
	sess, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_SaveLoadClear(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(&Session{
		Token: "tok",
		User:  User{ID: 1, Name: "Test", Email: "t@example.com", LastCode: "draft"},
	}))

	sess, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "draft", sess.User.LastCode)

	require.NoError(t, s.Clear())
	sess, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	// Clearing an already absent session is not an error.
	require.NoError(t, s.Clear())
}

func TestStore_FilePermissions(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(&Session{Token: "tok"}))

	info, err := os.Stat(s.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_SubscribeSeesInProcessChanges(t *testing.T) {
	s := newTestStore(t)
	ch := s.Subscribe()

	require.NoError(t, s.Save(&Session{Token: "tok", User: User{ID: 2}}))

	select {
	case sess := <-ch:
		require.NotNil(t, sess)
		assert.Equal(t, uint(2), sess.User.ID)
	case <-time.After(time.Second):
		t.Fatal("no change event after Save")
	}

	require.NoError(t, s.Clear())

	select {
	case sess := <-ch:
		assert.Nil(t, sess)
	case <-time.After(time.Second):
		t.Fatal("no change event after Clear")
	}
}

func TestStore_WatchSeesOtherProcessChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	// Two stores over the same file stand in for two processes.
	reader := NewStore(path)
	t.Cleanup(func() { _ = reader.Close() })
	require.NoError(t, reader.Watch())
	ch := reader.Subscribe()

	writer := NewStore(path)
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.Save(&Session{Token: "other-tok", User: User{ID: 9}}))

	select {
	case sess := <-ch:
		require.NotNil(t, sess)
		assert.Equal(t, "other-tok", sess.Token)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report external login")
	}

	require.NoError(t, os.Remove(path))

	select {
	case sess := <-ch:
		assert.Nil(t, sess)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report external logout")
	}
}

func TestStore_LoadRejectsEmptyToken(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0o700))
	require.NoError(t, os.WriteFile(s.path, []byte(`{"token":""}`), 0o600))

	sess, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}
