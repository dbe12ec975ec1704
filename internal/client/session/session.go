// Package session persists the client's login state on disk and notifies
// watchers when it changes, so several processes sharing the same session
// file see logins and logouts from each other.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Session is the persisted login state: the token plus the user snapshot
// returned at login time.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// User is the cached identity stored alongside the token.
type User struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	LastCode string `json:"lastCode"`
}

// Store reads and writes the session file and fans out change events.
type Store struct {
	path string

	mu          sync.Mutex
	subscribers []chan *Session
	watcher     *fsnotify.Watcher
	done        chan struct{}
}

// DefaultPath places the session file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "codelens", "session.json"), nil
}

// NewStore returns a Store over the given file path. The file does not
// have to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the current session. A missing file means no session and
// returns (nil, nil).
func (s *Store) Load() (*Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}
	if sess.Token == "" {
		return nil, nil
	}
	return &sess, nil
}

// Save writes the session and notifies subscribers. The write goes through
// a temp file and rename so watchers never observe a half-written session.
func (s *Store) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}

	s.notify(sess)
	return nil
}

// Clear removes the session (logout) and notifies subscribers with nil.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	s.notify(nil)
	return nil
}

// Subscribe returns a channel receiving the new session on every change,
// nil meaning logged out. The channel is buffered; a slow subscriber drops
// intermediate states, which is fine because only the latest matters.
func (s *Store) Subscribe() <-chan *Session {
	ch := make(chan *Session, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

// Watch starts propagating changes made by other processes. It watches the
// session file's directory because editors and atomic renames replace the
// file node itself.
func (s *Store) Watch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting session watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching session dir: %w", err)
	}

	s.watcher = watcher
	s.done = make(chan struct{})

	go s.watchLoop(watcher, s.done)
	return nil
}

func (s *Store) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			// Reload and fan out whatever state the file is in now.
			sess, err := s.Load()
			if err != nil {
				continue
			}
			s.notify(sess)
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		case <-done:
			return
		}
	}
}

// Close stops the watcher and closes all subscriber channels.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		close(s.done)
		_ = s.watcher.Close()
		s.watcher = nil
	}
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	return nil
}

func (s *Store) notify(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		// Keep only the latest state in the buffer.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- sess:
		default:
		}
	}
}
