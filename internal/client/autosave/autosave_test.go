package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects saves and statuses under a lock.
type recorder struct {
	mu       sync.Mutex
	saves    []string
	statuses []Status
	err      error
}

func (r *recorder) save(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saves = append(r.saves, code)
	return nil
}

func (r *recorder) status(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *recorder) savedCodes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.saves))
	copy(out, r.saves)
	return out
}

func (r *recorder) lastStatus() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return StatusIdle
	}
	return r.statuses[len(r.statuses)-1]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSaver_DebouncesRapidEdits(t *testing.T) {
	rec := &recorder{}
	s := New(rec.save, WithDelay(30*time.Millisecond), WithStatusFunc(rec.status))
	defer s.Stop()

	s.CodeChanged("v1")
	s.CodeChanged("v2")
	s.CodeChanged("v3")

	waitFor(t, func() bool { return len(rec.savedCodes()) > 0 })

	// Only the final edit in the window is saved.
	assert.Equal(t, []string{"v3"}, rec.savedCodes())
	assert.Equal(t, StatusSaved, rec.lastStatus())
}

func TestSaver_SkipsEmptyAndDefaultContent(t *testing.T) {
	rec := &recorder{}
	s := New(rec.save, WithDelay(10*time.Millisecond))
	defer s.Stop()

	s.CodeChanged("")
	s.CodeChanged("   \n\t")
	s.CodeChanged(DefaultSnippet)

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.savedCodes())
}

func TestSaver_FailureIsTransient(t *testing.T) {
	rec := &recorder{err: errors.New("server down")}
	s := New(rec.save, WithDelay(10*time.Millisecond), WithStatusFunc(rec.status))
	defer s.Stop()

	s.CodeChanged("doomed")
	waitFor(t, func() bool { return rec.lastStatus() == StatusFailed })

	// The saver recovers on the next edit.
	rec.mu.Lock()
	rec.err = nil
	rec.mu.Unlock()

	s.CodeChanged("retry")
	waitFor(t, func() bool { return len(rec.savedCodes()) > 0 })
	assert.Equal(t, []string{"retry"}, rec.savedCodes())
	assert.Equal(t, StatusSaved, rec.lastStatus())
}

func TestSaver_Flush(t *testing.T) {
	rec := &recorder{}
	s := New(rec.save, WithDelay(time.Hour))
	defer s.Stop()

	s.CodeChanged("pending edit")
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, []string{"pending edit"}, rec.savedCodes())

	// Nothing pending, nothing saved.
	require.NoError(t, s.Flush(context.Background()))
	assert.Len(t, rec.savedCodes(), 1)
}

func TestSaver_StopCancelsPending(t *testing.T) {
	rec := &recorder{}
	s := New(rec.save, WithDelay(20*time.Millisecond))

	s.CodeChanged("never saved")
	s.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.savedCodes())

	// Edits after Stop are ignored.
	s.CodeChanged("still nothing")
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.savedCodes())
}
