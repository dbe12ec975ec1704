// Package app holds the client's view state machine. One state machine
// drives every view; session changes and autosave are handled in a single
// place instead of per view.
package app

import (
	"context"
	"fmt"
	"sync"

	"codelens/internal/client/api"
	"codelens/internal/client/autosave"
	"codelens/internal/client/session"
	"codelens/internal/models"
)

// View is the screen the client currently shows.
type View int

const (
	ViewLanding View = iota
	ViewEditor
	ViewAuthRequired
	ViewProfile
	ViewHistory
)

func (v View) String() string {
	switch v {
	case ViewEditor:
		return "editor"
	case ViewAuthRequired:
		return "auth-required"
	case ViewProfile:
		return "profile"
	case ViewHistory:
		return "history"
	default:
		return "landing"
	}
}

// App owns the view state, the resolved session, and the editor content.
// The session is held explicitly and passed down; views never read global
// state on their own.
type App struct {
	client *api.Client
	store  *session.Store
	saver  *autosave.Saver

	mu      sync.Mutex
	view    View
	session *session.Session
	code    string
}

// New builds an App over the given API client and session store, resolving
// the persisted session and wiring autosave and change propagation.
func New(client *api.Client, store *session.Store) (*App, error) {
	sess, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	a := &App{
		client:  client,
		store:   store,
		view:    ViewLanding,
		session: sess,
		code:    autosave.DefaultSnippet,
	}
	if sess != nil && sess.User.LastCode != "" {
		a.code = sess.User.LastCode
	}

	a.saver = autosave.New(a.saveCode)

	go a.followSessionChanges(store.Subscribe())
	return a, nil
}

// Current returns the active view.
func (a *App) Current() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Session returns the resolved session, nil when anonymous.
func (a *App) Session() *session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Code returns the current editor content.
func (a *App) Code() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.code
}

// OpenEditor moves from the landing page into the editor. Without a
// session it lands on the auth-required view instead.
func (a *App) OpenEditor() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		a.view = ViewAuthRequired
	} else {
		a.view = ViewEditor
	}
	return a.view
}

// OpenProfile shows the profile view; requires a session.
func (a *App) OpenProfile() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		a.view = ViewAuthRequired
	} else {
		a.view = ViewProfile
	}
	return a.view
}

// OpenHistory shows the history view; requires a session.
func (a *App) OpenHistory() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		a.view = ViewAuthRequired
	} else {
		a.view = ViewHistory
	}
	return a.view
}

// Back returns to the landing page.
func (a *App) Back() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view = ViewLanding
	return a.view
}

// Login authenticates, persists the session, and enters the editor with
// the user's last autosaved snippet restored.
func (a *App) Login(ctx context.Context, email, password string) error {
	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.adoptAuth(resp)
}

// Register creates an account and enters the editor, already logged in.
func (a *App) Register(ctx context.Context, name, email, password string) error {
	resp, err := a.client.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	return a.adoptAuth(resp)
}

// Logout clears the persisted session. Other processes find out through
// the store's watcher.
func (a *App) Logout(ctx context.Context) error {
	// Best effort; on failure the draft just stays one save behind.
	_ = a.saver.Flush(ctx)
	a.saver.Stop()
	if err := a.store.Clear(); err != nil {
		return err
	}
	a.mu.Lock()
	a.session = nil
	a.view = ViewLanding
	a.mu.Unlock()
	return nil
}

// SetCode updates the editor content and arms the autosaver when a user
// is present.
func (a *App) SetCode(code string) {
	a.mu.Lock()
	a.code = code
	authenticated := a.session != nil
	a.mu.Unlock()

	if authenticated {
		a.saver.CodeChanged(code)
	}
}

// Review submits the current code and returns the generated review.
func (a *App) Review(ctx context.Context) (string, error) {
	a.mu.Lock()
	code := a.code
	token := ""
	if a.session != nil {
		token = a.session.Token
	}
	a.mu.Unlock()

	return a.client.Review(ctx, token, code)
}

// Profile fetches the logged-in user's profile.
func (a *App) Profile(ctx context.Context) (*api.Profile, error) {
	token, err := a.requireToken()
	if err != nil {
		return nil, err
	}
	return a.client.GetProfile(ctx, token)
}

// History fetches the logged-in user's review history, newest first.
func (a *App) History(ctx context.Context) ([]models.ReviewRecord, error) {
	token, err := a.requireToken()
	if err != nil {
		return nil, err
	}
	return a.client.History(ctx, token)
}

// Close flushes pending state and stops background work.
func (a *App) Close() error {
	_ = a.saver.Flush(context.Background())
	a.saver.Stop()
	return nil
}

func (a *App) adoptAuth(resp *api.AuthResponse) error {
	sess := &session.Session{
		Token: resp.Token,
		User: session.User{
			ID:       resp.ID,
			Name:     resp.Name,
			Email:    resp.Email,
			LastCode: resp.LastCode,
		},
	}
	if err := a.store.Save(sess); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	a.mu.Lock()
	a.session = sess
	a.view = ViewEditor
	if sess.User.LastCode != "" {
		a.code = sess.User.LastCode
	}
	a.mu.Unlock()
	return nil
}

// followSessionChanges keeps the in-memory session aligned with the store,
// covering logins and logouts performed elsewhere.
func (a *App) followSessionChanges(ch <-chan *session.Session) {
	for sess := range ch {
		a.mu.Lock()
		a.session = sess
		if sess == nil && (a.view == ViewEditor || a.view == ViewProfile || a.view == ViewHistory) {
			// Logged out elsewhere: protected views fall back.
			a.view = ViewAuthRequired
		}
		a.mu.Unlock()
	}
}

func (a *App) saveCode(ctx context.Context, code string) error {
	a.mu.Lock()
	token := ""
	if a.session != nil {
		token = a.session.Token
	}
	a.mu.Unlock()

	if token == "" {
		return nil
	}
	_, err := a.client.SaveCode(ctx, token, code)
	return err
}

func (a *App) requireToken() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return "", &api.Error{Kind: api.KindServer, Status: 401, Message: "Not logged in"}
	}
	return a.session.Token, nil
}
