// Command codelens is the terminal client for the CodeLens API: submit
// code for AI review, manage an account, and browse review history.
package main

import (
	"errors"
	"fmt"
	"os"

	"codelens/internal/client/api"
	"codelens/internal/client/session"

	"github.com/spf13/cobra"
)

var (
	serverURL   string
	sessionFile string
)

var rootCmd = &cobra.Command{
	Use:   "codelens",
	Short: "AI code review from the terminal",
	Long: `codelens submits code to a CodeLens server and prints the AI-generated
review. Reviews work without an account; logging in additionally records
them in your history and keeps your latest snippet synced.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		"http://localhost:3000", "CodeLens API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file",
		"", "session file path (default: user config dir)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient() *api.Client {
	return api.New(serverURL)
}

func newStore() (*session.Store, error) {
	path := sessionFile
	if path == "" {
		var err error
		path, err = session.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return session.NewStore(path), nil
}

// currentToken loads the persisted session token, empty when logged out.
func currentToken() (string, error) {
	store, err := newStore()
	if err != nil {
		return "", err
	}
	sess, err := store.Load()
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", nil
	}
	return sess.Token, nil
}

// describeErr turns a classified API error into a user-facing message.
func describeErr(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Kind {
	case api.KindTimeout:
		return "the server took too long to respond; try again"
	case api.KindNetwork:
		return fmt.Sprintf("could not reach %s; is the server running?", serverURL)
	case api.KindServer:
		return apiErr.Message
	default:
		return err.Error()
	}
}
