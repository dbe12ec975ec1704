package main

import (
	"fmt"
	"syscall"

	"codelens/internal/client/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		resp, err := newClient().Register(cmd.Context(), name, email, password)
		if err != nil {
			return fmt.Errorf("%s", describeErr(err))
		}

		if err := persistSession(resp.Token, resp.ID, resp.Name, resp.Email, resp.LastCode); err != nil {
			return err
		}
		fmt.Printf("Registered and logged in as %s <%s>\n", resp.Name, resp.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an existing account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		resp, err := newClient().Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("%s", describeErr(err))
		}

		if err := persistSession(resp.Token, resp.ID, resp.Name, resp.Email, resp.LastCode); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s <%s>\n", resp.Name, resp.Email)
		if resp.LastCode != "" {
			fmt.Println("Your last saved snippet is available via `codelens save --show`.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("email", "", "email address")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")

	loginCmd.Flags().String("email", "", "email address")
	_ = loginCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd)
}

func persistSession(token string, id uint, name, email, lastCode string) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	return store.Save(&session.Session{
		Token: token,
		User: session.User{
			ID:       id,
			Name:     name,
			Email:    email,
			LastCode: lastCode,
		},
	})
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}
