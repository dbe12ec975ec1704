package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Submit code for an AI review",
	Long: `Submits code for review and prints the result as Markdown. The code is
read from the given file, or from stdin when no file is passed. Works
without an account; when logged in, the review is also recorded in your
history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			code []byte
			err  error
		)
		if len(args) == 1 {
			code, err = os.ReadFile(args[0])
		} else {
			code, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("reading code: %w", err)
		}
		if len(code) == 0 {
			return fmt.Errorf("no code to review")
		}

		token, err := currentToken()
		if err != nil {
			return err
		}

		review, err := newClient().Review(cmd.Context(), token, string(code))
		if err != nil {
			return fmt.Errorf("%s", describeErr(err))
		}

		fmt.Fprintln(cmd.OutOrStdout(), review)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
