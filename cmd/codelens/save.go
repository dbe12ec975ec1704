package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Save an in-progress snippet to the server",
	Long: `Saves a code snippet as your in-progress draft. The snippet comes back on
your next login. With --show, prints the currently saved draft instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := currentToken()
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("not logged in; run `codelens login` first")
		}

		client := newClient()
		out := cmd.OutOrStdout()

		if show, _ := cmd.Flags().GetBool("show"); show {
			profile, err := client.GetProfile(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("%s", describeErr(err))
			}
			if profile.LastCode == "" {
				fmt.Fprintln(out, "No saved snippet.")
				return nil
			}
			fmt.Fprintln(out, profile.LastCode)
			return nil
		}

		var code []byte
		if len(args) == 1 {
			code, err = os.ReadFile(args[0])
		} else {
			code, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("reading code: %w", err)
		}
		if len(code) == 0 {
			return fmt.Errorf("no code to save")
		}

		if _, err := client.SaveCode(cmd.Context(), token, string(code)); err != nil {
			return fmt.Errorf("%s", describeErr(err))
		}
		fmt.Fprintln(out, "Saved.")
		return nil
	},
}

func init() {
	saveCmd.Flags().Bool("show", false, "print the saved snippet instead of saving")
	rootCmd.AddCommand(saveCmd)
}
