package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past reviews, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := currentToken()
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("not logged in; run `codelens login` first")
		}

		records, err := newClient().History(cmd.Context(), token)
		if err != nil {
			return fmt.Errorf("%s", describeErr(err))
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No reviews yet.")
			return nil
		}

		full, _ := cmd.Flags().GetBool("full")
		for i, rec := range records {
			fmt.Fprintf(out, "%3d  %s  %s\n", i+1,
				rec.CreatedAt.Format("2006-01-02 15:04"), firstLine(rec.Code))
			if full {
				fmt.Fprintln(out, indent(rec.Review, "     "))
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("full", false, "print the full review text")
	rootCmd.AddCommand(historyCmd)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 72 {
		s = s[:72] + "..."
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
