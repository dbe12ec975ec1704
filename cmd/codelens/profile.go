package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the logged-in user's profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := currentToken()
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("not logged in; run `codelens login` first")
		}

		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")

		client := newClient()
		out := cmd.OutOrStdout()

		if name != "" || email != "" {
			profile, err := client.UpdateProfile(cmd.Context(), token, name, email)
			if err != nil {
				return fmt.Errorf("%s", describeErr(err))
			}
			fmt.Fprintf(out, "Updated profile: %s <%s>\n", profile.Name, profile.Email)
			return nil
		}

		profile, err := client.GetProfile(cmd.Context(), token)
		if err != nil {
			return fmt.Errorf("%s", describeErr(err))
		}

		fmt.Fprintf(out, "%s <%s>\n", profile.Name, profile.Email)
		if profile.LastCode != "" {
			fmt.Fprintf(out, "Last saved snippet: %d bytes\n", len(profile.LastCode))
		}
		fmt.Fprintf(out, "Recent reviews: %d\n", len(profile.ReviewHistory))
		for _, rec := range profile.ReviewHistory {
			fmt.Fprintf(out, "  %s  %s\n", rec.CreatedAt.Format("2006-01-02 15:04"), firstLine(rec.Code))
		}
		return nil
	},
}

func init() {
	profileCmd.Flags().String("name", "", "update display name")
	profileCmd.Flags().String("email", "", "update email address")
	rootCmd.AddCommand(profileCmd)
}
