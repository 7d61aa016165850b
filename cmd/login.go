package cmd

import (
	"fmt"

	"github.com/Facets-cloud/nightly-prune/pkg/config"
	"github.com/Facets-cloud/nightly-prune/pkg/hosting"
	"github.com/Facets-cloud/nightly-prune/pkg/utils"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify a GitHub token and save it to a profile for local runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, _ := cmd.Flags().GetString("profile")
		token, _ := cmd.Flags().GetString("token")
		apiURL, _ := cmd.Flags().GetString("api-url")

		if token == "" {
			var err error
			token, err = utils.ReadMaskedInput("🔑 GitHub token: ")
			if err != nil {
				return fmt.Errorf("❌ Failed to read token: %v", err)
			}
			if token == "" {
				return fmt.Errorf("❌ A token is required")
			}
		}

		r, stop := newReporter(cmd.Context(), cmd.OutOrStdout(), "🔐 Verifying token...")
		defer stop()

		client, err := config.NewClient(token, apiURL)
		if err != nil {
			r.Fail(fmt.Sprintf("❌ Login failed: %v", err))
			return err
		}

		login, err := hosting.NewGitHub(client).CurrentUser(cmd.Context())
		if err != nil {
			r.Fail(fmt.Sprintf("❌ Authentication failed: %v", err))
			return err
		}

		usedProfile := config.GetProfileName(profile)
		r.UpdateMessage("💾 Saving credentials for profile: " + usedProfile)
		if err := config.SaveProfile(usedProfile, token, apiURL); err != nil {
			r.Fail(fmt.Sprintf("❌ %v", err))
			return err
		}

		r.Stop(fmt.Sprintf("✅ Logged in as %s! Credentials saved to profile '%s'", login, usedProfile))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().String("token", "", "GitHub token (prompted for when omitted)")
	loginCmd.Flags().String("api-url", "", "GitHub API URL for GitHub Enterprise Server")
}
