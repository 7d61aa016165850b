package cmd

import (
	"fmt"

	"github.com/Facets-cloud/nightly-prune/pkg/config"
	"github.com/Facets-cloud/nightly-prune/pkg/hosting"
	"github.com/Facets-cloud/nightly-prune/pkg/prune"
	"github.com/Facets-cloud/nightly-prune/pkg/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	assetsRepo   string
	assetsTag    string
	assetsKeep   int
	assetsToken  string
	assetsAPIURL string
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List a release's assets newest first and show which ones prune would keep.",
	Long:  `Read-only view of the release tagged --tag. Assets are ordered the same way prune orders them, so the first --keep rows are the ones a prune run leaves in place.`,
	RunE:  runAssets,
}

func init() {
	rootCmd.AddCommand(assetsCmd)

	assetsCmd.Flags().StringVarP(&assetsRepo, "repo", "r", "", "Repository as owner/name (default $GITHUB_REPOSITORY)")
	assetsCmd.Flags().StringVarP(&assetsTag, "tag", "t", prune.DefaultTag, "Tag of the release to list")
	assetsCmd.Flags().IntVarP(&assetsKeep, "keep", "k", prune.DefaultKeep, "Number of newest assets prune would keep")
	assetsCmd.Flags().StringVar(&assetsToken, "token", "", "GitHub token (default $GITHUB_TOKEN, then the profile)")
	assetsCmd.Flags().StringVar(&assetsAPIURL, "api-url", "", "GitHub API URL (default $GITHUB_API_URL, then the profile, then api.github.com)")
}

func runAssets(cmd *cobra.Command, args []string) error {
	profile, _ := cmd.Flags().GetString("profile")
	settings, err := config.Resolve(config.Settings{
		Repo:   assetsRepo,
		Token:  assetsToken,
		APIURL: assetsAPIURL,
	}, profile)
	if err != nil {
		return fmt.Errorf("❌ Failed to load profile: %v", err)
	}
	if err := settings.Validate(false, false); err != nil {
		return fmt.Errorf("❌ %v", err)
	}
	repo, err := utils.ParseRepository(settings.Repo)
	if err != nil {
		return fmt.Errorf("❌ %v", err)
	}
	client, err := config.NewClient(settings.Token, settings.APIURL)
	if err != nil {
		return fmt.Errorf("❌ Failed to create GitHub client: %v", err)
	}
	gh := hosting.NewGitHub(client)

	out := cmd.OutOrStdout()
	r, stop := newReporter(cmd.Context(), out, fmt.Sprintf("🔎 Looking up release %q in %s...", assetsTag, repo))
	defer stop()

	rel, err := gh.GetReleaseByTag(cmd.Context(), repo, assetsTag)
	if err != nil {
		r.Fail("❌ Release lookup failed")
		if errors.Is(err, hosting.ErrNotFound) {
			return &prune.NotFoundError{Repo: repo, Tag: assetsTag, Err: err}
		}
		return err
	}

	r.UpdateMessage(fmt.Sprintf("📦 Listing assets of release %d...", rel.ID))
	assets, err := gh.ListReleaseAssets(cmd.Context(), repo, rel.ID)
	if err != nil {
		r.Fail("❌ Listing assets failed")
		return err
	}

	kept, doomed := prune.Plan(assets, assetsKeep)
	r.Stop(fmt.Sprintf("📋 Release %q has %d asset(s): %d kept, %d to delete", assetsTag, len(assets), len(kept), len(doomed)))
	printAssets(out, "keep", kept)
	printAssets(out, "delete", doomed)
	return nil
}
