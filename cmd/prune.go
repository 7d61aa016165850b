package cmd

import (
	"fmt"
	"time"

	"github.com/Facets-cloud/nightly-prune/pkg/config"
	"github.com/Facets-cloud/nightly-prune/pkg/hosting"
	"github.com/Facets-cloud/nightly-prune/pkg/prune"
	"github.com/Facets-cloud/nightly-prune/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	pruneRepo   string
	pruneSHA    string
	pruneTag    string
	pruneKeep   int
	pruneToken  string
	pruneAPIURL string
	pruneDryRun bool
	pruneForce  bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest nightly assets and move the nightly tag to the current commit.",
	Long: `Look up the release tagged --tag, delete every asset except the --keep most recently
created ones, then move the tag to --sha. Steps run in order and the first failure
stops the run: a failed deletion leaves the tag where it was.`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().StringVarP(&pruneRepo, "repo", "r", "", "Repository as owner/name (default $GITHUB_REPOSITORY)")
	pruneCmd.Flags().StringVar(&pruneSHA, "sha", "", "Commit to move the tag to (default $GITHUB_SHA)")
	pruneCmd.Flags().StringVarP(&pruneTag, "tag", "t", prune.DefaultTag, "Tag of the release to prune")
	pruneCmd.Flags().IntVarP(&pruneKeep, "keep", "k", prune.DefaultKeep, "Number of newest assets to keep")
	pruneCmd.Flags().StringVar(&pruneToken, "token", "", "GitHub token (default $GITHUB_TOKEN, then the profile)")
	pruneCmd.Flags().StringVar(&pruneAPIURL, "api-url", "", "GitHub API URL (default $GITHUB_API_URL, then the profile, then api.github.com)")
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "Show what would be deleted without changing anything")
	pruneCmd.Flags().BoolVar(&pruneForce, "force", false, "Allow moving the tag to a commit that is not a fast-forward")
}

func runPrune(cmd *cobra.Command, args []string) error {
	profile, _ := cmd.Flags().GetString("profile")
	settings, err := config.Resolve(config.Settings{
		Repo:   pruneRepo,
		SHA:    pruneSHA,
		Token:  pruneToken,
		APIURL: pruneAPIURL,
	}, profile)
	if err != nil {
		return fmt.Errorf("❌ Failed to load profile: %v", err)
	}
	if err := settings.Validate(true, !pruneDryRun); err != nil {
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

	out := cmd.OutOrStdout()
	start := time.Now()
	r, stop := newReporter(cmd.Context(), out, fmt.Sprintf("🚀 Pruning release %q in %s...", pruneTag, repo))
	defer stop()

	opts := prune.DefaultOptions()
	opts.Keep = pruneKeep
	opts.DryRun = pruneDryRun
	opts.Force = pruneForce
	opts.Progress = r

	result, err := prune.New(hosting.NewGitHub(client), opts).Prune(cmd.Context(), prune.Target{
		Repo: repo,
		Tag:  pruneTag,
		SHA:  settings.SHA,
	})
	if err != nil {
		r.Fail("❌ Prune failed")
		if result != nil {
			printAssets(out, "deleted", result.Deleted)
		}
		return err
	}

	elapsed := utils.FormatDuration(time.Since(start))
	if result.DryRun {
		r.Stop(fmt.Sprintf("🔍 Dry run: %d asset(s) would be deleted, %s would move to %s (%s)",
			len(result.Deleted), result.Ref, utils.ShortSHA(settings.SHA), elapsed))
		printAssets(out, "keep", result.Kept)
		printAssets(out, "would delete", result.Deleted)
		return nil
	}

	r.Stop(fmt.Sprintf("✅ Deleted %d asset(s), kept %d, %s now at %s (%s)",
		len(result.Deleted), len(result.Kept), result.Ref, utils.ShortSHA(settings.SHA), elapsed))
	printAssets(out, "kept", result.Kept)
	printAssets(out, "deleted", result.Deleted)
	return nil
}
