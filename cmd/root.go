package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Facets-cloud/nightly-prune/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var asciiArt = `
 ┏┓╻╻┏━╸╻ ╻╺┳╸╻  ╻ ╻   ┏━┓┏━┓╻ ╻┏┓╻┏━╸
 ┃┗┫┃┃╺┓┣━┫ ┃ ┃  ┗┳┛╺━╸┣━┛┣┳┛┃ ┃┃┗┫┣╸
 ╹ ╹╹┗━┛╹ ╹ ╹ ┗━╸ ╹    ╹  ╹┗╸┗━┛╹ ╹┗━╸
`

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "nightly-prune",
	Short: "Keep a rolling nightly release small and its tag on the latest commit.",
	Long: `nightly-prune maintains a rolling "nightly" GitHub release from CI.

On every run it:
- Looks up the release carrying the nightly tag
- Deletes every asset except the three most recently uploaded
- Moves the nightly tag to the commit being built

Inside GitHub Actions the repository, commit and token are read from
GITHUB_REPOSITORY, GITHUB_SHA and GITHUB_TOKEN.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Banner only for humans, CI logs stay clean
		if utils.IsTerminal(os.Stdout) {
			fmt.Println(asciiArt)
		}
		return configureLogging(logLevel, logFormat)
	},
}

func Execute() {
	rootCmd.SuggestionsMinimumDistance = 1

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("profile", "p", "", "The profile to use from your credentials file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
}

// configureLogging sets up the standard logrus logger used by the pruner.
// Logs go to stderr so stdout carries only the run summary.
func configureLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("❌ invalid --log-level: %v", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)

	switch format {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("❌ invalid --log-format %q: expected text or json", format)
	}
	return nil
}
