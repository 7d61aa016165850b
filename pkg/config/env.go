package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables provided by GitHub Actions to every job
const (
	EnvRepository = "GITHUB_REPOSITORY"
	EnvSHA        = "GITHUB_SHA"
	EnvToken      = "GITHUB_TOKEN"
	EnvAPIURL     = "GITHUB_API_URL"
)

// Settings are the inputs of a prune run once flags, environment and profile
// have been merged
type Settings struct {
	Repo   string
	SHA    string
	Token  string
	APIURL string
}

// FromEnv reads the CI execution context from the environment
func FromEnv() Settings {
	return Settings{
		Repo:   strings.TrimSpace(os.Getenv(EnvRepository)),
		SHA:    strings.TrimSpace(os.Getenv(EnvSHA)),
		Token:  strings.TrimSpace(os.Getenv(EnvToken)),
		APIURL: strings.TrimSpace(os.Getenv(EnvAPIURL)),
	}
}

// Resolve merges settings with precedence flags, then environment, then the
// profile. A missing profile is only an error when one was named explicitly.
func Resolve(flags Settings, profileName string) (Settings, error) {
	env := FromEnv()
	s := Settings{
		Repo:   firstNonEmpty(flags.Repo, env.Repo),
		SHA:    firstNonEmpty(flags.SHA, env.SHA),
		Token:  firstNonEmpty(flags.Token, env.Token),
		APIURL: firstNonEmpty(flags.APIURL, env.APIURL),
	}

	if s.Token == "" || s.APIURL == "" {
		profile, err := GetProfileConfig(profileName)
		switch {
		case err == nil:
			s.Token = firstNonEmpty(s.Token, profile.Token)
			s.APIURL = firstNonEmpty(s.APIURL, profile.APIURL)
		case profileName != "":
			return s, err
		}
	}

	return s, nil
}

// Validate checks that the repository and the requested optional settings are
// present. Read-only operations need neither a commit nor a token.
func (s Settings) Validate(requireSHA, requireToken bool) error {
	var missing []string
	if s.Repo == "" {
		missing = append(missing, "--repo ("+EnvRepository+")")
	}
	if requireSHA && s.SHA == "" {
		missing = append(missing, "--sha ("+EnvSHA+")")
	}
	if requireToken && s.Token == "" {
		missing = append(missing, "--token ("+EnvToken+" or a login profile)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
