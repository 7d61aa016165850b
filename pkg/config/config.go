package config

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"gopkg.in/ini.v1"
)

// PublicAPIURL is the github.com REST endpoint.
const PublicAPIURL = "https://api.github.com"

const (
	dirName         = ".nightly-prune"
	credentialsFile = "credentials"
	configFile      = "config"
)

// ProfileConfig holds the credentials stored for one profile
type ProfileConfig struct {
	Name   string
	Token  string
	APIURL string
}

// Dir returns ~/.nightly-prune
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %v", err)
	}
	return filepath.Join(home, dirName), nil
}

// GetProfileName determines the active profile, falling back to "default"
func GetProfileName(profileFlag string) string {
	if profileFlag != "" {
		return profileFlag
	}
	return "default"
}

// GetProfileConfig returns the credentials for the specified profile. An empty
// name selects the default profile recorded in the config file.
func GetProfileConfig(profileName string) (*ProfileConfig, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	if profileName == "" {
		configPath := filepath.Join(dir, configFile)
		cfg, err := ini.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("no profile specified and could not read config file at %s", configPath)
		}
		profileName = cfg.Section("default").Key("profile").String()
		if profileName == "" {
			return nil, fmt.Errorf("no profile specified and no default profile set in %s", configPath)
		}
	}

	credsPath := filepath.Join(dir, credentialsFile)
	creds, err := ini.Load(credsPath)
	if err != nil {
		return nil, fmt.Errorf("could not read credentials file at %s: %v", credsPath, err)
	}

	profile, err := creds.GetSection(profileName)
	if err != nil {
		return nil, fmt.Errorf("profile '%s' not found in %s", profileName, credsPath)
	}

	token := profile.Key("token").String()
	if token == "" {
		return nil, fmt.Errorf("profile '%s' is missing token", profileName)
	}

	return &ProfileConfig{
		Name:   profileName,
		Token:  token,
		APIURL: profile.Key("api_url").String(),
	}, nil
}

// SaveProfile writes the profile's credentials and makes it the default profile
func SaveProfile(profile, token, apiURL string) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %v", dir, err)
	}

	credsPath := filepath.Join(dir, credentialsFile)
	creds, err := ini.Load(credsPath)
	if err != nil {
		creds = ini.Empty()
	}
	creds.Section(profile).Key("token").SetValue(token)
	if apiURL != "" {
		creds.Section(profile).Key("api_url").SetValue(apiURL)
	}
	if err := creds.SaveTo(credsPath); err != nil {
		return fmt.Errorf("failed to save credentials: %v", err)
	}
	if err := os.Chmod(credsPath, 0600); err != nil {
		return fmt.Errorf("failed to restrict credentials file permissions: %v", err)
	}

	configPath := filepath.Join(dir, configFile)
	configIni := ini.Empty()
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := ini.Load(configPath); err == nil {
			configIni = loaded
		}
	}
	configIni.Section("default").Key("profile").SetValue(profile)
	if err := configIni.SaveTo(configPath); err != nil {
		return fmt.Errorf("failed to save config file: %v", err)
	}
	return nil
}

// NewClient builds a GitHub client. Any API URL other than github.com's is
// treated as a GitHub Enterprise Server base URL.
func NewClient(token, apiURL string) (*github.Client, error) {
	client := github.NewClient(&http.Client{Timeout: 60 * time.Second})
	if token != "" {
		client = client.WithAuthToken(token)
	}

	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" || apiURL == PublicAPIURL {
		return client, nil
	}
	client, err := client.WithEnterpriseURLs(apiURL, apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %v", apiURL, err)
	}
	return client, nil
}
