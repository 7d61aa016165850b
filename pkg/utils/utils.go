package utils

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/Facets-cloud/nightly-prune/pkg/hosting"
	"golang.org/x/term"
)

// Full commit ids: SHA-1 (40 hex) or SHA-256 (64 hex) object format.
var shaPattern = regexp.MustCompile(`^[0-9a-fA-F]{40}([0-9a-fA-F]{24})?$`)

// ParseRepository splits an "owner/name" string such as GITHUB_REPOSITORY.
func ParseRepository(s string) (hosting.Repository, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".git")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return hosting.Repository{}, fmt.Errorf("invalid repository %q, expected owner/name", s)
	}
	return hosting.Repository{Owner: parts[0], Name: parts[1]}, nil
}

// ValidateSHA checks that sha is a full commit id. Ref updates reject abbreviations.
func ValidateSHA(sha string) error {
	if sha == "" {
		return fmt.Errorf("commit SHA is required")
	}
	if !shaPattern.MatchString(sha) {
		return fmt.Errorf("invalid commit SHA %q, expected a full 40 or 64 character hex id", sha)
	}
	return nil
}

// ShortSHA abbreviates a commit id for display.
func ShortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ReadMaskedInput reads input from the terminal without echoing characters (for tokens)
func ReadMaskedInput(prompt string) (string, error) {
	fmt.Print(prompt)

	// Check if we're on a terminal
	if !term.IsTerminal(int(syscall.Stdin)) {
		reader := bufio.NewReader(os.Stdin)
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(input), nil
	}

	token, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}

	fmt.Println() // newline after masked input
	return strings.TrimSpace(string(token)), nil
}

// FormatDuration formats a time.Duration in a human-readable format
// Examples: "1m30s", "45s", "2h15m"
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}

	return strings.Join(parts, "")
}
