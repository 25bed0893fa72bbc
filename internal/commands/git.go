package commands

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

var (
	sshRemoteRegex   = regexp.MustCompile(`git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)
	httpsRemoteRegex = regexp.MustCompile(`https://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// IsGitRepository checks if the current directory is a git repository
func IsGitRepository() bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// detectRepository is swapped out in tests
var detectRepository = detectGitRepository

// detectGitRepository reads owner and repo from the origin remote of the current directory
func detectGitRepository() (string, string, error) {
	if !IsGitRepository() {
		return "", "", fmt.Errorf("not in a git repository")
	}

	output, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to read git remote: %w", err)
	}

	return ParseRemoteURL(strings.TrimSpace(string(output)))
}

// ParseRemoteURL extracts owner and repo from SSH or HTTPS GitHub remote URLs
func ParseRemoteURL(remoteURL string) (string, string, error) {
	if matches := sshRemoteRegex.FindStringSubmatch(remoteURL); len(matches) == 3 {
		return matches[1], matches[2], nil
	}

	if matches := httpsRemoteRegex.FindStringSubmatch(remoteURL); len(matches) == 3 {
		return matches[1], matches[2], nil
	}

	return "", "", fmt.Errorf("unable to parse GitHub remote URL: %s", remoteURL)
}
