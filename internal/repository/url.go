package repository

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	sshURLPattern    = regexp.MustCompile(`^git@([^:]+):([^/]+)/(.+?)(?:\.git)?$`)
	sshPrefixPattern = regexp.MustCompile(`^git@([^:]+):(.+)$`)
)

// GitURLInfo contains the parsed components of a Git repository URL.
type GitURLInfo struct {
	Host  string // Host (e.g., "github.com")
	Owner string // Repository owner/organization
	Repo  string // Repository name (without .git suffix)
}

// ParseGitURL parses a Git repository URL and extracts its components.
// It supports both SSH (git@host:owner/repo.git) and HTTPS (https://host/owner/repo.git) formats.
//
// Example:
//
//	info, err := repository.ParseGitURL("https://github.com/user/repo.git")
//	// info.Host = "github.com", info.Owner = "user", info.Repo = "repo"
func ParseGitURL(gitURL string) (GitURLInfo, error) {
	gitURL = strings.TrimSpace(gitURL)

	if matches := sshURLPattern.FindStringSubmatch(gitURL); matches != nil {
		return GitURLInfo{
			Host:  matches[1],
			Owner: matches[2],
			Repo:  matches[3],
		}, nil
	}

	parsedURL, err := url.Parse(gitURL)
	if err != nil {
		return GitURLInfo{}, fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Host == "" {
		return GitURLInfo{}, fmt.Errorf("URL missing host component")
	}

	pathParts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
	if len(pathParts) < 2 {
		return GitURLInfo{}, fmt.Errorf("URL path should contain owner/repo: %s", parsedURL.Path)
	}

	owner := pathParts[0]
	repo := strings.TrimSuffix(pathParts[1], ".git")

	if owner == "" || repo == "" {
		return GitURLInfo{}, fmt.Errorf("could not extract owner/repo from URL path: %s", parsedURL.Path)
	}

	return GitURLInfo{
		Host:  parsedURL.Host,
		Owner: owner,
		Repo:  repo,
	}, nil
}

// isLocalRemote reports whether remote names a repository on this machine.
func isLocalRemote(remote string) bool {
	return strings.HasPrefix(remote, "file://") || filepath.IsAbs(remote)
}

// normalizeRemoteURL converts SSH URLs to HTTPS with a .git suffix, since
// token authentication only works over HTTPS. Local repositories are used
// as given.
func normalizeRemoteURL(remote string) (string, error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return "", fmt.Errorf("remote URL cannot be empty")
	}
	if isLocalRemote(remote) {
		return remote, nil
	}

	info, err := ParseGitURL(remote)
	if err != nil {
		return "", fmt.Errorf("invalid Git URL format: %w", err)
	}

	return fmt.Sprintf("https://%s/%s/%s.git", info.Host, info.Owner, info.Repo), nil
}

// normalizeGitURL reduces a URL to a comparable form so that SSH and HTTPS
// URLs of the same repository compare equal.
func normalizeGitURL(gitURL string) string {
	gitURL = strings.TrimSpace(gitURL)
	gitURL = strings.TrimSuffix(gitURL, "/")
	gitURL = strings.TrimSuffix(gitURL, ".git")

	// git@github.com:owner/repo -> github.com/owner/repo
	if matches := sshPrefixPattern.FindStringSubmatch(gitURL); matches != nil {
		return matches[1] + "/" + matches[2]
	}

	for _, scheme := range []string{"https://", "http://", "file://"} {
		if after, found := strings.CutPrefix(gitURL, scheme); found {
			return after
		}
	}

	return gitURL
}
