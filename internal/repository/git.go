package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dssrules/internal/logging"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
)

// DirectoryStatus represents the state of a target clone directory
type DirectoryStatus int

const (
	// DirectoryStatusEmpty indicates the directory doesn't exist or is empty - safe to clone
	DirectoryStatusEmpty DirectoryStatus = iota
	// DirectoryStatusSameRepo indicates the directory contains the same git repository - safe to fetch
	DirectoryStatusSameRepo
	// DirectoryStatusDifferentRepo indicates the directory contains a different git repository
	DirectoryStatusDifferentRepo
	// DirectoryStatusConflict indicates the directory contains non-git content
	DirectoryStatusConflict
	// DirectoryStatusError indicates an error occurred during validation
	DirectoryStatusError
)

// String returns a human-readable description of the directory status
func (ds DirectoryStatus) String() string {
	switch ds {
	case DirectoryStatusEmpty:
		return "empty or doesn't exist"
	case DirectoryStatusSameRepo:
		return "same git repository"
	case DirectoryStatusDifferentRepo:
		return "different git repository"
	case DirectoryStatusConflict:
		return "contains non-git content"
	case DirectoryStatusError:
		return "validation error"
	default:
		return "unknown status"
	}
}

// SyncStatus is the outcome of a successful Sync.
type SyncStatus int

const (
	SyncCloned SyncStatus = iota
	SyncUpdated
	SyncUpToDate
	// SyncSkippedDirty means local changes were found and left untouched.
	SyncSkippedDirty
)

func (s SyncStatus) String() string {
	switch s {
	case SyncCloned:
		return "cloned"
	case SyncUpdated:
		return "updated"
	case SyncUpToDate:
		return "already up to date"
	case SyncSkippedDirty:
		return "skipped (uncommitted local changes)"
	default:
		return "unknown"
	}
}

// SyncResult describes what Sync did to the rules directory.
type SyncResult struct {
	Status SyncStatus
	Path   string
	Commit string // HEAD after the sync
}

// GitSource keeps a rules directory in step with a remote git repository.
//
// A missing or empty directory is cloned. A directory already holding the
// same repository is fetched and hard-reset to the remote branch, unless it
// has uncommitted changes, which are never discarded. Directories holding
// anything else are refused.
//
// Public access is tried first; on an authentication failure the token from
// the credential store is used.
type GitSource struct {
	RemoteURL   string // HTTPS, SSH (converted to HTTPS) or a local repository path
	Branch      string // empty follows the remote's default branch
	Path        string
	Credentials *CredentialManager
}

// NewGitSource creates a GitSource using the OS credential store.
func NewGitSource(remoteURL, branch, localPath string) GitSource {
	return GitSource{
		RemoteURL:   remoteURL,
		Branch:      strings.TrimSpace(branch),
		Path:        localPath,
		Credentials: NewCredentialManager(),
	}
}

// Sync clones or updates the rules directory.
func (gs GitSource) Sync(logger *logging.AppLogger) (SyncResult, error) {
	logger.Info("Syncing rules from git", "remoteURL", gs.RemoteURL, "branch", gs.Branch, "path", gs.Path)

	if strings.TrimSpace(gs.Path) == "" {
		return SyncResult{}, fmt.Errorf("local path cannot be empty")
	}

	remoteURL, err := normalizeRemoteURL(gs.RemoteURL)
	if err != nil {
		return SyncResult{}, fmt.Errorf("invalid remote URL: %w", err)
	}

	localPath, err := filepath.Abs(gs.Path)
	if err != nil {
		return SyncResult{}, fmt.Errorf("cannot resolve absolute path: %w", err)
	}

	dirStatus, err := validateCloneDirectory(localPath, remoteURL)
	if err != nil {
		if dirStatus == DirectoryStatusConflict || dirStatus == DirectoryStatusDifferentRepo {
			return SyncResult{}, fmt.Errorf("directory conflict at %s (%s): please resolve manually by removing or relocating the existing directory: %w",
				localPath, dirStatus, err)
		}
		return SyncResult{}, err
	}

	var result SyncResult
	switch dirStatus {
	case DirectoryStatusEmpty:
		result, err = gs.cloneWithAuth(localPath, remoteURL, logger)
	case DirectoryStatusSameRepo:
		result, err = gs.updateWithAuth(localPath, logger)
	default:
		err = fmt.Errorf("unexpected directory status: %s", dirStatus)
	}
	if err != nil {
		return SyncResult{}, err
	}

	result.Path = localPath
	logger.Info("Rules sync finished", "status", result.Status, "commit", result.Commit)
	return result, nil
}

// withAuth runs op without credentials, retrying once with the stored
// token when the remote demands authentication.
func (gs GitSource) withAuth(op func(auth *http.BasicAuth) (SyncResult, error), logger *logging.AppLogger) (SyncResult, error) {
	result, err := op(nil)
	if err == nil || !isAuthenticationError(err) {
		return result, err
	}

	logger.Debug("Public access failed, trying with authentication")
	auth, authErr := gs.getAuthentication(logger)
	if authErr != nil {
		return SyncResult{}, fmt.Errorf("authentication required: %w", authErr)
	}
	return op(auth)
}

// getAuthentication returns token credentials from the credential store.
// GitHub PAT authentication uses "token" as the username.
func (gs GitSource) getAuthentication(logger *logging.AppLogger) (*http.BasicAuth, error) {
	creds := gs.Credentials
	if creds == nil {
		creds = NewCredentialManager()
	}

	token, err := creds.GetToken()
	if err != nil {
		return nil, err
	}

	logger.Debug("Using Personal Access Token for authentication")
	return &http.BasicAuth{
		Username: "token",
		Password: token,
	}, nil
}

func (gs GitSource) cloneWithAuth(localPath, remoteURL string, logger *logging.AppLogger) (SyncResult, error) {
	return gs.withAuth(func(auth *http.BasicAuth) (SyncResult, error) {
		return gs.clone(localPath, remoteURL, auth, logger)
	}, logger)
}

func (gs GitSource) clone(localPath, remoteURL string, auth *http.BasicAuth, logger *logging.AppLogger) (SyncResult, error) {
	logger.Info("Cloning repository", "remoteURL", remoteURL, "localPath", localPath)

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return SyncResult{}, fmt.Errorf("failed to create parent directory: %w", err)
	}

	cloneOpts := &git.CloneOptions{URL: remoteURL}
	if auth != nil {
		cloneOpts.Auth = auth
	}
	if gs.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(gs.Branch)
		cloneOpts.SingleBranch = true
	}

	repo, err := git.PlainClone(localPath, cloneOpts)
	if err != nil {
		// A failed clone can leave a partial .git behind that would make the
		// next attempt look like a conflict.
		_ = os.RemoveAll(filepath.Join(localPath, ".git"))
		return SyncResult{}, translateGitError("clone", gs.RemoteURL, err)
	}

	head, err := repo.Head()
	if err != nil {
		return SyncResult{}, fmt.Errorf("cloned repository has no HEAD: %w", err)
	}

	return SyncResult{Status: SyncCloned, Commit: head.Hash().String()}, nil
}

func (gs GitSource) updateWithAuth(localPath string, logger *logging.AppLogger) (SyncResult, error) {
	return gs.withAuth(func(auth *http.BasicAuth) (SyncResult, error) {
		return gs.update(localPath, auth, logger)
	}, logger)
}

// update fetches origin and hard-resets the worktree to the remote branch.
func (gs GitSource) update(localPath string, auth *http.BasicAuth, logger *logging.AppLogger) (SyncResult, error) {
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to open existing repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to get working tree status: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to get current branch: %w", err)
	}

	if !status.IsClean() {
		logger.Warn("Working tree has uncommitted changes, skipping sync", "path", localPath)
		return SyncResult{Status: SyncSkippedDirty, Commit: head.Hash().String()}, nil
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to get origin remote: %w", err)
	}

	fetchOpts := &git.FetchOptions{Force: true} // remote rules are authoritative, force-pushes included
	if auth != nil {
		fetchOpts.Auth = auth
	}
	err = remote.Fetch(fetchOpts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return SyncResult{}, translateGitError("fetch", gs.RemoteURL, err)
	}

	branch := gs.Branch
	if branch == "" {
		branch = head.Name().Short()
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		return SyncResult{}, fmt.Errorf("branch '%s' does not exist on remote 'origin': %w", branch, err)
	}

	if head.Name().Short() != branch {
		if err := checkoutBranch(repo, worktree, branch, remoteRef.Hash(), logger); err != nil {
			return SyncResult{}, err
		}
	} else if head.Hash() == remoteRef.Hash() {
		logger.Debug("Repository already up to date")
		return SyncResult{Status: SyncUpToDate, Commit: head.Hash().String()}, nil
	}

	if err := worktree.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return SyncResult{}, fmt.Errorf("failed to reset to origin/%s: %w", branch, err)
	}

	logger.Info("Repository updated", "branch", branch, "commit", remoteRef.Hash().String())
	return SyncResult{Status: SyncUpdated, Commit: remoteRef.Hash().String()}, nil
}

// checkoutBranch switches to branchName, creating the local branch at
// target when it does not exist yet.
func checkoutBranch(repo *git.Repository, worktree *git.Worktree, branchName string, target plumbing.Hash, logger *logging.AppLogger) error {
	logger.Debug("Checking out branch", "branch", branchName)

	localBranchRef := plumbing.NewBranchReferenceName(branchName)

	_, err := repo.Reference(localBranchRef, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		logger.Debug("Creating local branch", "branch", branchName)
		if err := repo.Storer.SetReference(plumbing.NewHashReference(localBranchRef, target)); err != nil {
			return fmt.Errorf("failed to create local branch: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to get local branch reference: %w", err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Branch: localBranchRef}); err != nil {
		return fmt.Errorf("failed to checkout branch: %w", err)
	}
	return nil
}

// validateCloneDirectory checks whether clonePath can receive a clone of
// expectedRemoteURL, or already holds it.
func validateCloneDirectory(clonePath, expectedRemoteURL string) (DirectoryStatus, error) {
	info, err := os.Stat(clonePath)
	if errors.Is(err, os.ErrNotExist) {
		return DirectoryStatusEmpty, nil
	}
	if err != nil {
		return DirectoryStatusError, fmt.Errorf("cannot access directory %s: %w", clonePath, err)
	}

	if !info.IsDir() {
		return DirectoryStatusError, fmt.Errorf("path exists but is not a directory: %s", clonePath)
	}

	entries, err := os.ReadDir(clonePath)
	if err != nil {
		return DirectoryStatusError, fmt.Errorf("cannot check if directory is empty: %w", err)
	}
	if len(entries) == 0 {
		return DirectoryStatusEmpty, nil
	}

	currentRemote, err := getGitRemoteURL(clonePath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return DirectoryStatusConflict, fmt.Errorf("directory contains non-git content: %s", clonePath)
	}
	if err != nil {
		return DirectoryStatusError, fmt.Errorf("cannot get current git remote URL: %w", err)
	}

	if normalizeGitURL(currentRemote) == normalizeGitURL(expectedRemoteURL) {
		return DirectoryStatusSameRepo, nil
	}

	return DirectoryStatusDifferentRepo, fmt.Errorf("directory contains different git repository (current: %s, expected: %s)", currentRemote, expectedRemoteURL)
}

// getGitRemoteURL returns the first URL of the origin remote.
func getGitRemoteURL(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("cannot get origin remote: %w", err)
	}

	config := remote.Config()
	if config == nil || len(config.URLs) == 0 {
		return "", fmt.Errorf("no URLs configured for origin remote")
	}
	return config.URLs[0], nil
}

// IsDirty reports whether the repository at repoPath has uncommitted changes.
func IsDirty(repoPath string) (bool, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return false, fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get repository status: %w", err)
	}

	return !status.IsClean(), nil
}

var authErrorPatterns = []string{
	"authentication required",
	"401",
	"unauthorized",
	"403",
	"forbidden",
}

func isAuthenticationError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, pattern := range authErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// translateGitError turns a go-git failure into a message that says what to
// do next. The original error stays wrapped, so isAuthenticationError still
// sees it.
func translateGitError(op, remoteURL string, err error) error {
	errStr := strings.ToLower(err.Error())

	switch {
	case isAuthenticationError(err):
		if strings.Contains(errStr, "403") || strings.Contains(errStr, "forbidden") {
			return fmt.Errorf("%s: access token lacks required permissions - ensure 'repo' scope is enabled: %w", op, err)
		}
		return fmt.Errorf("%s: authentication failed - run 'dssrules token set' with a valid token: %w", op, err)
	case strings.Contains(errStr, "404") || strings.Contains(errStr, "not found"):
		return fmt.Errorf("%s: repository not found - check the URL or ensure you have access to %s: %w", op, remoteURL, err)
	case strings.Contains(errStr, "network") || strings.Contains(errStr, "connection") || strings.Contains(errStr, "timeout"):
		return fmt.Errorf("%s: network error - check your internet connection and try again: %w", op, err)
	default:
		return fmt.Errorf("failed to %s repository: %w", op, err)
	}
}
