// Package repository keeps a git-backed rules directory up to date.
//
// A rules directory normally lives in the project (.cursor/rules), but a
// team may publish its DSS rules in a shared repository instead. GitSource
// clones that repository into the rules directory and refreshes it on
// demand:
//
//	gs := repository.NewGitSource(cfg.Remote.URL, cfg.Remote.Branch, rulesDir)
//	result, err := gs.Sync(logger)
//
// Sync behaviour by directory state:
//
//   - missing or empty: clone (single branch when a branch is configured)
//   - same repository: fetch origin and hard-reset to the remote branch
//   - same repository with uncommitted changes: left untouched, SyncSkippedDirty
//   - anything else: refused with an error, nothing is modified
//
// SSH remotes are rewritten to HTTPS because token authentication only
// works over HTTPS. Local repository paths are used as given.
//
// # Authentication
//
// Public access is tried first. When the remote answers with an
// authentication error the GitHub personal access token stored by
// CredentialManager is used. Tokens are kept in the OS keyring (macOS
// Keychain, Windows Credential Manager, Secret Service on Linux) and are
// never written to the config file.
package repository
