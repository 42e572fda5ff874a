package rules

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"dssrules/internal/logging"
	"dssrules/pkg/fileops"
)

// LoadStatus is the outcome of loading one identifier.
type LoadStatus int

const (
	Loaded LoadStatus = iota
	NotFound
	ReadFailed
)

// LoadResult is the outcome for one requested identifier. Content is set
// only when Status is Loaded; Err only when Status is ReadFailed.
type LoadResult struct {
	Identifier string
	Status     LoadStatus
	Content    string
	Err        error
}

// Reason describes why a document is missing: "not found" or
// "read error: <message>". It is empty for loaded documents.
func (r LoadResult) Reason() string {
	switch r.Status {
	case NotFound:
		return "not found"
	case ReadFailed:
		return "read error: " + r.Err.Error()
	default:
		return ""
	}
}

// Loader reads rule documents beneath a fixed root directory.
type Loader struct {
	root   string
	logger *logging.AppLogger
}

// NewLoader creates a Loader rooted at dir
func NewLoader(dir string, logger *logging.AppLogger) *Loader {
	return &Loader{root: dir, logger: logger}
}

// Root returns the directory documents are resolved against
func (l *Loader) Root() string {
	return l.root
}

// Load reads every identifier in order, duplicates included. A failure on
// one identifier is recorded in its result and never stops the batch.
func (l *Loader) Load(ids []string) []LoadResult {
	results := make([]LoadResult, 0, len(ids))

	root, err := fileops.OpenRoot(l.root)
	if err != nil {
		status := ReadFailed
		if errors.Is(err, fs.ErrNotExist) {
			status = NotFound
		}
		l.logger.Warn("Rules directory unavailable", "root", l.root, "error", err)
		for _, id := range ids {
			results = append(results, LoadResult{Identifier: id, Status: status, Err: err})
		}
		return results
	}
	defer root.Close()

	for _, id := range ids {
		l.logger.Info("Attempting to load rule file", "path", filepath.Join(l.root, id))
		results = append(results, l.loadOne(root, id))
	}
	return results
}

func (l *Loader) loadOne(root *os.Root, id string) LoadResult {
	exists, err := fileops.Exists(root, id)
	if err != nil {
		l.logger.Error("Error reading rule file", "file", id, "error", err)
		return LoadResult{Identifier: id, Status: ReadFailed, Err: err}
	}
	if !exists {
		l.logger.Warn("Rule file not found", "file", id)
		return LoadResult{Identifier: id, Status: NotFound}
	}

	content, err := fileops.ReadText(root, id)
	if err != nil {
		l.logger.Error("Error reading rule file", "file", id, "error", err)
		return LoadResult{Identifier: id, Status: ReadFailed, Err: err}
	}

	l.logger.Info("Loaded rule file", "file", id)
	return LoadResult{Identifier: id, Status: Loaded, Content: content}
}
