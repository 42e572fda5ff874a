package fileops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrNotText is returned by ReadText when a file's bytes are not valid UTF-8.
var ErrNotText = errors.New("content is not valid UTF-8 text")

// ExpandPath expands a leading "~/" to the user's home directory.
// Paths without the prefix, or when the home directory cannot be
// determined, are returned unchanged.
func ExpandPath(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}

	return filepath.Join(home, p[2:])
}

// OpenRoot opens dir as a security boundary for subsequent reads.
//
// All names passed to ReadText and ListFiles are resolved beneath the
// returned root; names that escape it (absolute paths, "..", symlinks
// pointing outside) fail with an error instead of being followed.
func OpenRoot(dir string) (*os.Root, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}

	abs, err := filepath.Abs(ExpandPath(dir))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve root directory: %w", err)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot open root directory: %w", err)
	}
	return root, nil
}

// Exists reports whether name resolves to an existing entry beneath root.
// The error is non-nil only when existence could not be determined.
func Exists(root *os.Root, name string) (bool, error) {
	_, err := root.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReadText reads name beneath root as UTF-8 text.
//
// Line endings are normalized the way text-mode readers do it: "\r\n"
// and lone "\r" both become "\n". Bytes that are not valid UTF-8 yield
// an error wrapping ErrNotText.
func ReadText(root *os.Root, name string) (string, error) {
	f, err := root.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", name, ErrNotText)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}

// ListFiles returns the regular, non-hidden files directly inside dir
// (relative to root) for which filter returns true. Returned names are
// slash-separated paths relative to root, sorted lexically. A nil filter
// accepts every file. Subdirectories are not descended into.
func ListFiles(root *os.Root, dir string, filter func(name string) bool) ([]string, error) {
	d, err := root.Open(dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	entries, err := d.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if filter != nil && !filter(name) {
			continue
		}
		files = append(files, path.Join(filepath.ToSlash(dir), name))
	}

	slices.Sort(files)
	return files, nil
}
