// Package source lists an API source directory and cuts its files into
// token chunks for the model.
package source

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yourorg/codespec/pkg/types"
)

// ErrNotText is returned for entries whose content is not text.
var ErrNotText = errors.New("not a text file")

// ListEntries resolves dir to an absolute path and returns it together
// with the names of its immediate entries, sorted by name. Entries are not
// filtered: subdirectories are listed like files.
func ListEntries(dir string, logger *slog.Logger) (string, []string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, &types.FilesystemError{Op: "resolve", Path: dir, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", nil, &types.FilesystemError{Op: "stat", Path: abs, Err: err}
	}
	if !info.IsDir() {
		return "", nil, &types.FilesystemError{Op: "list", Path: abs, Err: errors.New("not a directory")}
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return "", nil, &types.FilesystemError{Op: "list", Path: abs, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if logger != nil {
		logger.Info("loaded files", "dir", abs, "files", names)
	}
	return abs, names, nil
}

// ReadText reads path as UTF-8 text. Invalid sequences become U+FFFD;
// content with NUL bytes is rejected as binary.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &types.FilesystemError{Op: "read", Path: path, Err: err}
	}
	if bytes.IndexByte(data, 0) != -1 {
		return "", &types.FilesystemError{Op: "read", Path: path, Err: ErrNotText}
	}
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
	}
	return string(data), nil
}
