// Package security validates user-supplied file names before the logger
// writes experiment logs to disk.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrEmptyName is returned when an experiment name is blank.
var ErrEmptyName = errors.New("experiment name is empty")

// canonicalPath resolves symlinks in path. When path does not exist yet the
// nearest existing ancestor is resolved instead, so a new file under a
// symlinked directory is still placed where it will really be written.
func canonicalPath(absPath string) string {
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		return resolved
	}
	for dir := filepath.Dir(absPath); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rel, _ := filepath.Rel(dir, absPath)
			return filepath.Join(resolved, rel)
		}
		if filepath.Dir(dir) == dir {
			return absPath
		}
	}
}

// ValidatePathWithinDirectory checks that filePath stays inside safeDir once
// ".." components and symlinks are resolved.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}

	rel, err := filepath.Rel(canonicalPath(absSafeDir), canonicalPath(absPath))
	if err != nil {
		return fmt.Errorf("path is outside safe directory: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("path traversal detected: %s attempts to escape %s", filePath, safeDir)
	}
	return nil
}

// SanitizeFilename makes a safe filename from an arbitrary string. It replaces
// any characters that are not ASCII letters, digits, dot, underscore or dash
// with an underscore, collapses repeated replacements and caps the length.
func SanitizeFilename(s string) string {
	const maxLen = 128

	var b strings.Builder
	lastReplaced := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
			lastReplaced = false
		default:
			if !lastReplaced {
				b.WriteRune('_')
				lastReplaced = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}

// ExperimentFilename turns the name typed at the logger prompt into a log
// file name: surrounding space is trimmed, unsafe characters replaced and
// ".csv" appended when missing. "1m_10Hz" becomes "1m_10Hz.csv".
func ExperimentFilename(input string) (string, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		return "", ErrEmptyName
	}
	return SanitizeFilename(strings.TrimSuffix(name, ".csv")) + ".csv", nil
}

// ExperimentPath joins the experiment file name onto dir and verifies the
// result cannot escape it.
func ExperimentPath(dir, input string) (string, error) {
	name, err := ExperimentFilename(input)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := ValidatePathWithinDirectory(path, dir); err != nil {
		return "", err
	}
	return path, nil
}
