package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// WorkspaceRoot returns the root of the git worktree containing dir, or dir
// itself when dir is not inside a repository.
func WorkspaceRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return dir, nil
		}
		return "", fmt.Errorf("opening repository at %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree to hold the file.
		if errors.Is(err, git.ErrIsBareRepository) {
			return dir, nil
		}
		return "", fmt.Errorf("resolving worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// Init writes an empty lints.toml into dir and returns it bound to the new
// file. An existing file is never overwritten.
func Init(dir string) (*Lints, error) {
	path := filepath.Join(dir, FileName)

	l := New()
	data, err := l.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrExists, path)
		}
		return nil, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}

	l.Source = BoundTo(path)
	l.raw = data
	return l, nil
}
