package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileName is the config file looked up during discovery.
const FileName = "lints.toml"

// StatFS is the filesystem capability discovery needs.
type StatFS interface {
	Stat(name string) (fs.FileInfo, error)
}

type osFS struct{}

func (osFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

// OSFS is the StatFS backed by the host filesystem.
var OSFS StatFS = osFS{}

// Find walks from dir towards the filesystem root and returns the first
// lints.toml it sees. It returns "" when the root is reached without a match.
// A candidate that exists but is not a regular file is an error, not a miss.
func Find(fsys StatFS, dir string) (string, error) {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, FileName)
		fi, err := fsys.Stat(candidate)
		if err == nil {
			if !fi.Mode().IsRegular() {
				return "", fmt.Errorf("%w: %s", ErrNotAFile, candidate)
			}
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Discover runs Find from the current working directory.
func Discover() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDiscovery, err)
	}
	return Find(OSFS, wd)
}
