package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// Banner is written at the top of every formatted lints.toml.
const Banner = `# Clippy lint levels, applied by cargo-lints.
# Lint reference: https://rust-lang.github.io/rust-clippy/master/index.html

`

// Marshal renders the config as it is stored on disk: banner first, then
// deny, allow and warn as multiline arrays.
func (l *Lints) Marshal() ([]byte, error) {
	l.fill()

	var buf bytes.Buffer
	buf.WriteString(Banner)

	enc := toml.NewEncoder(&buf)
	enc.SetArraysMultiline(true)
	enc.SetIndentSymbol("    ")
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("encoding lints: %w", err)
	}
	return buf.Bytes(), nil
}

// Format sorts every level and rewrites the bound file with the canonical
// rendering. The file is replaced atomically; on failure it is left as it was.
func (l *Lints) Format() error {
	path, ok := l.Source.Path()
	if !ok {
		return ErrNoFileAssociated
	}

	l.Normalize()
	data, err := l.Marshal()
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	l.raw = data
	return nil
}

// Formatted reports whether the bound file already holds the canonical
// rendering. Neither the receiver nor the file is modified.
func (l *Lints) Formatted() (bool, error) {
	if _, ok := l.Source.Path(); !ok {
		return false, ErrNoFileAssociated
	}

	norm := l.clone()
	norm.Normalize()
	data, err := norm.Marshal()
	if err != nil {
		return false, err
	}
	return bytes.Equal(data, l.raw), nil
}

func (l *Lints) clone() *Lints {
	return &Lints{
		Source: l.Source,
		Deny:   append([]string{}, l.Deny...),
		Allow:  append([]string{}, l.Allow...),
		Warn:   append([]string{}, l.Warn...),
		raw:    l.raw,
	}
}

// writeFileAtomic writes data to a temp file next to path and renames it
// over path, keeping the original file mode when there is one. A symlinked
// path is resolved first so the link survives and its target is replaced.
func writeFileAtomic(path string, data []byte) error {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".lints-*.toml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
