package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
)

// Source records where a Lints value is persisted. The zero Source is
// unbound: the config was not read from a file and cannot be formatted.
type Source struct {
	path string
}

// BoundTo returns a Source bound to path.
func BoundTo(path string) Source {
	return Source{path: path}
}

// Path returns the bound path and whether the source is bound at all.
func (s Source) Path() (string, bool) {
	return s.path, s.path != ""
}

// Lints holds the clippy lint levels read from lints.toml.
// Names are kept exactly as written; duplicates and names appearing under
// several levels are passed through to clippy untouched.
type Lints struct {
	Source Source `toml:"-" yaml:"-" json:"-"`

	Deny  []string `toml:"deny" yaml:"deny" json:"deny"`
	Allow []string `toml:"allow" yaml:"allow" json:"allow"`
	Warn  []string `toml:"warn" yaml:"warn" json:"warn"`

	// raw is the file content the value was parsed from.
	raw []byte
}

// New returns an empty, unbound config.
func New() *Lints {
	return &Lints{
		Deny:  []string{},
		Allow: []string{},
		Warn:  []string{},
	}
}

// Load discovers lints.toml upward from the working directory and parses it.
// Returns an empty unbound config if no file exists.
func Load() (*Lints, error) {
	path, err := Discover()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile parses the config at path, skipping discovery.
func LoadFile(path string) (*Lints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}

	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.Source = BoundTo(path)
	return l, nil
}

// Resolve loads the config from explicit when set, by discovery otherwise.
func Resolve(explicit string) (*Lints, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}
	return Load()
}

// Parse decodes lints.toml content into an unbound config.
// Only the exact keys deny, allow and warn are read: other keys, including
// differently cased ones, are ignored and missing levels are empty.
func Parse(data []byte) (*Lints, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: line %d, column %d: %w", ErrParse, row, col, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	l := New()
	var err error
	if l.Deny, err = level(doc, "deny"); err != nil {
		return nil, err
	}
	if l.Allow, err = level(doc, "allow"); err != nil {
		return nil, err
	}
	if l.Warn, err = level(doc, "warn"); err != nil {
		return nil, err
	}
	l.raw = data
	return l, nil
}

// level reads key from a decoded document as a list of lint names.
func level(doc map[string]any, key string) ([]string, error) {
	v, ok := doc[key]
	if !ok {
		return []string{}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list of strings, got %T", ErrParse, key, v)
	}
	names := make([]string, 0, len(items))
	for i, item := range items {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a string, got %T", ErrParse, key, i, item)
		}
		names = append(names, name)
	}
	return names, nil
}

// fill replaces nil levels with empty lists so every rendering shows all three.
func (l *Lints) fill() {
	if l.Deny == nil {
		l.Deny = []string{}
	}
	if l.Allow == nil {
		l.Allow = []string{}
	}
	if l.Warn == nil {
		l.Warn = []string{}
	}
}

// Normalize sorts each level in place. It is the only transformation format
// applies; nothing is merged or removed.
func (l *Lints) Normalize() {
	l.fill()
	sort.Strings(l.Deny)
	sort.Strings(l.Allow)
	sort.Strings(l.Warn)
}

// Flags returns the clippy arguments for the configured levels: deny, then
// warn, then allow. Clippy lets later flags override earlier ones, so a name
// listed under several levels ends up allowed over warned over denied.
func (l *Lints) Flags() []string {
	flags := make([]string, 0, 2*(len(l.Deny)+len(l.Warn)+len(l.Allow)))
	for _, name := range l.Deny {
		flags = append(flags, "-D", name)
	}
	for _, name := range l.Warn {
		flags = append(flags, "-W", name)
	}
	for _, name := range l.Allow {
		flags = append(flags, "-A", name)
	}
	return flags
}

// Len returns the total number of configured lint entries.
func (l *Lints) Len() int {
	return len(l.Deny) + len(l.Allow) + len(l.Warn)
}
