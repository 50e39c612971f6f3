package config

import "errors"

// Failure categories. Errors returned by this package wrap one of these
// together with the underlying cause, so callers match with errors.Is.
var (
	ErrDiscovery        = errors.New("locating lints.toml")
	ErrNotAFile         = errors.New("not a regular file")
	ErrRead             = errors.New("reading config")
	ErrParse            = errors.New("parsing config")
	ErrNoFileAssociated = errors.New("no config file associated")
	ErrWrite            = errors.New("writing config")
	ErrExists           = errors.New("config file already exists")
)
