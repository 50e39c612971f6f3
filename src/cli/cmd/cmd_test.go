package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sofmeright/cargo-lints/src/clippy"
	"github.com/sofmeright/cargo-lints/src/config"
)

type fakeRunner struct {
	argv []string
	code int
}

func (r *fakeRunner) Run(_ context.Context, argv []string) (int, error) {
	r.argv = argv
	return r.code, nil
}

// run executes the CLI with fresh flag state and captured output.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	t.Setenv("CARGO", "")
	t.Setenv("CARGO_MANIFEST_DIR", "")
	t.Setenv("CARGO_LINTS_FILE", "")
	t.Setenv("NO_COLOR", "1")
	lintsFile, verbose, lints = "", false, nil
	formatCheck, showOutput, showFlags, initHere = false, "text", false, false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err = Execute(args)
	return out.String(), errOut.String(), err
}

// fakeClippy swaps the clippy constructor for one recording its command line.
func fakeClippy(t *testing.T, code int) *fakeRunner {
	t.Helper()

	runner := &fakeRunner{code: code}
	orig := newClippy
	t.Cleanup(func() { newClippy = orig })
	newClippy = func(verbose bool) *clippy.Clippy {
		return &clippy.Clippy{Cargo: "cargo", Runner: runner, Verbose: verbose}
	}
	return runner
}

// workspace creates a temp dir holding lints.toml and makes it the
// working directory.
func workspace(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Chdir(dir)
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestHostArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		underCargo bool
		want       []string
		wantErr    bool
	}{
		{"cargo convention", []string{"lints", "fmt"}, true, []string{"fmt"}, false},
		{"direct with host name", []string{"lints", "clippy"}, false, []string{"clippy"}, false},
		{"direct", []string{"fmt"}, false, []string{"fmt"}, false},
		{"direct empty", nil, false, nil, false},
		{"cargo wrong name", []string{"lint", "fmt"}, true, nil, true},
		{"cargo no args", nil, true, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hostArgs(tt.args, tt.underCargo)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownSubcommand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecuteUnknownSubcommandUnderCargo(t *testing.T) {
	workspace(t, "")
	_, _, _ = run(t, "version") // reset state

	t.Setenv("CARGO", "/usr/bin/cargo")
	err := Execute([]string{"lintz", "fmt"})
	require.ErrorIs(t, err, ErrUnknownSubcommand)
}

func TestInvokedByCargo(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(key string) string { return vars[key] }
	}

	assert.True(t, invokedByCargo(env(map[string]string{"CARGO": "/usr/bin/cargo"})))
	assert.False(t, invokedByCargo(env(map[string]string{})))
	assert.False(t, invokedByCargo(env(map[string]string{
		"CARGO":              "/usr/bin/cargo",
		"CARGO_MANIFEST_DIR": "/src/app",
	})), "cargo run and build scripts export both")
}

func TestExecuteDirectFromCargoRunShell(t *testing.T) {
	path := workspace(t, `deny = ["b", "a"]`)
	_, _, _ = run(t, "version") // reset state

	t.Setenv("CARGO", "/usr/bin/cargo")
	t.Setenv("CARGO_MANIFEST_DIR", filepath.Dir(path))
	require.NoError(t, Execute([]string{"fmt"}))

	l, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, l.Deny)
}

func TestFormat(t *testing.T) {
	path := workspace(t, `deny = ["b", "a"]
warn = ["z", "y"]
`)

	_, _, err := run(t, "lints", "fmt")
	require.NoError(t, err)

	l, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, l.Deny)
	assert.Equal(t, []string{"y", "z"}, l.Warn)
	assert.True(t, strings.HasPrefix(readFile(t, path), config.Banner))
}

func TestFormatVerbose(t *testing.T) {
	path := workspace(t, `deny = ["a"]`)

	_, stderr, err := run(t, "-v", "format")
	require.NoError(t, err)
	assert.Contains(t, stderr, "config: ")
	assert.Contains(t, stderr, "format: wrote "+path)
}

func TestFormatExplicitFile(t *testing.T) {
	workspace(t, `deny = ["discovered"]`)
	other := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(other, []byte(`allow = ["b", "a"]`), 0o644))

	_, _, err := run(t, "--lints-file", other, "format")
	require.NoError(t, err)

	l, err := config.LoadFile(other)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, l.Allow)
}

func TestFormatCheck(t *testing.T) {
	const unsorted = `deny = ["b", "a"]`
	path := workspace(t, unsorted)

	_, stderr, err := run(t, "format", "--check")
	require.ErrorIs(t, err, ErrNotFormatted)
	assert.Contains(t, stderr, "not formatted")
	assert.Equal(t, unsorted, readFile(t, path), "--check must not write")

	_, _, err = run(t, "format")
	require.NoError(t, err)

	_, _, err = run(t, "format", "--check")
	require.NoError(t, err)
}

func TestFormatWithoutFile(t *testing.T) {
	dir := t.TempDir()
	if found, _ := config.Find(config.OSFS, dir); found != "" {
		t.Skipf("ancestor %s has a lints.toml", found)
	}
	t.Chdir(dir)

	_, stderr, err := run(t, "format")
	require.ErrorIs(t, err, config.ErrNoFileAssociated)
	assert.Contains(t, stderr, "no config file associated")
}

func TestFormatMalformed(t *testing.T) {
	workspace(t, `deny = [`)

	_, _, err := run(t, "format")
	require.ErrorIs(t, err, config.ErrParse)
}

func TestClippy(t *testing.T) {
	workspace(t, `deny = ["foo"]`)
	runner := fakeClippy(t, 0)

	_, _, err := run(t, "clippy", "check", "--workspace")
	require.NoError(t, err)
	assert.Equal(t, []string{"cargo", "clippy", "check", "--workspace", "--", "-D", "foo"}, runner.argv)
}

func TestClippyUnderCargo(t *testing.T) {
	workspace(t, `warn = ["clippy::pedantic"]
allow = ["clippy::module_name_repetitions"]
deny = ["clippy::unwrap_used"]
`)
	runner := fakeClippy(t, 0)
	_, _, _ = run(t, "version") // reset state

	t.Setenv("CARGO", "/usr/bin/cargo")
	require.NoError(t, Execute([]string{"lints", "clippy", "--all-targets"}))

	assert.Equal(t, []string{
		"cargo", "clippy", "--all-targets", "--",
		"-D", "clippy::unwrap_used",
		"-W", "clippy::pedantic",
		"-A", "clippy::module_name_repetitions",
	}, runner.argv)
}

func TestClippyPassesFlagsThrough(t *testing.T) {
	workspace(t, `deny = ["foo"]`)
	runner := fakeClippy(t, 0)

	_, stderr, err := run(t, "-v", "clippy", "-v", "--fix", "--config", "build.jobs=2")
	require.NoError(t, err)

	assert.Equal(t, []string{"cargo", "clippy", "-v", "--fix", "--config", "build.jobs=2", "--", "-D", "foo"}, runner.argv)
	assert.Contains(t, stderr, "config: ")
	assert.Contains(t, stderr, "exec: cargo clippy -v --fix")
}

func TestClippyLintsFileAfterSubcommand(t *testing.T) {
	workspace(t, `deny = ["discovered"]`)
	other := filepath.Join(t.TempDir(), "ci.toml")
	require.NoError(t, os.WriteFile(other, []byte(`allow = ["explicit"]`), 0o644))
	runner := fakeClippy(t, 0)

	_, _, err := run(t, "clippy", "--workspace", "--lints-file="+other)
	require.NoError(t, err)
	assert.Equal(t, []string{"cargo", "clippy", "--workspace", "--", "-A", "explicit"}, runner.argv)

	_, _, err = run(t, "--lints-file", other, "clippy")
	require.NoError(t, err)
	assert.Equal(t, []string{"cargo", "clippy", "--", "-A", "explicit"}, runner.argv)
}

func TestClippyLintsFileFromEnv(t *testing.T) {
	workspace(t, `deny = ["discovered"]`)
	other := filepath.Join(t.TempDir(), "env.toml")
	require.NoError(t, os.WriteFile(other, []byte(`warn = ["env"]`), 0o644))
	runner := fakeClippy(t, 0)
	_, _, _ = run(t, "version") // reset state

	t.Setenv("CARGO_LINTS_FILE", other)
	require.NoError(t, Execute([]string{"clippy"}))
	assert.Equal(t, []string{"cargo", "clippy", "--", "-W", "env"}, runner.argv)
}

func TestClippyExitStatus(t *testing.T) {
	workspace(t, `deny = ["foo"]`)
	fakeClippy(t, 101)

	_, stderr, err := run(t, "clippy")

	var exitErr *clippy.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 101, exitErr.Code)
	assert.Empty(t, stderr, "clippy reports its own failures")
}

func TestClippyMissingLintsFileValue(t *testing.T) {
	workspace(t, "")
	fakeClippy(t, 0)

	_, _, err := run(t, "clippy", "--lints-file")
	require.Error(t, err)
}

func TestSplitAtSubcommand(t *testing.T) {
	before, after := splitAtSubcommand([]string{"--lints-file", "clippy", "-v", "clippy", "--", "clippy"}, "clippy")
	assert.Equal(t, []string{"--lints-file", "clippy", "-v"}, before)
	assert.Equal(t, []string{"--", "clippy"}, after)
}

func TestTakeLintsFile(t *testing.T) {
	rest, file, err := takeLintsFile([]string{"--workspace", "--lints-file", "a.toml", "--", "--lints-file", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a.toml", file)
	assert.Equal(t, []string{"--workspace", "--", "--lints-file", "b"}, rest)
}

func TestShowFlags(t *testing.T) {
	workspace(t, `deny = ["x"]
warn = ["y"]
allow = ["x"]
`)

	stdout, _, err := run(t, "show", "--flags")
	require.NoError(t, err)
	assert.Equal(t, "-D x -W y -A x\n", stdout)
}

func TestShowText(t *testing.T) {
	path := workspace(t, `deny = ["clippy::unwrap_used"]
allow = ["clippy::too_many_lines"]
`)

	stdout, _, err := run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "── Lints")
	assert.Contains(t, stdout, path)
	assert.Contains(t, stdout, "DENY   clippy::unwrap_used")
	assert.Contains(t, stdout, "ALLOW  clippy::too_many_lines")
	assert.Contains(t, stdout, "2 lints: 1 deny, 0 warn, 1 allow")
	assert.Less(t, strings.Index(stdout, "DENY"), strings.Index(stdout, "ALLOW"))
}

func TestShowYAML(t *testing.T) {
	workspace(t, `deny = ["a"]
warn = ["b"]
`)

	stdout, _, err := run(t, "show", "-o", "yaml")
	require.NoError(t, err)

	var got map[string][]string
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, map[string][]string{"deny": {"a"}, "allow": {}, "warn": {"b"}}, got)
}

func TestShowJSON(t *testing.T) {
	workspace(t, `allow = ["a"]`)

	stdout, _, err := run(t, "show", "--output", "json")
	require.NoError(t, err)

	var got map[string][]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, map[string][]string{"deny": {}, "allow": {"a"}, "warn": {}}, got)
}

func TestShowTOML(t *testing.T) {
	workspace(t, `warn = ["b", "a"]`)

	stdout, _, err := run(t, "show", "-o", "toml")
	require.NoError(t, err)

	l, err := config.Parse([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, l.Warn, "show does not sort")
}

func TestShowUnknownOutput(t *testing.T) {
	workspace(t, "")

	_, _, err := run(t, "show", "-o", "xml")
	require.Error(t, err)
}

func TestInitAtRepositoryRoot(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	nested := filepath.Join(root, "crates", "core")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	stdout, _, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "created ")

	_, err = os.Stat(filepath.Join(root, config.FileName))
	require.NoError(t, err)

	_, _, err = run(t, "init")
	require.ErrorIs(t, err, config.ErrExists)
}

func TestInitHere(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	nested := filepath.Join(root, "crates")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	_, _, err = run(t, "init", "--here")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(nested, config.FileName))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, config.FileName))
	assert.True(t, os.IsNotExist(err))
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	workspace(t, `deny = [`)

	_, _, err := run(t, "version")
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "cargo-lints "))
}
