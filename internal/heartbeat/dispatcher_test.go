package heartbeat

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgsMinimal(t *testing.T) {
	d := NewCommandDispatcher("wakatime-cli", NewSettingsStore())

	args := d.BuildArgs(Heartbeat{
		Entity:    "/no/such/file.go",
		Time:      1700000000.5,
		Line:      10,
		CursorPos: 4,
	})

	assert.Equal(t, []string{
		"--time", "1700000000.500",
		"--entity", "/no/such/file.go",
		"--guess-language",
		"--lineno", "10",
		"--cursorpos", "4",
	}, args)
}

func TestBuildArgsFull(t *testing.T) {
	dir := t.TempDir()
	entity := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(entity, []byte("package main\n\nfunc main() {}\n"), 0o644))

	key := "secret"
	apiURL := "https://waka.example.com/api"
	metrics := true
	debug := true
	language := "Go"

	store := NewSettingsStore()
	store.Replace(&Settings{
		APIKey:  &key,
		APIURL:  &apiURL,
		Metrics: &metrics,
		Debug:   &debug,
	})

	d := NewCommandDispatcher("wakatime-cli", store)
	d.SetPlatform("Zed/0.120 wakatime-lsp/0.1.0")

	args := d.BuildArgs(Heartbeat{
		Entity:    entity,
		Time:      1700000000.5,
		IsWrite:   true,
		Language:  &language,
		Line:      2,
		CursorPos: 8,
	})

	assert.Equal(t, []string{
		"--time", "1700000000.500",
		"--entity", entity,
		"--plugin", "Zed/0.120 wakatime-lsp/0.1.0",
		"--write",
		"--metrics",
		"--key", "secret",
		"--api-url", "https://waka.example.com/api",
		"--language", "Go",
		"--verbose",
		"--lineno", "2",
		"--cursorpos", "8",
		"--lines-in-file", "3",
	}, args)
}

func TestCountFileLines(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	assert.Equal(t, 3, countFileLines(write("trailing.txt", "a\nb\nc\n")))
	assert.Equal(t, 3, countFileLines(write("no-trailing.txt", "a\nb\nc")))
	assert.Equal(t, 1, countFileLines(write("one.txt", "a")))
	assert.Equal(t, 0, countFileLines(write("empty.txt", "")))
	assert.Equal(t, 0, countFileLines(filepath.Join(dir, "missing.txt")))
}

func TestDispatchSpawnFailure(t *testing.T) {
	d := NewCommandDispatcher(filepath.Join(t.TempDir(), "no-such-binary"), NewSettingsStore())

	err := d.Dispatch(Heartbeat{Entity: "/tmp/a.go", Time: 1700000000, Line: 1})
	assert.Error(t, err)
}

func TestDispatchSuccess(t *testing.T) {
	truePath, err := exec.LookPath("true")
	if err != nil {
		t.Skip("no 'true' binary on this system")
	}

	d := NewCommandDispatcher(truePath, NewSettingsStore())
	assert.NoError(t, d.Dispatch(Heartbeat{Entity: "/tmp/a.go", Time: 1700000000, Line: 1}))
}
