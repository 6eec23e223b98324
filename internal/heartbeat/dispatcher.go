package heartbeat

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/tliron/kutil/logging"
)

const cliTimeout = 10 * time.Second

// Dispatcher submits one heartbeat to the external time-tracking agent.
type Dispatcher interface {
	Dispatch(hb Heartbeat) error
}

// CommandDispatcher invokes wakatime-cli as a subprocess, one argument per
// heartbeat field. Failures are logged and reported to the caller; they are
// never retried here, the agent handles its own offline queueing.
type CommandDispatcher struct {
	cliPath  string
	settings *SettingsStore
	platform atomic.Pointer[string]
	log      logging.Logger
}

func NewCommandDispatcher(cliPath string, settings *SettingsStore) *CommandDispatcher {
	d := &CommandDispatcher{
		cliPath:  cliPath,
		settings: settings,
		log:      logging.GetLogger("wakatime-lsp.dispatch"),
	}
	empty := ""
	d.platform.Store(&empty)
	return d
}

// SetPlatform records the plugin identifier reported with every heartbeat.
// Set once at initialize, from the client info.
func (d *CommandDispatcher) SetPlatform(platform string) {
	d.platform.Store(&platform)
}

// Platform returns the plugin identifier, empty before initialize.
func (d *CommandDispatcher) Platform() string {
	return *d.platform.Load()
}

// BuildArgs assembles the wakatime-cli argument list for a heartbeat,
// omitting arguments for absent optional fields.
func (d *CommandDispatcher) BuildArgs(hb Heartbeat) []string {
	settings := d.settings.Load()

	args := []string{
		"--time", fmt.Sprintf("%.3f", hb.Time),
		"--entity", hb.Entity,
	}

	if platform := d.Platform(); platform != "" {
		args = append(args, "--plugin", platform)
	}
	if hb.IsWrite {
		args = append(args, "--write")
	}
	if settings.MetricsEnabled() {
		args = append(args, "--metrics")
	}
	if settings.APIKey != nil {
		args = append(args, "--key", *settings.APIKey)
	}
	if settings.APIURL != nil {
		args = append(args, "--api-url", *settings.APIURL)
	}
	if hb.Language != nil {
		args = append(args, "--language", *hb.Language)
	} else {
		args = append(args, "--guess-language")
	}
	if settings.DebugEnabled() {
		args = append(args, "--verbose")
	}
	args = append(args,
		"--lineno", strconv.FormatUint(uint64(hb.Line), 10),
		"--cursorpos", strconv.FormatUint(uint64(hb.CursorPos), 10),
	)
	if lines := countFileLines(hb.Entity); lines > 0 {
		args = append(args, "--lines-in-file", strconv.Itoa(lines))
	}

	return args
}

// Dispatch runs the agent and waits for it to exit. A spawn failure or a
// non-zero exit is logged with the full argument list and returned so the
// caller can skip advancing the gating clock; it is never fatal.
func (d *CommandDispatcher) Dispatch(hb Heartbeat) error {
	args := d.BuildArgs(hb)

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.cliPath, args...)
	if err := cmd.Run(); err != nil {
		d.log.Errorf("wakatime-cli failed: %s, args: %v", err.Error(), args)
		return err
	}
	return nil
}

// countFileLines reads the heartbeat's file to report its total line count.
// Best effort: 0 when the file is unreadable or empty.
func countFileLines(path string) int {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return 0
	}
	lines := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		lines++
	}
	return lines
}
