// Package heartbeat decides which editor activity notifications become
// wakatime-cli invocations. Edits and saves arrive as Events; the engine
// coalesces them so that continuous typing produces at most one heartbeat
// per interval, while saves and file switches always go through.
package heartbeat

// Event is a single editor activity notification after protocol decoding.
// Line and CursorPos are nil when the editor did not supply a concrete
// cursor location; such events never reach the dispatcher.
type Event struct {
	Path      string
	IsWrite   bool
	Language  *string
	Line      *uint32
	CursorPos *uint32
	// FileSwitched is set by the engine when Path differs from the
	// previously active file.
	FileSwitched bool
}

// Heartbeat is the payload handed to the dispatcher once an event has
// passed the decision engine. Line and CursorPos are always present here.
type Heartbeat struct {
	Entity    string
	Time      float64
	IsWrite   bool
	Language  *string
	Line      uint32
	CursorPos uint32
}

// Suppression reasons reported by the decision engine.
const (
	ReasonMissingPosition    = "missing position"
	ReasonIntervalNotElapsed = "interval not elapsed"
)

// Decision is the outcome of running one Event through the gating rule.
type Decision struct {
	Send bool
	// Reason is set when Send is false.
	Reason string
	// UpdateTimestamp is true only for interval-triggered heartbeats;
	// saves and file switches are sent without resetting the gating clock.
	UpdateTimestamp bool
}
