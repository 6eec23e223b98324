package heartbeat

import (
	"sync"
	"time"

	"github.com/tliron/kutil/logging"
)

// Decide applies the gating rule to one event.
//
// is_write -> send ( don't update the timestamp for the interval check )
// file_switched -> send ( same )
// else -> send only if now - last_sent > interval, and update the timestamp
//
// Saves and switches are discrete, user-intentional signals worth recording
// regardless of cadence; the interval only rate-limits the continuous
// stream of edit events, so a burst of saves must not reset the window.
func Decide(ev Event, interval time.Duration, lastSent, now time.Time) Decision {
	if ev.Line == nil || ev.CursorPos == nil {
		return Decision{Reason: ReasonMissingPosition}
	}
	if !ev.IsWrite && !ev.FileSwitched && now.Sub(lastSent) <= interval {
		return Decision{Reason: ReasonIntervalNotElapsed}
	}
	return Decision{
		Send:            true,
		UpdateTimestamp: !ev.IsWrite && !ev.FileSwitched,
	}
}

// Engine runs the per-notification pipeline: record cursor activity, detect
// file switches, gate, and dispatch. Dispatches run in their own goroutine
// so a slow agent never blocks the notification stream; the gating clock
// only advances after a dispatch confirms success.
type Engine struct {
	settings   *SettingsStore
	cache      *FileCache
	tracker    *Tracker
	dispatcher Dispatcher
	now        func() time.Time
	wg         sync.WaitGroup
	log        logging.Logger
}

func NewEngine(settings *SettingsStore, dispatcher Dispatcher) *Engine {
	return &Engine{
		settings:   settings,
		cache:      NewFileCache(),
		tracker:    NewTracker(time.Now()),
		dispatcher: dispatcher,
		now:        time.Now,
		log:        logging.GetLogger("wakatime-lsp.engine"),
	}
}

// HandleChange processes a didChange notification. line and cursorPos are
// nil when the editor reported the change without a range; the cache entry
// is still recorded, with zero defaults.
func (e *Engine) HandleChange(path string, language *string, line, cursorPos *uint32) Decision {
	var pos Position
	if line != nil {
		pos.Line = *line
	}
	if cursorPos != nil {
		pos.CursorPos = *cursorPos
	}
	e.cache.Record(path, pos)

	ev := Event{
		Path:         path,
		Language:     language,
		Line:         line,
		CursorPos:    cursorPos,
		FileSwitched: e.tracker.NoteActive(path),
	}
	return e.handle(ev)
}

// HandleSave processes a didSave notification. The cursor position comes
// from the activity cache; a file never edited this session has no entry
// and the event is dropped before it reaches the dispatcher.
func (e *Engine) HandleSave(path string, language *string) Decision {
	ev := Event{
		Path:         path,
		IsWrite:      true,
		Language:     language,
		FileSwitched: e.tracker.NoteActive(path),
	}
	if pos, ok := e.cache.Lookup(path); ok {
		line, cursorPos := pos.Line, pos.CursorPos
		ev.Line = &line
		ev.CursorPos = &cursorPos
	}
	return e.handle(ev)
}

func (e *Engine) handle(ev Event) Decision {
	now := e.now()
	settings := e.settings.Load()
	decision := Decide(ev, settings.Interval(), e.tracker.LastSent(), now)

	switch {
	case decision.Send:
	case decision.Reason == ReasonMissingPosition:
		e.log.Infof("no cursor position or line number info for file: %s, ignoring event", ev.Path)
		return decision
	default:
		e.log.Debugf("skipping heartbeat for file: %s, %s", ev.Path, decision.Reason)
		return decision
	}

	hb := Heartbeat{
		Entity:    ev.Path,
		Time:      float64(now.UnixMilli()) / 1000.0,
		IsWrite:   ev.IsWrite,
		Language:  ev.Language,
		Line:      *ev.Line,
		CursorPos: *ev.CursorPos,
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.dispatcher.Dispatch(hb); err != nil {
			return
		}
		if decision.UpdateTimestamp {
			e.tracker.MarkSent(now)
		}
	}()

	return decision
}

// Drain waits for in-flight dispatches to finish. Called at LSP shutdown.
func (e *Engine) Drain() {
	e.wg.Wait()
}
