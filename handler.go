package main

import (
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/kutil/logging"

	"wakatime-lsp/internal/heartbeat"
)

// languageServer wires LSP notifications into the heartbeat engine. The
// handlers only decode protocol messages; all gating and dispatch decisions
// live in internal/heartbeat.
type languageServer struct {
	engine     *heartbeat.Engine
	dispatcher *heartbeat.CommandDispatcher
	settings   *heartbeat.SettingsStore
	log        logging.Logger
}

func newLanguageServer(wakatimeCliPath string) *languageServer {
	settings := heartbeat.NewSettingsStore()
	dispatcher := heartbeat.NewCommandDispatcher(wakatimeCliPath, settings)
	return &languageServer{
		engine:     heartbeat.NewEngine(settings, dispatcher),
		dispatcher: dispatcher,
		settings:   settings,
		log:        logging.GetLogger(lsName),
	}
}

func (s *languageServer) handler() *protocol.Handler {
	return &protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidChange: s.didChange,
		TextDocumentDidSave:   s.didSave,
	}
}

func (s *languageServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.ClientInfo != nil {
		platform := params.ClientInfo.Name
		if params.ClientInfo.Version != nil {
			platform += "/" + *params.ClientInfo.Version
		}
		platform += " " + lsName + "/" + version
		s.dispatcher.SetPlatform(platform)
	}

	settings, ok := heartbeat.ParseInitializationOptions(params.InitializationOptions)
	if !ok {
		s.log.Warningf("could not parse initialization options, using defaults")
	}
	s.settings.Replace(settings)

	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncKindIncremental,
	}
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *languageServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Infof("wakatime language server initialized")
	return nil
}

func (s *languageServer) shutdown(ctx *glsp.Context) error {
	s.engine.Drain()
	return nil
}

func (s *languageServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (s *languageServer) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path := heartbeat.NormalizePath(params.TextDocument.URI)

	var line, cursorPos *uint32
	if len(params.ContentChanges) > 0 {
		if change, ok := params.ContentChanges[0].(protocol.TextDocumentContentChangeEvent); ok && change.Range != nil {
			l := uint32(change.Range.Start.Line)
			c := uint32(change.Range.Start.Character)
			line, cursorPos = &l, &c
		}
	}

	decision := s.engine.HandleChange(path, nil, line, cursorPos)
	s.reportSuppressed(ctx, path, decision)
	return nil
}

func (s *languageServer) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path := heartbeat.NormalizePath(params.TextDocument.URI)

	decision := s.engine.HandleSave(path, nil)
	s.reportSuppressed(ctx, path, decision)
	return nil
}

// reportSuppressed mirrors position-less drops to the client log, so users
// can tell why a save produced no heartbeat.
func (s *languageServer) reportSuppressed(ctx *glsp.Context, path string, decision heartbeat.Decision) {
	if decision.Send || decision.Reason != heartbeat.ReasonMissingPosition {
		return
	}
	ctx.Notify(protocol.ServerWindowLogMessage, &protocol.LogMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: fmt.Sprintf("%s: no cursor position for file: %s, ignoring event", lsName, path),
	})
}
