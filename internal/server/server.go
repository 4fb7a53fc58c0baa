// Package server implements the request dispatcher and one handler per
// LSP method, wired to the document store, analyzer, and formatter.
package server

import (
	"io"

	"github.com/willibrandon/mtlog/core"

	"github.com/clawlang/clawls/internal/analysis"
	"github.com/clawlang/clawls/internal/config"
	"github.com/clawlang/clawls/internal/interpreter"
	"github.com/clawlang/clawls/internal/jsonvalue"
	"github.com/clawlang/clawls/internal/rpc"
	"github.com/clawlang/clawls/internal/store"
	"github.com/clawlang/clawls/internal/workspace"
)

// Server is the single value threaded into every handler instead of
// package-level globals.
type Server struct {
	Store       *store.Store
	Globals     map[string]int
	Log         core.Logger
	IndentWidth int
	watcher     *workspace.Watcher
	writer      *rpc.Writer
}

// New constructs a Server with an empty document store and the fixed
// interpreter-globals table. Logging is threaded in explicitly rather
// than held as a package global.
func New(log core.Logger) *Server {
	return &Server{
		Store:       store.New(),
		Globals:     interpreter.Globals(),
		Log:         log,
		IndentWidth: config.DefaultIndentWidth,
	}
}

// Run drives the framed JSON-RPC loop over r/w until a transport error
// or EOF terminates it: one request is read, dispatched, and responded
// to before the next is consumed; the only suspension points are the
// stdin read, the stdout write, and the initialize-time workspace scan.
func (s *Server) Run(r io.Reader, w io.Writer) error {
	reader := rpc.NewReader(r)
	writer := rpc.NewWriter(w)
	s.writer = writer

	for {
		s.drainWatcherEvents()

		body, err := reader.ReadMessage()
		if err != nil {
			if s.Log != nil {
				s.Log.Information("transport loop ending: {Error}", err.Error())
			}
			return err
		}

		req, perr := jsonvalue.Parse(body)
		if perr != nil {
			// Malformed request body: swallow, do not respond.
			if s.Log != nil {
				s.Log.Warning("dropping malformed request body: {Error}", perr.Error())
			}
			continue
		}

		resp, hasResp := s.handle(req)
		if !hasResp {
			continue
		}
		out := jsonvalue.Stringify(resp)
		if err := writer.WriteMessage(out); err != nil {
			return err
		}
	}
}

// drainWatcherEvents applies any pending filesystem-change events to
// workspaceDocs without blocking, preserving the single-threaded
// request-handling guarantee: detection runs concurrently on the
// watcher's own goroutine, but application to the store never does.
func (s *Server) drainWatcherEvents() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case ev := <-s.watcher.Events():
			s.applyWatcherEvent(ev)
		default:
			return
		}
	}
}

func (s *Server) applyWatcherEvent(ev workspace.Event) {
	if ev.Removed {
		return
	}
	if _, open := s.Store.OpenDocs[store.PathToURI(ev.Path)]; open {
		return
	}
	data, err := readFile(ev.Path)
	if err != nil {
		return
	}
	doc := store.NewDocument(store.PathToURI(ev.Path), ev.Path, data, s.IndentWidth)
	analysis.Analyze(doc, s.Globals)
	s.Store.InstallWorkspace(doc)
}

// handle routes one parsed JSON-RPC message by its method field. The
// bool return reports whether a response message should be written —
// false for notifications and for requests silently dropped.
func (s *Server) handle(req jsonvalue.Value) (jsonvalue.Value, bool) {
	method, _ := jsonvalue.GetPath(req, "method")
	id, hasID := req.Get("id")
	params, _ := req.Get("params")

	start := method.AsString()
	if s.Log != nil {
		s.Log.Debug("dispatching {Method}", start)
	}

	handler, known := handlers[start]
	if !known {
		// Unknown method: respond result:null if it has an id, otherwise
		// silently drop.
		if hasID {
			return s.result(id, jsonvalue.Null()), true
		}
		return jsonvalue.Null(), false
	}

	result, isNotification := handler(s, params)
	if isNotification {
		return jsonvalue.Null(), false
	}
	if !hasID {
		return jsonvalue.Null(), false
	}
	return s.result(id, result), true
}

func (s *Server) result(id, result jsonvalue.Value) jsonvalue.Value {
	return jsonvalue.Object().
		Set("jsonrpc", jsonvalue.String("2.0")).
		Set("id", id).
		Set("result", result).
		Build()
}

// sendNotification writes a server-initiated notification (no id)
// immediately, used by publishDiagnostics right after didOpen/didChange
// analysis completes so diagnostics appear before the next response.
func (s *Server) sendNotification(method string, params jsonvalue.Value) {
	if s.writer == nil {
		return
	}
	msg := notify(method, params)
	_ = s.writer.WriteMessage(jsonvalue.Stringify(msg))
}

// notify builds a server-to-client notification message (no id).
func notify(method string, params jsonvalue.Value) jsonvalue.Value {
	return jsonvalue.Object().
		Set("jsonrpc", jsonvalue.String("2.0")).
		Set("method", jsonvalue.String(method)).
		Set("params", params).
		Build()
}

// handlerFunc computes a response value for params. isNotification is
// true for methods that never produce a response (didOpen, didChange);
// the dispatcher uses this instead of the request's own presence-of-id
// since handlers for notifications are looked up identically to request
// handlers.
type handlerFunc func(s *Server, params jsonvalue.Value) (result jsonvalue.Value, isNotification bool)

var handlers map[string]handlerFunc

func init() {
	handlers = map[string]handlerFunc{
		"initialize":                    handleInitialize,
		"textDocument/didOpen":          handleDidOpen,
		"textDocument/didChange":        handleDidChange,
		"textDocument/hover":            handleHover,
		"textDocument/definition":       handleDefinition,
		"textDocument/references":       handleReferences,
		"textDocument/documentSymbol":   handleDocumentSymbol,
		"workspace/symbol":              handleWorkspaceSymbol,
		"textDocument/rename":           handleRename,
		"textDocument/formatting":       handleFormatting,
		"textDocument/rangeFormatting":  handleRangeFormatting,
		"textDocument/onTypeFormatting": handleOnTypeFormatting,
		"textDocument/completion":       handleCompletion,
		"textDocument/signatureHelp":    handleSignatureHelp,
		"textDocument/codeAction":       handleCodeAction,
	}
}
