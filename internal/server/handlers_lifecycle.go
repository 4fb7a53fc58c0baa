package server

import (
	"github.com/clawlang/clawls/internal/analysis"
	"github.com/clawlang/clawls/internal/config"
	"github.com/clawlang/clawls/internal/jsonvalue"
	"github.com/clawlang/clawls/internal/store"
	"github.com/clawlang/clawls/internal/version"
	"github.com/clawlang/clawls/internal/workspace"
)

// handleInitialize records the workspace root, reads the optional
// manifest, performs the one-time recursive scan into workspaceDocs,
// starts the workspace watcher, and advertises capabilities.
func handleInitialize(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	path := ""
	if rootURI := getString(params, "rootUri"); rootURI != "" {
		path = store.URIToPath(rootURI)
	} else {
		path = getString(params, "rootPath")
	}
	s.Store.WorkspaceRoot = path

	manifest, ok, err := config.Load(path)
	if err != nil && s.Log != nil {
		s.Log.Warning("manifest read failed: {Error}", err.Error())
	}
	s.IndentWidth = manifest.IndentWidth
	if ok && manifest.Language != "" {
		satisfied, cerr := config.CheckVersion(manifest, version.Version)
		if cerr != nil && s.Log != nil {
			s.Log.Warning("manifest language constraint invalid: {Error}", cerr.Error())
		} else if !satisfied && s.Log != nil {
			s.Log.Warning("manifest language constraint {Constraint} not satisfied by server version {Version}",
				manifest.Language, version.Version)
		}
	}

	if s.Log != nil {
		s.Log.Information("scanning workspace root {Root}", path)
	}
	count := 0
	workspace.Scan(path, func(filePath string) {
		text, rerr := readFile(filePath)
		if rerr != nil {
			return
		}
		doc := store.NewDocument(store.PathToURI(filePath), filePath, text, s.IndentWidth)
		analysis.Analyze(doc, s.Globals)
		s.Store.InstallWorkspace(doc)
		count++
	})
	if s.Log != nil {
		s.Log.Information("workspace scan complete: {Count} documents", count)
	}

	if w, werr := workspace.NewWatcher(path); werr == nil {
		s.watcher = w
	} else if s.Log != nil {
		s.Log.Warning("workspace watcher unavailable: {Error}", werr.Error())
	}

	capabilities := jsonvalue.Object().
		Set("hoverProvider", jsonvalue.Bool(true)).
		Set("definitionProvider", jsonvalue.Bool(true)).
		Set("referencesProvider", jsonvalue.Bool(true)).
		Set("documentSymbolProvider", jsonvalue.Bool(true)).
		Set("workspaceSymbolProvider", jsonvalue.Bool(true)).
		Set("renameProvider", jsonvalue.Bool(true)).
		Set("completionProvider", jsonvalue.Object().
			Set("triggerCharacters", jsonvalue.Array([]jsonvalue.Value{
				jsonvalue.String("."), jsonvalue.String("("),
			})).
			Set("resolveProvider", jsonvalue.Bool(false)).
			Build()).
		Set("documentFormattingProvider", jsonvalue.Bool(true)).
		Set("documentRangeFormattingProvider", jsonvalue.Bool(true)).
		Set("documentOnTypeFormattingProvider", jsonvalue.Object().
			Set("firstTriggerCharacter", jsonvalue.String("}")).
			Set("moreTriggerCharacter", jsonvalue.Array([]jsonvalue.Value{jsonvalue.String("\n")})).
			Build()).
		Set("signatureHelpProvider", jsonvalue.Object().
			Set("triggerCharacters", jsonvalue.Array([]jsonvalue.Value{
				jsonvalue.String("("), jsonvalue.String(","),
			})).
			Build()).
		Set("textDocumentSync", jsonvalue.Int(1)).
		Build()

	result := jsonvalue.Object().
		Set("capabilities", capabilities).
		Build()
	return result, false
}

// handleDidOpen inserts or replaces the URI-keyed document from the
// payload text, analyzes it, mirrors it into workspaceDocs by path, and
// publishes diagnostics. It is a notification: the dispatcher never
// writes a response for it.
func handleDidOpen(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	text := getString(params, "textDocument", "text")
	s.openAndAnalyze(uri, text)
	return jsonvalue.Null(), true
}

// handleDidChange replaces the document's text with the first content
// change's text field (full-document sync, advertised as such via
// textDocumentSync: 1, so clients always send the complete text on every
// edit), re-analyzes, mirrors, and publishes diagnostics.
func handleDidChange(s *Server, params jsonvalue.Value) (jsonvalue.Value, bool) {
	uri := getString(params, "textDocument", "uri")
	changes, ok := jsonvalue.GetPath(params, "contentChanges")
	text := ""
	if ok && changes.Kind() == jsonvalue.KindArray && len(changes.AsArray()) > 0 {
		first := changes.AsArray()[0]
		if t, ok := first.Get("text"); ok {
			text = t.AsString()
		}
	}
	s.openAndAnalyze(uri, text)
	return jsonvalue.Null(), true
}

func (s *Server) openAndAnalyze(uri, text string) {
	path := store.URIToPath(uri)
	doc := store.NewDocument(uri, path, text, s.IndentWidth)
	analysis.Analyze(doc, s.Globals)
	s.Store.InstallOpen(doc)
	s.publishDiagnostics(doc)
}

// publishDiagnostics emits one diagnostic per parser error (severity 1,
// range (0,0)-(0,0)), one per unknown reference (severity 2, "Unknown
// identifier"), and one per style issue (severity 3).
func (s *Server) publishDiagnostics(doc *store.Document) {
	var diags []jsonvalue.Value
	zeroRange := rangeToJSON(store.Range{})

	for _, msg := range doc.ParserErrors {
		diags = append(diags, jsonvalue.Object().
			Set("range", zeroRange).
			Set("severity", jsonvalue.Int(1)).
			Set("message", jsonvalue.String(msg)).
			Build())
	}
	for _, r := range doc.UnknownRefs {
		diags = append(diags, jsonvalue.Object().
			Set("range", rangeToJSON(r)).
			Set("severity", jsonvalue.Int(2)).
			Set("message", jsonvalue.String("Unknown identifier")).
			Build())
	}
	for _, issue := range doc.StyleIssues {
		diags = append(diags, jsonvalue.Object().
			Set("range", rangeToJSON(issue.Range)).
			Set("severity", jsonvalue.Int(3)).
			Set("message", jsonvalue.String(issue.Message)).
			Build())
	}

	params := jsonvalue.Object().
		Set("uri", jsonvalue.String(doc.URI)).
		Set("diagnostics", jsonvalue.Array(diags)).
		Build()
	s.sendNotification("textDocument/publishDiagnostics", params)
}
