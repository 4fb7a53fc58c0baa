package store

// Store is the process-wide document store: openDocs keyed by URI,
// workspaceDocs keyed by path. It is an explicit value, constructed once
// in main and threaded into every handler, rather than package globals.
type Store struct {
	OpenDocs      map[string]*Document // keyed by URI
	WorkspaceDocs map[string]*Document // keyed by filesystem path
	WorkspaceRoot string
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		OpenDocs:      map[string]*Document{},
		WorkspaceDocs: map[string]*Document{},
	}
}

// InstallOpen places doc into OpenDocs and mirrors it into WorkspaceDocs
// by path, the sole mutation primitive for editor-driven updates
// (didOpen/didChange).
func (s *Store) InstallOpen(doc *Document) {
	s.OpenDocs[doc.URI] = doc
	s.WorkspaceDocs[doc.Path] = doc
}

// InstallWorkspace places doc into WorkspaceDocs only, for documents
// found by the initial recursive scan or by the workspace watcher that
// were never opened in the editor.
func (s *Store) InstallWorkspace(doc *Document) {
	s.WorkspaceDocs[doc.Path] = doc
}

// AllDocuments iterates every document across both stores, each exactly
// once even if it is present (by sharing a pointer) in both — used by
// definition/references/rename/workspace-symbol handlers that must
// consult both tiers.
func (s *Store) AllDocuments(fn func(doc *Document)) {
	seen := make(map[*Document]bool, len(s.OpenDocs)+len(s.WorkspaceDocs))
	for _, d := range s.OpenDocs {
		if !seen[d] {
			seen[d] = true
			fn(d)
		}
	}
	for _, d := range s.WorkspaceDocs {
		if !seen[d] {
			seen[d] = true
			fn(d)
		}
	}
}
