package store

import "testing"

func TestPathToURI_And_URIToPath_RoundTrip(t *testing.T) {
	uri := PathToURI("/workspace/main.claw")
	if uri != "file:///workspace/main.claw" {
		t.Fatalf("got %s", uri)
	}
	if got := URIToPath(uri); got != "/workspace/main.claw" {
		t.Fatalf("got %s", got)
	}
}

func TestURIToPath_FileDoubleSlashForm(t *testing.T) {
	if got := URIToPath("file://relative/a.claw"); got != "relative/a.claw" {
		t.Fatalf("got %s", got)
	}
}

func TestPathToURI_AlreadyURI_Passthrough(t *testing.T) {
	uri := "file:///already/a/uri.claw"
	if got := PathToURI(uri); got != uri {
		t.Fatalf("got %s", got)
	}
}

func TestRange_Contains(t *testing.T) {
	r := Range{Start: Position{Line: 0, Character: 4}, End: Position{Line: 0, Character: 7}}
	if !r.Contains(Position{Line: 0, Character: 4}) {
		t.Fatalf("expected start to be contained")
	}
	if !r.Contains(Position{Line: 0, Character: 7}) {
		t.Fatalf("expected end to be contained")
	}
	if r.Contains(Position{Line: 0, Character: 8}) {
		t.Fatalf("expected column past end to be excluded")
	}
	if r.Contains(Position{Line: 1, Character: 0}) {
		t.Fatalf("expected a different line to be excluded")
	}
}

func TestStore_InstallOpen_MirrorsIntoWorkspaceDocs(t *testing.T) {
	s := New()
	doc := NewDocument("file:///a.claw", "/a.claw", "let x = 1", 2)
	s.InstallOpen(doc)
	if s.OpenDocs["file:///a.claw"] != doc {
		t.Fatalf("expected doc installed into OpenDocs")
	}
	if s.WorkspaceDocs["/a.claw"] != doc {
		t.Fatalf("expected doc mirrored into WorkspaceDocs")
	}
	if s.OpenDocs["file:///a.claw"].Text != s.WorkspaceDocs["/a.claw"].Text {
		t.Fatalf("invariant 6 violated: text diverged between tiers")
	}
}

func TestStore_AllDocuments_NoDuplicatesForMirroredDoc(t *testing.T) {
	s := New()
	doc := NewDocument("file:///a.claw", "/a.claw", "", 2)
	s.InstallOpen(doc)
	s.InstallWorkspace(NewDocument("file:///b.claw", "/b.claw", "", 2))
	count := 0
	s.AllDocuments(func(*Document) { count++ })
	if count != 2 {
		t.Fatalf("expected 2 distinct documents, got %d", count)
	}
}
