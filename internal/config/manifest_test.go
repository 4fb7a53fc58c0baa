package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingManifestYieldsDefaultIndentWidthAndNotOk(t *testing.T) {
	dir := t.TempDir()
	m, ok, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for a missing manifest")
	}
	if m.IndentWidth != DefaultIndentWidth {
		t.Fatalf("expected default indent width %d, got %d", DefaultIndentWidth, m.IndentWidth)
	}
}

func TestLoad_ParsesManifestFields(t *testing.T) {
	dir := t.TempDir()
	content := "name: my-project\nlanguage: \">=1.0.0 <2.0.0\"\nindentWidth: 4\n"
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	m, ok, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if m.Name != "my-project" || m.Language != ">=1.0.0 <2.0.0" || m.IndentWidth != 4 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}

func TestLoad_ZeroIndentWidthDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "name: p\n"
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	m, _, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.IndentWidth != DefaultIndentWidth {
		t.Fatalf("expected default indent width, got %d", m.IndentWidth)
	}
}

func TestCheckVersion_EmptyConstraintAlwaysSatisfied(t *testing.T) {
	ok, err := CheckVersion(Manifest{}, "1.0.0")
	if err != nil || !ok {
		t.Fatalf("expected satisfied, got ok=%v err=%v", ok, err)
	}
}

func TestCheckVersion_SatisfiedConstraint(t *testing.T) {
	ok, err := CheckVersion(Manifest{Language: ">=1.0.0 <2.0.0"}, "1.0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected constraint to be satisfied")
	}
}

func TestCheckVersion_ViolatedConstraintReportsUnsatisfiedNotError(t *testing.T) {
	ok, err := CheckVersion(Manifest{Language: ">=2.0.0"}, "1.0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected constraint to be unsatisfied")
	}
}

func TestCheckVersion_MalformedConstraintErrors(t *testing.T) {
	_, err := CheckVersion(Manifest{Language: "not-a-constraint???"}, "1.0.0")
	if err == nil {
		t.Fatalf("expected an error for a malformed constraint")
	}
}
