// Package config reads the optional workspace manifest clawproject.yaml:
// a project name, a semver constraint this server's version must
// satisfy, and a formatter indent width override.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DefaultIndentWidth is used when no manifest is present or the manifest
// omits indentWidth.
const DefaultIndentWidth = 2

// Manifest is the parsed contents of clawproject.yaml.
type Manifest struct {
	Name        string `yaml:"name"`
	Language    string `yaml:"language"`
	IndentWidth int    `yaml:"indentWidth"`
}

// ManifestFileName is the manifest's fixed name at the workspace root.
const ManifestFileName = "clawproject.yaml"

// Load reads and parses the manifest at root/clawproject.yaml. A missing
// file is not an error — it returns a zero-value Manifest with
// IndentWidth defaulted, and ok=false so the caller can skip the
// constraint check and any associated logging.
func Load(root string) (m Manifest, ok bool, err error) {
	path := filepath.Join(root, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{IndentWidth: DefaultIndentWidth}, false, nil
		}
		return Manifest{IndentWidth: DefaultIndentWidth}, false, fmt.Errorf("config: reading manifest: %w", err)
	}
	var parsed Manifest
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Manifest{IndentWidth: DefaultIndentWidth}, false, fmt.Errorf("config: parsing manifest: %w", err)
	}
	if parsed.IndentWidth <= 0 {
		parsed.IndentWidth = DefaultIndentWidth
	}
	return parsed, true, nil
}

// CheckVersion reports whether reportedVersion satisfies the manifest's
// language constraint. An empty constraint is always satisfied. A
// malformed constraint or version is reported as a non-nil error; this
// never fails initialize — the caller logs it as a warning and proceeds.
func CheckVersion(m Manifest, reportedVersion string) (satisfied bool, err error) {
	if m.Language == "" {
		return true, nil
	}
	constraint, err := semver.NewConstraint(m.Language)
	if err != nil {
		return false, fmt.Errorf("config: invalid language constraint %q: %w", m.Language, err)
	}
	v, err := semver.NewVersion(reportedVersion)
	if err != nil {
		return false, fmt.Errorf("config: invalid server version %q: %w", reportedVersion, err)
	}
	return constraint.Check(v), nil
}
