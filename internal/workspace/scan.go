// Package workspace implements the one-time recursive workspace scan
// performed at initialize and an fsnotify-backed watcher that keeps
// workspaceDocs current afterward.
package workspace

import (
	"os"
	"path/filepath"
	"strings"
)

// IsSourceFile reports whether path has a .claw or .volt extension.
func IsSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".claw" || ext == ".volt"
}

// Scan recursively walks root and calls fn with the path of every
// .claw/.volt file found. Permission errors and missing directories are
// swallowed — the walk simply skips the offending subtree and continues,
// leaving workspaceDocs partially populated rather than failing
// initialize outright.
func Scan(root string, fn func(path string)) {
	if root == "" {
		return
	}
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if IsSourceFile(path) {
			fn(path)
		}
		return nil
	})
}
