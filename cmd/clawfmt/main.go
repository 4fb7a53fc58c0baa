// Command clawfmt is the formatter CLI: it recursively scans a root for
// .claw/.volt files and rewrites or checks each against the
// token-stream formatter.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/clawlang/clawls/internal/config"
	"github.com/clawlang/clawls/internal/format"
	"github.com/clawlang/clawls/internal/workspace"
)

func main() {
	write := flag.Bool("write", false, "rewrite files in place")
	check := flag.Bool("check", false, "exit 2 if any file would change")
	root := flag.String("root", "", "scan root (defaults to the current working directory)")
	flag.Parse()

	scanRoot := *root
	if scanRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "clawfmt: %v\n", err)
			os.Exit(1)
		}
		scanRoot = cwd
	}

	indentWidth := config.DefaultIndentWidth
	if m, ok, err := config.Load(scanRoot); err == nil && ok {
		indentWidth = m.IndentWidth
	}

	changed := false
	workspace.Scan(scanRoot, func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "clawfmt: reading %s: %v\n", path, err)
			return
		}
		source := string(data)
		formatted, diff, _ := format.FormatWithDiff(path, source, indentWidth, format.DefaultDiffOptions())
		if formatted == source {
			return
		}
		changed = true

		switch {
		case *write:
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "clawfmt: writing %s: %v\n", path, err)
			}
		case *check:
			fmt.Fprintln(os.Stderr, diff)
		default:
			fmt.Print(formatted)
		}
	})

	if *check && changed {
		os.Exit(2)
	}
}
