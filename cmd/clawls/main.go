// Command clawls is the LSP server entrypoint: it wires a Server to
// stdin/stdout and runs the framed JSON-RPC loop until the transport
// ends. Grounded on the teacher's cmd/orizon-lsp entrypoint pattern.
package main

import (
	"fmt"
	"os"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"

	"github.com/clawlang/clawls/internal/server"
)

func main() {
	log := mtlog.New(
		mtlog.WithSink(sinks.NewConsoleSinkWithWriter(os.Stderr)),
		mtlog.WithMinimumLevel(core.InformationLevel),
	)

	s := server.New(log)
	if err := s.Run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "clawls: %v\n", err)
		os.Exit(1)
	}
}
