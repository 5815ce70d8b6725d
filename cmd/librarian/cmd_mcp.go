package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quietriver/librarian/cmd/librarian/internal"
	"github.com/quietriver/librarian/internal/librarian"
	"github.com/quietriver/librarian/internal/mcpserver"
)

// handleMCP implements the MCP stdio server subcommand
func handleMCP(ctx context.Context, lib *librarian.Librarian, args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    librarian mcp

DESCRIPTION:
    Run an MCP stdio server exposing:
      - librarian_status
      - librarian_list
      - librarian_search
      - librarian_count
      - librarian_switch
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	server := mcpserver.New(lib, internal.Version)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}
}
