package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quietriver/librarian/internal/librarian"
)

// handleUse implements the use subcommand
func handleUse(ctx context.Context, lib *librarian.Librarian, args []string) {
	fs := flag.NewFlagSet("use", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    librarian use [name]

DESCRIPTION:
    Switch the current collection. Without an argument, print the
    name of the current collection. The choice persists across runs.

EXAMPLES:
    # Show the current collection
    librarian use

    # Switch to (or create) a collection
    librarian use research
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	if fs.NArg() == 0 {
		fmt.Printf("Current collection: %s\n", lib.CurrentCollection())
		return
	}
	if fs.NArg() > 1 {
		fs.Usage()
		os.Exit(1)
	}

	name := fs.Arg(0)
	if err := lib.SwitchCollection(ctx, name); err != nil {
		log.Fatalf("Failed to switch collection: %v", err)
	}
	fmt.Printf("Now using collection: %s\n", name)
}
