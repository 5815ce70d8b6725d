package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quietriver/librarian/internal/librarian"
)

// handleRm implements the rm subcommand
func handleRm(ctx context.Context, lib *librarian.Librarian, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	hashPrefix := fs.String("hash", "", "Content hash prefix of the file to remove")
	name := fs.String("name", "", "Filename substring of the file to remove")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    librarian rm [options]

DESCRIPTION:
    Remove a single file from the current collection. The given
    filters must match exactly one file; when several match, nothing
    is removed and the command asks for a narrower filter.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Remove by hash prefix
    librarian rm -hash 3fa9c2

    # Remove by filename
    librarian rm -name old-notes.md
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	removed, err := lib.Remove(ctx, *hashPrefix, *name)
	switch {
	case errors.Is(err, librarian.ErrNoFilter):
		fmt.Fprintln(os.Stderr, "Error: specify -hash and/or -name")
		fs.Usage()
		os.Exit(1)
	case errors.Is(err, librarian.ErrAmbiguous):
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		if files, ferr := lib.Find(*hashPrefix, *name); ferr == nil {
			printFileTable(files)
		}
		os.Exit(1)
	case err != nil:
		log.Fatalf("Remove failed: %v", err)
	}

	if !removed {
		fmt.Println("No matching file.")
		return
	}
	fmt.Println("Removed.")
}
