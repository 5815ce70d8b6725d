package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quietriver/librarian/internal/librarian"
)

// handleFind implements the find subcommand
func handleFind(lib *librarian.Librarian, args []string) {
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	hashPrefix := fs.String("hash", "", "Content hash prefix to match")
	name := fs.String("name", "", "Filename substring to match")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    librarian find [options]

DESCRIPTION:
    Look up files in the current collection by content hash prefix,
    filename substring, or both.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # By hash prefix
    librarian find -hash 3fa9c2

    # By filename
    librarian find -name systems

    # Both conditions must hold
    librarian find -hash 3f -name systems
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	files, err := lib.Find(*hashPrefix, *name)
	if errors.Is(err, librarian.ErrNoFilter) {
		fmt.Fprintln(os.Stderr, "Error: specify -hash and/or -name")
		fs.Usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Find failed: %v", err)
	}

	if len(files) == 0 {
		fmt.Println("No matching files.")
		return
	}
	printFileTable(files)
}
