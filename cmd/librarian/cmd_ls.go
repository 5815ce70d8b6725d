package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/quietriver/librarian/internal/librarian"
	"github.com/quietriver/librarian/internal/store"
)

// handleLs implements the ls subcommand
func handleLs(lib *librarian.Librarian, args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	limit := fs.Int("n", 10, "Show the N most recently added files")
	all := fs.Bool("all", false, "List every file in the collection")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    librarian ls [options]

DESCRIPTION:
    List files in the current collection.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # The ten most recent additions
    librarian ls

    # List everything
    librarian ls -all
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	var (
		files []*store.LibraryFile
		err   error
	)
	if *all {
		files, err = lib.FindAll()
	} else {
		files, err = lib.FindLatest(*limit)
	}
	if err != nil {
		log.Fatalf("Failed to list files: %v", err)
	}
	total, err := lib.Count()
	if err != nil {
		log.Fatalf("Failed to count files: %v", err)
	}

	fmt.Printf("Collection %q: %d file(s)\n\n", lib.CurrentCollection(), total)
	if len(files) == 0 {
		return
	}
	printFileTable(files)
}

func printFileTable(files []*store.LibraryFile) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HASH\tNAME\tADDED")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%s\t%s\n", shortHash(f.HashID), f.FileName, f.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
