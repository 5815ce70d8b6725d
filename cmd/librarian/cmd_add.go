package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/quietriver/librarian/internal/librarian"
)

// handleAdd implements the add subcommand
func handleAdd(ctx context.Context, lib *librarian.Librarian, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	quiet := fs.Bool("q", false, "Suppress per-file output, print the summary only")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    librarian add [options] <path>

DESCRIPTION:
    Add documents to the current collection. <path> may be:
      - a single file (.txt, .md, .pdf, .epub)
      - a directory, ingesting every supported file under it
      - a remote git repository (https://... or git@...), cloned
        to a temporary directory and ingested from there

    Files whose content is already in the collection are skipped.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Add a single document
    librarian add ~/books/systems.pdf

    # Add a directory of notes
    librarian add ~/notes

    # Add a remote repository's documents
    librarian add https://github.com/user/wiki.git
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	path := fs.Arg(0)

	fmt.Printf("Adding to collection %q: %s\n\n", lib.CurrentCollection(), path)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("ingesting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSpinnerType(14),
	)

	startTime := time.Now()
	var added, skipped, failed int
	var problems []librarian.Outcome

	for outcome := range lib.AddByPath(ctx, path) {
		_ = bar.Add(1)
		switch outcome.Status {
		case librarian.StatusAdded:
			added++
		case librarian.StatusSkipped:
			skipped++
			if !*quiet {
				bar.Clear()
				fmt.Printf("  skip  %s: %v\n", outcome.Path, outcome.Err)
			}
		case librarian.StatusError:
			failed++
			problems = append(problems, outcome)
			if !*quiet {
				bar.Clear()
				fmt.Printf("  error %s: %v\n", outcome.Path, outcome.Err)
			}
		}
	}
	_ = bar.Finish()

	fmt.Println()
	fmt.Printf("Done in %v\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("  added:   %d\n", added)
	fmt.Printf("  skipped: %d\n", skipped)
	fmt.Printf("  errors:  %d\n", failed)

	if failed > 0 {
		if *quiet {
			for _, p := range problems {
				fmt.Fprintf(os.Stderr, "error %s: %v\n", p.Path, p.Err)
			}
		}
		os.Exit(1)
	}
}
