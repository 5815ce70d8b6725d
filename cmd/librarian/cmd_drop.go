package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/quietriver/librarian/internal/librarian"
)

// handleDrop implements the drop subcommand
func handleDrop(ctx context.Context, lib *librarian.Librarian, args []string) {
	fs := flag.NewFlagSet("drop", flag.ExitOnError)
	force := fs.Bool("force", false, "Skip the confirmation prompt")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    librarian drop [options]

DESCRIPTION:
    Destroy the current collection: delete its vectors and its file
    index, then switch back to the default collection. This cannot
    be undone.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Drop with confirmation
    librarian drop

    # Drop without prompting
    librarian drop -force
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	name := lib.CurrentCollection()
	count, err := lib.Count()
	if err != nil {
		log.Fatalf("Failed to inspect collection: %v", err)
	}

	if !*force {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			log.Fatalf("Refusing to drop without a terminal; rerun with -force")
		}
		fmt.Printf("Drop collection %q (%d file(s))? This cannot be undone. [y/N] ", name, count)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	if err := lib.Drop(ctx); err != nil {
		log.Fatalf("Drop failed: %v", err)
	}
	fmt.Printf("Dropped collection %q. Now using collection: %s\n", name, lib.CurrentCollection())
}
