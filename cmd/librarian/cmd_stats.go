package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quietriver/librarian/internal/librarian"
)

// handleStats implements the stats subcommand
func handleStats(lib *librarian.Librarian, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	var jsonOutput bool
	fs.BoolVar(&jsonOutput, "json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    librarian stats [options]

DESCRIPTION:
    Show statistics for the current collection.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Human-readable statistics
    librarian stats

    # JSON output
    librarian stats -json
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	stats, err := lib.Stats()
	if err != nil {
		log.Fatalf("Failed to read statistics: %v", err)
	}

	if jsonOutput {
		out := map[string]interface{}{
			"collection":  lib.CurrentCollection(),
			"files":       stats.FileCount,
			"index_bytes": stats.SizeBytes,
		}
		jsonData, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		fmt.Println("Library Statistics")
		fmt.Println()
		fmt.Printf("Collection: %s\n", lib.CurrentCollection())
		fmt.Printf("Files:      %6d\n", stats.FileCount)
		fmt.Printf("Index size: %6d bytes\n", stats.SizeBytes)
	}
}
