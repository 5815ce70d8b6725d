package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/quietriver/librarian/internal/config"
	"github.com/quietriver/librarian/internal/librarian"
	"github.com/quietriver/librarian/internal/vectorstore"
)

// handleSearch implements the search subcommand
func handleSearch(ctx context.Context, lib *librarian.Librarian, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	limit := fs.Int("n", cfg.Search.DefaultTopK, "Maximum number of results")
	full := fs.Bool("full", false, "Print full chunk content instead of a snippet")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    librarian search [options] <query>

DESCRIPTION:
    Search the current collection semantically. The query is embedded
    and matched against stored chunks by cosine similarity.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Natural language query
    librarian search "feedback loops in ecosystems"

    # Fewer results, full content
    librarian search -n 3 -full "chapter summaries"
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	query := strings.Join(fs.Args(), " ")

	results, err := lib.Search(ctx, query, *limit)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	fmt.Printf("%d result(s) in collection %q:\n\n", len(results), lib.CurrentCollection())
	for i, result := range results {
		fmt.Printf("%d. [%.4f] %s\n", i+1, result.Score, describeSource(result))
		content := result.Content
		if !*full {
			content = snippet(content, 240)
		}
		for _, line := range strings.Split(content, "\n") {
			fmt.Printf("   %s\n", line)
		}
		fmt.Println()
	}
}

// describeSource builds a one-line provenance label from chunk metadata.
func describeSource(result vectorstore.SearchResult) string {
	parts := []string{}
	if name, ok := result.Metadata["file_name"].(string); ok && name != "" {
		parts = append(parts, name)
	}
	for _, key := range []string{"header_1", "header_2", "header_3"} {
		if header, ok := result.Metadata[key].(string); ok && header != "" {
			parts = append(parts, header)
		}
	}
	if page, ok := result.Metadata["page"].(float64); ok {
		parts = append(parts, fmt.Sprintf("p.%d", int(page)))
	}
	if len(parts) == 0 {
		return "(unknown source)"
	}
	return strings.Join(parts, " > ")
}

func snippet(content string, max int) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}
