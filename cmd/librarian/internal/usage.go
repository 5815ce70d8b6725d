package internal

import (
	"fmt"
	"os"
)

const Version = "0.3.1"

// PrintUsage writes the top-level help text to stderr.
func PrintUsage() {
	fmt.Fprintf(os.Stderr, `librarian - Personal Document Library with Semantic Search

Version: %s

USAGE:
    librarian [global options] <command> [command options]

GLOBAL OPTIONS:
    -config <path>
        Path to config file (default: ~/.librarian/config.yaml)

    -v, -version
        Show version information

    -h, -help
        Show this help message

COMMANDS:
    add <path>
        Add a file, directory or remote git repository to the library

    ls
        List files in the current collection

    find
        Look up files by content hash prefix or filename

    search <query>
        Search the current collection semantically

    rm
        Remove a single file from the library

    use [name]
        Show or switch the current collection

    drop
        Destroy the current collection and switch back to the default

    stats
        Show library statistics

    mcp
        Run an MCP stdio server exposing the library to agent clients

EXAMPLES:
    # Add a single document
    librarian add ~/books/thinking-in-systems.pdf

    # Add every supported file under a directory
    librarian add ~/notes

    # Add the markdown docs of a remote repository
    librarian add https://github.com/user/wiki.git

    # Search
    librarian search "feedback loops in ecosystems"

    # Remove by hash prefix
    librarian rm -hash 3fa9c2

    # Work in a separate collection
    librarian use research

For detailed help on each command, use:
    librarian <command> -help
`, Version)
}
