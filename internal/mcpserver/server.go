// Package mcpserver exposes the library over MCP stdio so agent clients
// can inspect and query collections without shelling out to the CLI.
package mcpserver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quietriver/librarian/internal/librarian"
	"github.com/quietriver/librarian/internal/vectorstore"
)

// Server wraps a single Librarian instance. The Librarian is not safe
// for concurrent use, so every tool handler takes mu.
type Server struct {
	mu      sync.Mutex
	lib     *librarian.Librarian
	version string
}

// New creates a new MCP server wrapper.
func New(lib *librarian.Librarian, version string) *Server {
	return &Server{lib: lib, version: version}
}

// Run starts the MCP stdio server and blocks until the client
// disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "librarian",
		Title:   "Librarian",
		Version: s.version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "librarian_status",
		Description: "Show the data directory, the current collection and the document count of every collection.",
	}, s.statusTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "librarian_list",
		Description: "List the most recently added documents in the current collection, newest first.",
	}, s.listTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "librarian_search",
		Description: "Semantic search over the current collection. Returns scored content chunks with their metadata.",
	}, s.searchTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "librarian_count",
		Description: "Count the documents in the current collection.",
	}, s.countTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "librarian_switch",
		Description: "Switch to another collection, creating it if it does not exist yet.",
	}, s.switchTool)

	return server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) statusTool(ctx context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections, err := s.lib.CollectionsInfo()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	output := StatusOutput{
		DataDir:           s.lib.DataDir(),
		CurrentCollection: s.lib.CurrentCollection(),
		Collections:       collections,
	}
	return nil, output, nil
}

func (s *Server) listTool(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	files, err := s.lib.FindLatest(limit)
	if err != nil {
		return nil, ListOutput{}, err
	}

	items := make([]FileItem, 0, len(files))
	for _, file := range files {
		items = append(items, FileItem{
			HashID:    file.HashID,
			FileName:  file.FileName,
			CreatedAt: file.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	output := ListOutput{
		Collection: s.lib.CurrentCollection(),
		Count:      len(items),
		Files:      items,
	}
	return nil, output, nil
}

func (s *Server) searchTool(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Query == "" {
		return nil, SearchOutput{}, fmt.Errorf("query is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}
	results, err := s.lib.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Query:   input.Query,
		Count:   len(results),
		Results: mapSearchResults(results),
	}
	return nil, output, nil
}

func (s *Server) countTool(ctx context.Context, _ *mcp.CallToolRequest, _ CountInput) (*mcp.CallToolResult, CountOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.lib.Count()
	if err != nil {
		return nil, CountOutput{}, err
	}
	output := CountOutput{
		CollectionName: s.lib.CurrentCollection(),
		TotalCount:     count,
	}
	return nil, output, nil
}

func (s *Server) switchTool(ctx context.Context, _ *mcp.CallToolRequest, input SwitchInput) (*mcp.CallToolResult, SwitchOutput, error) {
	if input.CollectionName == "" {
		return nil, SwitchOutput{}, fmt.Errorf("collection_name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.lib.CurrentCollection()
	if input.CollectionName == previous {
		return nil, SwitchOutput{
			PreviousCollection: previous,
			CurrentCollection:  previous,
			Message:            fmt.Sprintf("already using collection %s", previous),
		}, nil
	}
	if err := s.lib.SwitchCollection(ctx, input.CollectionName); err != nil {
		return nil, SwitchOutput{}, err
	}
	output := SwitchOutput{
		PreviousCollection: previous,
		CurrentCollection:  s.lib.CurrentCollection(),
		Message:            fmt.Sprintf("switched from %s to %s", previous, input.CollectionName),
	}
	return nil, output, nil
}

func mapSearchResults(results []vectorstore.SearchResult) []SearchResultItem {
	items := make([]SearchResultItem, 0, len(results))
	for _, result := range results {
		items = append(items, SearchResultItem{
			Content:  result.Content,
			Metadata: result.Metadata,
			Score:    result.Score,
		})
	}
	return items
}
