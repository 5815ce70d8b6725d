package mcpserver

// StatusInput defines inputs for the librarian_status MCP tool.
type StatusInput struct{}

// StatusOutput reports the data directory, the current collection and the
// file count of every collection on disk.
type StatusOutput struct {
	DataDir           string           `json:"data_dir"`
	CurrentCollection string           `json:"current_collection"`
	Collections       map[string]int64 `json:"collections"`
}

// ListInput defines inputs for the librarian_list MCP tool.
type ListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"number of latest documents to return (default 10)"`
}

// FileItem is a compact representation of one library file.
type FileItem struct {
	HashID    string `json:"hash_id"`
	FileName  string `json:"file_name"`
	CreatedAt string `json:"created_at"`
}

// ListOutput is the output for librarian_list.
type ListOutput struct {
	Collection string     `json:"collection"`
	Count      int        `json:"count"`
	Files      []FileItem `json:"files"`
}

// SearchInput defines inputs for the librarian_search MCP tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"search query (natural language)"`
	Limit int    `json:"limit,omitempty" jsonschema:"number of results to return (default 5)"`
}

// SearchResultItem is one scored chunk from the vector store.
type SearchResultItem struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Score    float64        `json:"score"`
}

// SearchOutput is the output for librarian_search.
type SearchOutput struct {
	Query   string             `json:"query"`
	Count   int                `json:"count"`
	Results []SearchResultItem `json:"results"`
}

// CountInput defines inputs for the librarian_count MCP tool.
type CountInput struct{}

// CountOutput is the output for librarian_count.
type CountOutput struct {
	CollectionName string `json:"collection_name"`
	TotalCount     int64  `json:"total_count"`
}

// SwitchInput defines inputs for the librarian_switch MCP tool.
type SwitchInput struct {
	CollectionName string `json:"collection_name" jsonschema:"name of the collection to switch to"`
}

// SwitchOutput is the output for librarian_switch.
type SwitchOutput struct {
	PreviousCollection string `json:"previous_collection"`
	CurrentCollection  string `json:"current_collection"`
	Message            string `json:"message"`
}
