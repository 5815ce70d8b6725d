// Package ingest turns source files into bounded text chunks ready for the
// vector store: a format-specific loader yields raw segments, segments are
// cleansed and re-chunked, and caller metadata is merged into every chunk.
package ingest

import "context"

// Segment is a raw unit of loader output: one page of a PDF, one markdown
// section, or a whole plain-text file.
type Segment struct {
	Text     string
	Metadata map[string]any
}

// Chunk is a bounded-length passage derived from a segment. Chunks are
// never persisted on their own; they become vector store points. The
// metadata always carries hash_id, the join key back to the owning
// library file record.
type Chunk struct {
	Content  string
	Metadata map[string]any
}

// Sink receives the finished chunk set. The vector store adapter
// implements this: it embeds the chunk texts and writes the points.
type Sink interface {
	Add(ctx context.Context, chunks []Chunk) error
}
