package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
)

// Pipeline turns one file into chunks and writes them through the sink.
type Pipeline struct {
	splitter *Splitter
	sink     Sink
}

// NewPipeline creates a pipeline writing to sink.
func NewPipeline(sink Sink) *Pipeline {
	return &Pipeline{
		splitter: NewSplitter(),
		sink:     sink,
	}
}

// Ingest loads, cleans, chunks and persists one file. extra metadata is
// merged into every chunk, with extra keys winning over loader keys; the
// caller supplies at least hash_id there. The chunks written are returned
// so callers can observe exactly what went to the vector store.
func (p *Pipeline) Ingest(ctx context.Context, path string, extra map[string]any) ([]Chunk, error) {
	format, recognized := FormatForPath(path)
	if !recognized {
		log.Printf("Warning: file suffix of %s is not explicitly supported, treating as raw text", path)
	}

	segments, err := loadSegments(ctx, path, format)
	if err != nil {
		return nil, err
	}

	segments = cleanupBadEncoding(segments)

	if format == FormatMarkdown {
		segments = preSplitMarkdown(segments)
	}

	chunks := p.buildChunks(segments, extra)
	if len(chunks) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no chunkable text")}
	}

	if err := p.sink.Add(ctx, chunks); err != nil {
		return nil, fmt.Errorf("failed to write chunks to vector store: %w", err)
	}

	return chunks, nil
}

// buildChunks runs the size-bounded splitter over each segment and merges
// the extra metadata into every resulting chunk.
func (p *Pipeline) buildChunks(segments []Segment, extra map[string]any) []Chunk {
	var chunks []Chunk
	for _, seg := range segments {
		for _, passage := range p.splitter.Split(seg.Text) {
			metadata := make(map[string]any, len(seg.Metadata)+len(extra))
			for k, v := range seg.Metadata {
				metadata[k] = v
			}
			for k, v := range extra {
				metadata[k] = v
			}
			chunks = append(chunks, Chunk{Content: passage, Metadata: metadata})
		}
	}
	return chunks
}

// cleanupBadEncoding drops bytes that cannot round-trip through UTF-8.
// Offending segments get a diagnostic, not a failure.
func cleanupBadEncoding(segments []Segment) []Segment {
	for i, seg := range segments {
		if utf8.ValidString(seg.Text) {
			continue
		}
		log.Printf("Warning: segment [%v][%v] has bad encoding, dropping undecodable bytes",
			seg.Metadata["source"], seg.Metadata["page"])
		segments[i].Text = strings.ToValidUTF8(seg.Text, "")
	}
	return segments
}

// preSplitMarkdown replaces each markdown segment with its header-aware
// sections, keeping the loader metadata and recording the heading path.
func preSplitMarkdown(segments []Segment) []Segment {
	var out []Segment
	for _, seg := range segments {
		sections := splitMarkdownByHeaders(seg.Text)
		if len(sections) == 0 {
			continue
		}
		for _, section := range sections {
			metadata := make(map[string]any, len(seg.Metadata)+len(section.Headers))
			for k, v := range seg.Metadata {
				metadata[k] = v
			}
			for k, v := range section.Headers {
				metadata[k] = v
			}
			out = append(out, Segment{Text: section.Content, Metadata: metadata})
		}
	}
	return out
}
