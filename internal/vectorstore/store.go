// Package vectorstore wraps the external vector database. A Backend
// speaks to one concrete engine (Qdrant server or the local on-disk
// store); a Store binds a backend, the embedding service and one
// collection into the adapter the orchestrator uses.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quietriver/librarian/internal/config"
	"github.com/quietriver/librarian/internal/embedding"
	"github.com/quietriver/librarian/internal/ingest"
)

// Point is one stored vector with its payload.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// ScoredPoint is a search hit as the backend returns it.
type ScoredPoint struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// SearchResult is a search hit decoded back into chunk shape. Score is
// cosine similarity; higher is better, and results arrive descending.
type SearchResult struct {
	Content  string
	Metadata map[string]any
	Score    float64
}

// Backend is the engine-level contract. The only delete filter shape the
// system needs is exact match on the hash_id payload field.
type Backend interface {
	EnsureCollection(ctx context.Context, name string, dims int) error
	DeleteCollection(ctx context.Context, name string) error
	UpsertPoints(ctx context.Context, collection string, points []Point) error
	DeletePointsByHashID(ctx context.Context, collection, hashID string) error
	SearchPoints(ctx context.Context, collection string, vector []float32, limit int) ([]ScoredPoint, error)
	Close() error
}

// NewBackend selects the backend from configuration: a local on-disk
// store when a path is configured, otherwise a Qdrant server.
func NewBackend(cfg *config.QdrantConfig) (Backend, error) {
	if cfg.Path != "" {
		return NewLocalBackend(cfg.Path)
	}
	return &qdrantBackend{client: NewQdrantClient(cfg.URL, cfg.APIKey)}, nil
}

type qdrantBackend struct {
	client *QdrantClient
}

func (b *qdrantBackend) EnsureCollection(ctx context.Context, name string, dims int) error {
	return b.client.EnsureCollection(ctx, name, dims, "Cosine")
}

func (b *qdrantBackend) DeleteCollection(ctx context.Context, name string) error {
	return b.client.DeleteCollection(ctx, name)
}

func (b *qdrantBackend) UpsertPoints(ctx context.Context, collection string, points []Point) error {
	return b.client.UpsertPoints(ctx, collection, points)
}

func (b *qdrantBackend) DeletePointsByHashID(ctx context.Context, collection, hashID string) error {
	filter := qdrantMustFilter(qdrantMatchFilter("metadata.hash_id", hashID))
	return b.client.DeletePointsByFilter(ctx, collection, filter)
}

func (b *qdrantBackend) SearchPoints(ctx context.Context, collection string, vector []float32, limit int) ([]ScoredPoint, error) {
	return b.client.SearchPoints(ctx, collection, vector, limit)
}

func (b *qdrantBackend) Close() error {
	return nil
}

// Store is the per-collection adapter: it embeds chunk text on the way in
// and query text on the way out. It implements ingest.Sink.
type Store struct {
	backend    Backend
	embedder   *embedding.Service
	collection string
}

// Open binds a store to collection, lazily creating the underlying
// vector collection with the embedder's output width.
func Open(ctx context.Context, backend Backend, embedder *embedding.Service, collection string) (*Store, error) {
	if err := backend.EnsureCollection(ctx, collection, embedder.Dimensions()); err != nil {
		return nil, fmt.Errorf("failed to ensure collection %s: %w", collection, err)
	}
	return &Store{
		backend:    backend,
		embedder:   embedder,
		collection: collection,
	}, nil
}

// Collection returns the collection name this store is bound to.
func (s *Store) Collection() string {
	return s.collection
}

// Add embeds the chunk texts as one batch and upserts the points.
func (s *Store) Add(ctx context.Context, chunks []ingest.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	points := make([]Point, 0, len(chunks))
	for i, chunk := range chunks {
		if vectors[i] == nil {
			continue
		}
		points = append(points, Point{
			ID:     uuid.NewString(),
			Vector: vectors[i],
			Payload: map[string]any{
				"content":  chunk.Content,
				"metadata": chunk.Metadata,
			},
		})
	}

	if err := s.backend.UpsertPoints(ctx, s.collection, points); err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// Search embeds the query and returns the top hits, best match first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	points, err := s.backend.SearchPoints(ctx, s.collection, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %s: %w", s.collection, err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, p := range points {
		results = append(results, SearchResult{
			Content:  payloadString(p.Payload, "content"),
			Metadata: payloadMap(p.Payload, "metadata"),
			Score:    p.Score,
		})
	}
	return results, nil
}

// DeleteByHashID removes every point belonging to one library file.
func (s *Store) DeleteByHashID(ctx context.Context, hashID string) error {
	if err := s.backend.DeletePointsByHashID(ctx, s.collection, hashID); err != nil {
		return fmt.Errorf("failed to delete points for hash %s: %w", hashID, err)
	}
	return nil
}

// Drop deletes the entire collection.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.backend.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", s.collection, err)
	}
	return nil
}

func payloadString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadMap(payload map[string]any, key string) map[string]any {
	if payload == nil {
		return nil
	}
	if v, ok := payload[key].(map[string]any); ok {
		return v
	}
	return nil
}
