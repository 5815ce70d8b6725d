package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/quietriver/librarian/internal/embedding"
)

// LocalBackend is a server-less vector store over a single SQLite file
// with brute-force cosine scoring. It trades search speed for zero
// moving parts, which is plenty for a personal library.
type LocalBackend struct {
	db *sql.DB
	mu sync.Mutex
}

// NewLocalBackend opens (or creates) the store under dir.
func NewLocalBackend(dir string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create vector store dir: %w", err)
	}
	dbPath := filepath.Join(dir, "vectors.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	backend := &LocalBackend{db: db}
	if err := backend.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

func (b *LocalBackend) initSchema() error {
	_, err := b.db.Exec(`CREATE TABLE IF NOT EXISTS points (
		id TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		hash_id TEXT NOT NULL,
		content TEXT NOT NULL,
		metadata TEXT NOT NULL,
		vector TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_points_collection ON points(collection);
	CREATE INDEX IF NOT EXISTS idx_points_hash ON points(collection, hash_id);`)
	if err != nil {
		return fmt.Errorf("init vector schema: %w", err)
	}
	return nil
}

func (b *LocalBackend) EnsureCollection(ctx context.Context, name string, dims int) error {
	// Collections are rows, not tables; nothing to create up front.
	return nil
}

func (b *LocalBackend) DeleteCollection(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.db.ExecContext(ctx, `DELETE FROM points WHERE collection = ?`, name)
	return err
}

func (b *LocalBackend) UpsertPoints(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO points
		(id, collection, hash_id, content, metadata, vector)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		metadata := payloadMap(p.Payload, "metadata")
		metadataJSON, err := json.Marshal(metadata)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		vectorJSON, err := json.Marshal(p.Vector)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, collection,
			payloadString(metadata, "hash_id"),
			payloadString(p.Payload, "content"),
			string(metadataJSON), string(vectorJSON),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (b *LocalBackend) DeletePointsByHashID(ctx context.Context, collection, hashID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.db.ExecContext(ctx,
		`DELETE FROM points WHERE collection = ? AND hash_id = ?`, collection, hashID)
	return err
}

func (b *LocalBackend) SearchPoints(ctx context.Context, collection string, vector []float32, limit int) ([]ScoredPoint, error) {
	if limit <= 0 {
		limit = 10
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("vector query is empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := b.db.QueryContext(ctx,
		`SELECT id, content, metadata, vector FROM points WHERE collection = ?`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []ScoredPoint
	for rows.Next() {
		var id, content, metadataJSON, vectorJSON string
		if err := rows.Scan(&id, &content, &metadataJSON, &vectorJSON); err != nil {
			return nil, err
		}
		var stored []float32
		if err := json.Unmarshal([]byte(vectorJSON), &stored); err != nil {
			continue
		}
		if len(stored) != len(vector) {
			continue
		}
		var metadata map[string]any
		_ = json.Unmarshal([]byte(metadataJSON), &metadata)

		hits = append(hits, ScoredPoint{
			ID:    id,
			Score: float64(embedding.Similarity(vector, stored)),
			Payload: map[string]any{
				"content":  content,
				"metadata": metadata,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (b *LocalBackend) Close() error {
	return b.db.Close()
}
