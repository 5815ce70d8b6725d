// Package librarian orchestrates the document library: it keeps the
// metadata index and the vector store for the current collection open
// together and routes every operation through both in a fixed order.
package librarian

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/quietriver/librarian/internal/config"
	"github.com/quietriver/librarian/internal/embedding"
	"github.com/quietriver/librarian/internal/hashid"
	"github.com/quietriver/librarian/internal/ingest"
	"github.com/quietriver/librarian/internal/store"
	"github.com/quietriver/librarian/internal/vectorstore"
)

var (
	// ErrNoFilter is returned when a lookup or removal is attempted
	// without a hash prefix or a filename to narrow it.
	ErrNoFilter = errors.New("at least one of hash prefix or filename is required")
	// ErrAmbiguous is returned when a removal matches more than one file.
	ErrAmbiguous = errors.New("ambiguous match")
	// ErrTooLarge marks files skipped for exceeding the size ceiling.
	ErrTooLarge = errors.New("file too large")
)

// Status classifies the result of ingesting one file.
type Status string

const (
	StatusAdded   Status = "added"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Outcome reports what happened to a single file during AddByPath.
// Err is set for StatusSkipped and StatusError with the reason.
type Outcome struct {
	Status Status
	Path   string
	Err    error
}

// Options configures a Librarian. Backend and Embedder are injected so
// tests can supply in-memory fakes.
type Options struct {
	Config    *config.Config
	Backend   vectorstore.Backend
	Embedder  *embedding.Service
	StatePath string
	DataDir   string
}

// Librarian owns the per-collection store handles. It is not safe for
// concurrent use.
type Librarian struct {
	cfg      *config.Config
	manager  *Manager
	backend  vectorstore.Backend
	embedder *embedding.Service
	dataDir  string

	db       *store.DB
	files    *store.FileStore
	vectors  *vectorstore.Store
	pipeline *ingest.Pipeline
}

// New opens a Librarian on the persisted current collection.
func New(ctx context.Context, opts Options) (*Librarian, error) {
	l := &Librarian{
		cfg:      opts.Config,
		manager:  NewManager(opts.StatePath),
		backend:  opts.Backend,
		embedder: opts.Embedder,
		dataDir:  opts.DataDir,
	}
	if err := l.openCollection(ctx, l.manager.CurrentName()); err != nil {
		return nil, err
	}
	return l, nil
}

// NewFromConfig wires a Librarian from configuration: embedding provider,
// vector store backend and the default on-disk layout.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Librarian, error) {
	embedder, err := embedding.NewService(&cfg.Embedding)
	if err != nil {
		return nil, err
	}
	backend, err := vectorstore.NewBackend(&cfg.Qdrant)
	if err != nil {
		return nil, err
	}
	statePath, err := config.DefaultStatePath()
	if err != nil {
		return nil, err
	}
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return New(ctx, Options{
		Config:    cfg,
		Backend:   backend,
		Embedder:  embedder,
		StatePath: statePath,
		DataDir:   dataDir,
	})
}

func (l *Librarian) openCollection(ctx context.Context, name string) error {
	dbPath := filepath.Join(l.dataDir, name+".db")
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index for collection %s: %w", name, err)
	}
	vectors, err := vectorstore.Open(ctx, l.backend, l.embedder, name)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to open vector store for collection %s: %w", name, err)
	}
	l.db = db
	l.files = store.NewFileStore(db)
	l.vectors = vectors
	l.pipeline = ingest.NewPipeline(vectors)
	return nil
}

func (l *Librarian) closeCollection() error {
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	l.files = nil
	l.vectors = nil
	l.pipeline = nil
	return err
}

// Close releases the collection handles and the vector store backend.
func (l *Librarian) Close() error {
	err := l.closeCollection()
	if berr := l.backend.Close(); err == nil {
		err = berr
	}
	return err
}

// CurrentCollection returns the name of the open collection.
func (l *Librarian) CurrentCollection() string {
	return l.vectors.Collection()
}

// SwitchCollection persists name as the current collection, then swaps
// the index and vector store handles to it. If the new collection cannot
// be opened the previous one is restored, persisted name included, so the
// instance stays usable.
func (l *Librarian) SwitchCollection(ctx context.Context, name string) error {
	previous := l.CurrentCollection()
	if name == previous {
		return nil
	}
	if err := l.manager.SetCurrent(name); err != nil {
		return err
	}
	if err := l.closeCollection(); err != nil {
		return fmt.Errorf("failed to close collection: %w", err)
	}
	if err := l.openCollection(ctx, name); err != nil {
		if rerr := l.manager.SetCurrent(previous); rerr != nil {
			return fmt.Errorf("failed to restore collection %s after switch error: %w", previous, errors.Join(err, rerr))
		}
		if rerr := l.openCollection(ctx, previous); rerr != nil {
			return fmt.Errorf("failed to reopen collection %s after switch error: %w", previous, errors.Join(err, rerr))
		}
		return err
	}
	return nil
}

// AddByPath ingests path, which may be a single file, a directory or a
// remote git locator, yielding one Outcome per discovered file in
// discovery order. Iteration may be abandoned early; any temporary clone
// is removed when the sequence returns.
func (l *Librarian) AddByPath(ctx context.Context, path string) iter.Seq[Outcome] {
	return func(yield func(Outcome) bool) {
		root := path
		sourceRoot := ""
		if isRemoteLocator(path) {
			dir, cleanup, err := fetchRemote(ctx, path)
			if err != nil {
				yield(Outcome{Status: StatusError, Path: path, Err: err})
				return
			}
			defer cleanup()
			root = dir
			sourceRoot = path
		}

		info, err := os.Stat(root)
		if err != nil {
			yield(Outcome{Status: StatusError, Path: path, Err: fmt.Errorf("failed to stat path: %w", err)})
			return
		}

		var targets []string
		if info.IsDir() {
			if sourceRoot == "" {
				sourceRoot = root
			}
			targets, err = ingest.DiscoverFiles(root, l.cfg.Ingest.Exclude)
			if err != nil {
				yield(Outcome{Status: StatusError, Path: path, Err: err})
				return
			}
		} else {
			targets = []string{root}
		}

		for _, target := range targets {
			if !yield(l.addFile(ctx, target, sourceRoot)) {
				return
			}
		}
	}
}

// addFile runs one file through the full pipeline. Writes go to the
// vector store first and the metadata index second, so an interrupted
// add leaves orphaned vectors rather than an index entry without
// content.
func (l *Librarian) addFile(ctx context.Context, path, sourceRoot string) Outcome {
	info, err := os.Stat(path)
	if err != nil {
		return Outcome{Status: StatusError, Path: path, Err: fmt.Errorf("failed to stat file: %w", err)}
	}
	if max := l.cfg.Ingest.MaxFileSizeBytes; max > 0 && info.Size() > max {
		return Outcome{
			Status: StatusSkipped,
			Path:   path,
			Err:    fmt.Errorf("%w: %d bytes exceeds limit %d", ErrTooLarge, info.Size(), max),
		}
	}

	hash, err := hashid.HashFile(path)
	if err != nil {
		return Outcome{Status: StatusError, Path: path, Err: err}
	}
	exists, err := l.files.Exists(hash)
	if err != nil {
		return Outcome{Status: StatusError, Path: path, Err: err}
	}
	if exists {
		return Outcome{
			Status: StatusSkipped,
			Path:   path,
			Err:    fmt.Errorf("identical content already in collection %s (hash %s)", l.CurrentCollection(), hash[:12]),
		}
	}

	extra := map[string]any{"hash_id": hash, "file_name": filepath.Base(path)}
	if sourceRoot != "" {
		extra["source_root"] = sourceRoot
	}
	if _, err := l.pipeline.Ingest(ctx, path, extra); err != nil {
		return Outcome{Status: StatusError, Path: path, Err: err}
	}

	err = l.files.Insert(&store.LibraryFile{
		HashID:         hash,
		FileName:       filepath.Base(path),
		CollectionName: l.CurrentCollection(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return Outcome{Status: StatusSkipped, Path: path, Err: err}
	}
	if err != nil {
		return Outcome{Status: StatusError, Path: path, Err: err}
	}
	return Outcome{Status: StatusAdded, Path: path}
}

// Remove deletes the single file matched by hashPrefix and/or filename
// from both stores. It returns false with a nil error when nothing
// matches, and ErrAmbiguous when more than one file does, in which case
// nothing is deleted.
func (l *Librarian) Remove(ctx context.Context, hashPrefix, filename string) (bool, error) {
	if hashPrefix == "" && filename == "" {
		return false, ErrNoFilter
	}
	matches, err := l.files.Find(hashPrefix, filename)
	if err != nil {
		return false, err
	}
	switch len(matches) {
	case 0:
		return false, nil
	case 1:
	default:
		return false, fmt.Errorf("%w: %d files match, narrow the hash prefix or filename", ErrAmbiguous, len(matches))
	}

	target := matches[0]
	if err := l.vectors.DeleteByHashID(ctx, target.HashID); err != nil {
		return false, fmt.Errorf("failed to delete vectors for %s: %w", target.FileName, err)
	}
	if err := l.files.DeleteByHash(target.HashID); err != nil {
		return false, err
	}
	return true, nil
}

// Drop destroys the current collection in both stores, resets the
// current collection to the default and reopens it.
func (l *Librarian) Drop(ctx context.Context) error {
	if err := l.vectors.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop vector collection: %w", err)
	}
	if err := l.files.DeleteAll(); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	if err := l.manager.Reset(); err != nil {
		return err
	}
	if err := l.closeCollection(); err != nil {
		return fmt.Errorf("failed to close collection: %w", err)
	}
	return l.openCollection(ctx, config.DefaultCollectionName)
}

// Search runs a semantic query against the current collection.
func (l *Librarian) Search(ctx context.Context, query string, limit int) ([]vectorstore.SearchResult, error) {
	if limit <= 0 {
		limit = l.cfg.Search.DefaultTopK
	}
	if limit <= 0 {
		limit = 10
	}
	return l.vectors.Search(ctx, query, limit)
}

// Find returns files matching a hash prefix and/or filename substring.
func (l *Librarian) Find(hashPrefix, filename string) ([]*store.LibraryFile, error) {
	if hashPrefix == "" && filename == "" {
		return nil, ErrNoFilter
	}
	return l.files.Find(hashPrefix, filename)
}

// FindLatest returns the most recently added files, newest first.
func (l *Librarian) FindLatest(limit int) ([]*store.LibraryFile, error) {
	return l.files.FindLatest(limit)
}

// FindAll returns every file in the current collection.
func (l *Librarian) FindAll() ([]*store.LibraryFile, error) {
	return l.files.FindAll()
}

// Count returns the number of files in the current collection.
func (l *Librarian) Count() (int64, error) {
	return l.files.Count()
}

// Stats returns index statistics for the current collection.
func (l *Librarian) Stats() (*store.DBStats, error) {
	return l.db.Stats()
}

// DataDir returns the directory holding the per-collection index files.
func (l *Librarian) DataDir() string {
	return l.dataDir
}

// CollectionsInfo returns the file count of every collection with an
// index on disk. The current collection is counted through the open
// handle; the others are opened read-and-close.
func (l *Librarian) CollectionsInfo() (map[string]int64, error) {
	entries, err := os.ReadDir(l.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir: %w", err)
	}
	current := l.CurrentCollection()
	info := make(map[string]int64)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".db" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".db")
		if name == current {
			count, err := l.files.Count()
			if err != nil {
				return nil, err
			}
			info[name] = count
			continue
		}
		count, err := countCollection(filepath.Join(l.dataDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to count collection %s: %w", name, err)
		}
		info[name] = count
	}
	if _, ok := info[current]; !ok {
		count, err := l.files.Count()
		if err != nil {
			return nil, err
		}
		info[current] = count
	}
	return info, nil
}

func countCollection(dbPath string) (int64, error) {
	db, err := store.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return store.NewFileStore(db).Count()
}
