package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDuplicate is returned when an insert violates the (collection, hash)
// uniqueness invariant. Callers are expected to probe Exists first for a
// friendlier message, but the constraint is enforced here regardless.
var ErrDuplicate = errors.New("library file already exists")

// FileStore provides CRUD operations for library file records within one
// collection partition.
type FileStore struct {
	db *DB
}

// NewFileStore creates a new file store bound to db.
func NewFileStore(db *DB) *FileStore {
	return &FileStore{db: db}
}

// Exists reports whether a record with the given hash is present.
func (s *FileStore) Exists(hashID string) (bool, error) {
	var one int
	err := s.db.sqlDB.QueryRow(
		"SELECT 1 FROM library_files WHERE hash_id = ? LIMIT 1", hashID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return true, nil
}

// Insert stores a new record. The creation timestamp is assigned here, at
// write time. Returns ErrDuplicate when the (collection, hash) pair is
// already present.
func (s *FileStore) Insert(file *LibraryFile) error {
	if file == nil {
		return fmt.Errorf("library file is nil")
	}
	if file.HashID == "" {
		return fmt.Errorf("library file hash_id is required")
	}
	if file.CollectionName == "" {
		return fmt.Errorf("library file collection_name is required")
	}

	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.sqlDB.Exec(
		"INSERT INTO library_files (hash_id, file_name, collection_name, created_at) VALUES (?, ?, ?, ?)",
		file.HashID, file.FileName, file.CollectionName,
		file.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, file.HashID)
		}
		return fmt.Errorf("failed to insert library file: %w", err)
	}

	return nil
}

// Find returns records matching the given filters. hashPrefix matches a
// leading substring of hash_id, filename matches anywhere in file_name;
// both filters are ANDed when supplied.
func (s *FileStore) Find(hashPrefix, filename string) ([]*LibraryFile, error) {
	query := "SELECT hash_id, file_name, collection_name, created_at FROM library_files"
	var conds []string
	var args []any

	if hashPrefix != "" {
		conds = append(conds, `hash_id LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(hashPrefix)+"%")
	}
	if filename != "" {
		conds = append(conds, `file_name LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(filename)+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY rowid"

	return s.queryFiles(query, args...)
}

// FindLatest returns up to limit records ordered newest first. Records that
// share a timestamp fall back to insertion order.
func (s *FileStore) FindLatest(limit int) ([]*LibraryFile, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryFiles(
		"SELECT hash_id, file_name, collection_name, created_at FROM library_files ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
}

// FindAll returns every record in the partition in insertion order.
func (s *FileStore) FindAll() ([]*LibraryFile, error) {
	return s.queryFiles(
		"SELECT hash_id, file_name, collection_name, created_at FROM library_files ORDER BY rowid",
	)
}

// Count returns the number of records in the partition.
func (s *FileStore) Count() (int64, error) {
	var count int64
	if err := s.db.sqlDB.QueryRow("SELECT COUNT(*) FROM library_files").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count library files: %w", err)
	}
	return count, nil
}

// DeleteByHash removes the record with the given hash, if present.
func (s *FileStore) DeleteByHash(hashID string) error {
	if _, err := s.db.sqlDB.Exec("DELETE FROM library_files WHERE hash_id = ?", hashID); err != nil {
		return fmt.Errorf("failed to delete library file: %w", err)
	}
	return nil
}

// DeleteAll clears the whole partition. Used by collection drop.
func (s *FileStore) DeleteAll() error {
	if _, err := s.db.sqlDB.Exec("DELETE FROM library_files"); err != nil {
		return fmt.Errorf("failed to clear library files: %w", err)
	}
	return nil
}

func (s *FileStore) queryFiles(query string, args ...any) ([]*LibraryFile, error) {
	rows, err := s.db.sqlDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query library files: %w", err)
	}
	defer rows.Close()

	var files []*LibraryFile
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate library files: %w", err)
	}
	return files, nil
}

func scanFile(row rowScanner) (*LibraryFile, error) {
	var file LibraryFile
	var createdAtValue any

	if err := row.Scan(&file.HashID, &file.FileName, &file.CollectionName, &createdAtValue); err != nil {
		return nil, fmt.Errorf("failed to scan library file: %w", err)
	}

	createdAt, err := parseTimeValue(createdAtValue)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	file.CreatedAt = createdAt

	return &file, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
