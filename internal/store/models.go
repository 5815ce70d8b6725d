package store

import "time"

// LibraryFile is one row per successfully ingested file. Its hash_id is the
// content address of the file's bytes and the join key to the chunk points
// held by the vector store.
type LibraryFile struct {
	HashID         string
	FileName       string
	CollectionName string
	CreatedAt      time.Time
}
