package storage

import "strings"

// NewProvider picks a storage backend from the config path: sqlite for .db
// and .sqlite files, the single-file JSON store otherwise.
func NewProvider(path string) Provider {
	if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite") {
		return NewSQLiteStore(path)
	}
	return NewJSONStore(path)
}
