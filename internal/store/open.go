package store

import (
	"fmt"
	"strings"
)

// OpenBlobStore returns the blob store for a configured backend name.
func OpenBlobStore(backend, path string) (BlobStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "sqlite":
		return SQLiteBlobStore{Path: path}, nil
	case "file":
		return &FileBlobStore{Path: path}, nil
	case "memory":
		return NewMemoryBlobStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", backend)
	}
}
