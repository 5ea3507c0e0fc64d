package storage

import (
	"github.com/JoelBender/bsit-tags/internal/encoding"
	"github.com/JoelBender/bsit-tags/pkg/store"
)

// OpenArchive opens a Badger-backed run archive at path
func OpenArchive(path string, opts ...Option) (*store.Archive, error) {
	storage, err := NewBadgerStorage(path, opts...)
	if err != nil {
		return nil, err
	}
	return store.NewArchive(storage, encoding.NewTermEncoder(), encoding.NewTermDecoder()), nil
}
