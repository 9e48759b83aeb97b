package storage

import "context"

// Entry is one key-value pair of an atomic multi-key write
type Entry struct {
	Key   string
	Value string
}

// Backend is a string-keyed persistent store. Values are opaque strings; Store layers JSON on top.
type Backend interface {
	// Get returns found=false when the key is absent. An error means the backend itself failed.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all entries or none of them.
	SetMany(ctx context.Context, entries ...Entry) error
	Delete(ctx context.Context, key string) error
}
