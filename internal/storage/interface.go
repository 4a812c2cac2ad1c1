package storage

import (
	"context"
)

// ObjectStorage is a remote bucket that receives copies of saved captures.
type ObjectStorage interface {
	// Upload stores data under key
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// GetURL returns the URL for accessing an object
	GetURL(key string) string

	// Key maps a local file name onto an object key
	Key(name string) string
}
