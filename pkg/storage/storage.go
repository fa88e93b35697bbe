// Package storage keeps uploaded binaries (avatars, resume documents).
package storage

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectStore stores blobs under slash-separated keys and returns a URL clients can fetch.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// Object is a stored blob as served back by stores that can read.
type Object struct {
	ContentType string
	Data        []byte
}

// Getter is implemented by stores that serve their own objects (the in-memory store).
type Getter interface {
	Get(ctx context.Context, key string) (*Object, error)
}
