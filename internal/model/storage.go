package model

import "context"

// Snapshotter mirrors the whole user collection to a backing store.
//
// Load returns an empty collection when the backing store is missing or its
// content cannot be parsed. Save always rewrites the collection as a whole.
type Snapshotter interface {
	Load(ctx context.Context) ([]User, error)
	Save(ctx context.Context, users []User) error
}
