// Package storage persists the journal as a handful of JSON values behind a
// small key/value interface, the same shape as browser local storage and
// device async storage.
package storage

import "context"

// Adapter is a whole-value key/value store. There are no partial updates
// and no transactions: the last writer wins.
type Adapter interface {
	// GetItem returns the stored value and whether the key exists.
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key string, value string) error
	RemoveItem(ctx context.Context, key string) error
}
