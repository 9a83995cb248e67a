// Package store provides typed access to the three durable collections the
// client works with: resumes, jobsByResume and appliedJobs. Each collection
// is persisted as one serialized blob in a key-value substrate; every write
// replaces the whole collection.
//
// Known consistency gap: there is no cross-process locking. Two processes
// pointed at the same substrate can race on read-modify-write of one
// collection, and the later write wins. This matches the single-device,
// last-writer-wins model the client is designed around.
package store

import (
	"context"
	"fmt"
)

// KV is the persistence substrate. Load returns (nil, nil) for an absent
// key; callers map that to the collection's empty default.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// StorageError wraps any serialization or substrate failure. A corrupt
// collection must surface as an error, never read as "empty".
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s of %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
