// Package kvstore is the injected key-value persistence port for ledger and
// progress snapshots. The game originally persisted to browser local storage;
// here the same load/save contract is backed by Redis in production and by an
// in-memory map in tests.
package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("error key not found")

type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}
