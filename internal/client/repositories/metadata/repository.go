// Package metadata stores small key/value settings of the CLI in its local
// SQLite database (table "metadata"). The session token lives here.
package metadata

import "context"

// Repository reads and writes metadata values. Get returns (nil, nil) when
// the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
