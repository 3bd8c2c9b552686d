package cache

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Driver stores string values under string keys until they expire.
type Driver interface {
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
