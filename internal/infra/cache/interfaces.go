package cache

import "context"

// ClientInterface is an entity cache with versioned fills. Every Delete
// advances the version of its keys, so a fill that read the backend before
// the delete can no longer land.
type ClientInterface interface {
	// Get reports false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Version returns the current invalidation counter of key, 0 if unset.
	Version(ctx context.Context, key string) (int64, error)
	// SetIfVersion stores value unless key was deleted after version was read.
	SetIfVersion(ctx context.Context, key string, version int64, value any) error
	Delete(ctx context.Context, keys ...string) error
}

var _ ClientInterface = (*RedisCache)(nil)
