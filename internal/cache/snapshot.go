// Package cache keeps recent job snapshots in Redis so that many monitors
// polling the same job cost one database read per TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/campaign-studio/internal/domain"
)

const keyPrefix = "studio:job:snapshot:"

// SnapshotCache stores domain.JobSnapshot values as JSON.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a cache whose entries expire after ttl.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

func snapshotKey(jobID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, jobID)
}

// Get returns the cached snapshot and whether one was present.
func (c *SnapshotCache) Get(ctx context.Context, jobID int64) (domain.JobSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, snapshotKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.JobSnapshot{}, false, nil
	}
	if err != nil {
		return domain.JobSnapshot{}, false, fmt.Errorf("get snapshot %d: %w", jobID, err)
	}

	var snap domain.JobSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// a corrupt entry is a miss; the caller will overwrite it
		return domain.JobSnapshot{}, false, nil
	}
	return snap, true, nil
}

// Set stores snap under its job id.
func (c *SnapshotCache) Set(ctx context.Context, snap domain.JobSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(snap.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot %d: %w", snap.ID, err)
	}
	return nil
}

// Invalidate drops the cached snapshot for jobID.
func (c *SnapshotCache) Invalidate(ctx context.Context, jobID int64) error {
	if err := c.client.Del(ctx, snapshotKey(jobID)).Err(); err != nil {
		return fmt.Errorf("invalidate snapshot %d: %w", jobID, err)
	}
	return nil
}
