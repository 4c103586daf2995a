// Package cache keeps each owner's room and task lists in Redis so that
// dashboard reads do not hit SQLite on every request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukerupert/tidyhouse/internal/model"
)

const keyPrefix = "tidyhouse:"

func tasksKey(ownerID string) string { return keyPrefix + "tasks:" + ownerID }
func roomsKey(ownerID string) string { return keyPrefix + "rooms:" + ownerID }

// Connect parses a redis:// URL and checks the server is reachable.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// OwnerCache stores per-owner task and room lists as JSON with a TTL.
type OwnerCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOwnerCache(rdb *redis.Client, ttl time.Duration) *OwnerCache {
	return &OwnerCache{rdb: rdb, ttl: ttl}
}

// GetTasks returns the cached task list, or nil on a miss.
func (c *OwnerCache) GetTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	ok, err := c.get(ctx, tasksKey(ownerID), &tasks)
	if err != nil || !ok {
		return nil, err
	}
	return tasks, nil
}

func (c *OwnerCache) SetTasks(ctx context.Context, ownerID string, tasks []model.Task) error {
	return c.set(ctx, tasksKey(ownerID), tasks)
}

// GetRooms returns the cached room list, or nil on a miss.
func (c *OwnerCache) GetRooms(ctx context.Context, ownerID string) ([]model.Room, error) {
	var rooms []model.Room
	ok, err := c.get(ctx, roomsKey(ownerID), &rooms)
	if err != nil || !ok {
		return nil, err
	}
	return rooms, nil
}

func (c *OwnerCache) SetRooms(ctx context.Context, ownerID string, rooms []model.Room) error {
	return c.set(ctx, roomsKey(ownerID), rooms)
}

// Invalidate drops both lists for the owner. Call after every write.
func (c *OwnerCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.rdb.Del(ctx, tasksKey(ownerID), roomsKey(ownerID)).Err()
}

func (c *OwnerCache) get(ctx context.Context, key string, v any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *OwnerCache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
