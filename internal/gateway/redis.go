package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"github.com/mtorres/slate/internal/model"
)

// RedisGateway persists items in Redis. Useful when several machines share
// one board. Each item lives as JSON at item:<id>, with a membership set
// per user at user:<id>:items.
type RedisGateway struct {
	client *redis.Client
}

// storedItem wraps a ContentItem with the owning user so single-id
// operations (delete, status update) can maintain the membership set.
type storedItem struct {
	UserID string            `json:"user_id"`
	Item   model.ContentItem `json:"item"`
}

// OpenRedis creates a gateway talking to the given Redis instance.
func OpenRedis(addr, password string, db int) (*RedisGateway, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisGateway{client: client}, nil
}

func itemKey(id string) string     { return "item:" + id }
func userSetKey(uid string) string { return "user:" + uid + ":items" }

// CreateItem stores the item and adds it to the user's membership set.
func (g *RedisGateway) CreateItem(ctx context.Context, userID string, item model.ContentItem) error {
	data, err := json.Marshal(storedItem{UserID: userID, Item: item})
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	pipe := g.client.Pipeline()
	pipe.Set(ctx, itemKey(item.ID), data, 0)
	pipe.SAdd(ctx, userSetKey(userID), item.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// UpdateItem rewrites the stored item, keeping its owning user.
func (g *RedisGateway) UpdateItem(ctx context.Context, item model.ContentItem) error {
	return g.rewrite(ctx, item.ID, "update item", func(stored *storedItem) {
		stored.Item = item
	})
}

// UpdateStatus rewrites just the stage of a stored item.
func (g *RedisGateway) UpdateStatus(ctx context.Context, id string, stage model.Stage) error {
	return g.rewrite(ctx, id, "update status", func(stored *storedItem) {
		stored.Item.Stage = stage
		stored.Item.Touch()
	})
}

// maxTxRetries bounds the optimistic WATCH retry loop.
const maxTxRetries = 3

// rewrite applies mutate to a stored item inside a WATCH/MULTI transaction.
// Several processes may share one board; without the watch, two concurrent
// read-modify-write cycles on the same key would silently drop one update.
func (g *RedisGateway) rewrite(ctx context.Context, id, op string, mutate func(*storedItem)) error {
	key := itemKey(id)
	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return fmt.Errorf("get item: %w", err)
		}
		var stored storedItem
		if err := json.Unmarshal([]byte(data), &stored); err != nil {
			return fmt.Errorf("decode item: %w", err)
		}
		mutate(&stored)
		out, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := g.client.Watch(ctx, txn, key)
		if err == redis.TxFailedErr {
			continue // key changed under us, retry
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	return fmt.Errorf("%s: %w", op, redis.TxFailedErr)
}

// DeleteItem removes the item and its membership entry.
func (g *RedisGateway) DeleteItem(ctx context.Context, id string) error {
	stored, err := g.get(ctx, id)
	if err != nil {
		return err
	}
	pipe := g.client.Pipeline()
	pipe.Del(ctx, itemKey(id))
	pipe.SRem(ctx, userSetKey(stored.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// ListItemsForUser fetches all of a user's items with a pipelined
// multi-get, grouped by stage and sorted by creation time. Ids whose
// payload disappeared between SMEMBERS and GET are skipped.
func (g *RedisGateway) ListItemsForUser(ctx context.Context, userID string) (map[model.Stage][]model.ContentItem, error) {
	ids, err := g.client.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list item ids: %w", err)
	}
	if len(ids) == 0 {
		return groupByStage(nil), nil
	}

	pipe := g.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, itemKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	items := make([]model.ContentItem, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("fetch item: %w", err)
		}
		var stored storedItem
		if err := json.Unmarshal([]byte(data), &stored); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, stored.Item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return groupByStage(items), nil
}

// Close closes the Redis client.
func (g *RedisGateway) Close() error {
	return g.client.Close()
}

func (g *RedisGateway) get(ctx context.Context, id string) (storedItem, error) {
	data, err := g.client.Get(ctx, itemKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return storedItem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return storedItem{}, fmt.Errorf("get item: %w", err)
	}
	var stored storedItem
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return storedItem{}, fmt.Errorf("decode item: %w", err)
	}
	return stored, nil
}
