package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const inventoryKey = "inventory"

// decrementScript lowers a tracked bundle's stock, never below zero.
// Returns -1 when the bundle has no stock entry.
var decrementScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
  return -1
end
local n = tonumber(redis.call('HGET', KEYS[1], ARGV[1])) - tonumber(ARGV[2])
if n < 0 then
  n = 0
end
redis.call('HSET', KEYS[1], ARGV[1], n)
return n
`)

// GetStock returns the stock of every tracked bundle.
func (s *Store) GetStock(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, inventoryKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	stock := make(map[string]int64, len(raw))
	for id, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse stock for %s: %w", id, err)
		}
		stock[id] = n
	}
	return stock, nil
}

func (s *Store) SetStock(ctx context.Context, bundleID string, available int64) error {
	if err := s.client.HSet(ctx, inventoryKey, bundleID, available).Err(); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}

// DecrementStock removes qty units and returns what is left.
// Bundles without a stock entry are untracked and yield ErrNotFound.
func (s *Store) DecrementStock(ctx context.Context, bundleID string, qty int64) (int64, error) {
	left, err := decrementScript.Run(ctx, s.client, []string{inventoryKey}, bundleID, qty).Int64()
	if err != nil {
		return 0, fmt.Errorf("decrement stock failed: %w", err)
	}
	if left < 0 {
		return 0, ErrNotFound
	}
	return left, nil
}
