package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	orderIndexKey   = "orders"
	maxWatchRetries = 3
)

func orderKey(id string) string {
	return fmt.Sprintf("order:%s", id)
}

func orderSessionKey(sessionID string) string {
	return fmt.Sprintf("order:session:%s", sessionID)
}

// CreateOrder records an order once per checkout session. A second order
// for the same session yields ErrDuplicate.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order failed: %w", err)
	}

	claimed, err := s.client.SetNX(ctx, orderSessionKey(o.SessionID), o.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setnx failed: %w", err)
	}
	if !claimed {
		return ErrDuplicate
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, orderKey(o.ID), data, 0)
		pipe.ZAdd(ctx, orderIndexKey, redis.Z{Score: float64(o.CreatedAt.UnixMilli()), Member: o.ID})
		return nil
	})
	if err != nil {
		// release the claim so a redelivery can retry
		s.client.Del(ctx, orderSessionKey(o.SessionID))
		return fmt.Errorf("redis write order failed: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	data, err := s.client.Get(ctx, orderKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return decodeOrder(data)
}

// ListOrders returns up to limit orders, newest first.
func (s *Store) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		return []models.Order{}, nil
	}

	ids, err := s.client.ZRevRange(ctx, orderIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrevrange failed: %w", err)
	}
	if len(ids) == 0 {
		return []models.Order{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = orderKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget failed: %w", err)
	}

	orders := make([]models.Order, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		o, err := decodeOrder([]byte(str))
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// UpdateOrder applies fn to the stored order under optimistic locking.
// An error from fn aborts the update and is returned unchanged.
func (s *Store) UpdateOrder(ctx context.Context, id string, fn func(*models.Order) error) (*models.Order, error) {
	key := orderKey(id)
	var updated *models.Order

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get failed: %w", err)
		}

		o, err := decodeOrder(data)
		if err != nil {
			return err
		}
		if err := fn(o); err != nil {
			return err
		}

		out, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("marshal order failed: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = o
		return nil
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("update order %s: too much contention", id)
}

func decodeOrder(data []byte) (*models.Order, error) {
	var o models.Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order failed: %w", err)
	}
	return &o, nil
}
