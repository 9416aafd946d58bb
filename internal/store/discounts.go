package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/redis/go-redis/v9"
)

const discountIndexKey = "discounts"

func discountKey(code string) string {
	return fmt.Sprintf("discount:%s", code)
}

// CreateDiscount stores a new discount and indexes its code in one
// transaction. An existing code yields ErrDuplicate.
func (s *Store) CreateDiscount(ctx context.Context, d models.Discount) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal discount failed: %w", err)
	}

	var created *redis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, discountKey(d.Code), data, 0)
		pipe.SAdd(ctx, discountIndexKey, d.Code)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis create discount failed: %w", err)
	}
	if !created.Val() {
		return ErrDuplicate
	}
	return nil
}

func (s *Store) GetDiscount(ctx context.Context, code string) (*models.Discount, error) {
	data, err := s.client.Get(ctx, discountKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var d models.Discount
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal discount failed: %w", err)
	}
	return &d, nil
}

// ListDiscountCodes returns every stored code, in no particular order.
func (s *Store) ListDiscountCodes(ctx context.Context) ([]string, error) {
	codes, err := s.client.SMembers(ctx, discountIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}
	return codes, nil
}
