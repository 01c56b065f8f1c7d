package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// GetJSON reads and decodes the record at (kind, key).
func GetJSON[T any](ctx context.Context, tx Tx, kind Kind, key string) (*T, bool, error) {
	raw, ok, err := tx.Get(ctx, kind, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, fmt.Errorf("decode %s/%s: %w", kind, key, err)
	}
	return &v, true, nil
}

// PutJSON encodes v and stores it at (kind, key).
func PutJSON(ctx context.Context, tx Tx, kind Kind, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", kind, key, err)
	}
	return tx.Put(ctx, kind, key, raw)
}

// IDKey formats a numeric id so that byte order matches numeric order.
func IDKey(id int64) string {
	return fmt.Sprintf("%020d", id)
}

// ParseIDKey is the inverse of IDKey.
func ParseIDKey(key string) (int64, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id key %q: %w", key, err)
	}
	return id, nil
}
