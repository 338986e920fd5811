// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const denyKeyPrefix = "jwt:deny:"

// TokenDenylist records revoked token ids in Valkey. Entries expire with
// the token they revoke, so the set never grows past live tokens.
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist creates a denylist backed by the given client.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

// Revoke marks tokenID revoked for ttl.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denyKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("deny token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denyKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check denied token: %w", err)
	}
	return n > 0, nil
}
