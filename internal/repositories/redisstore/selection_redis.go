package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/RxPortal-2025/member-portal/internal/repositories"
)

// selection keys never expire; the pointer must survive sign-out and
// device changes so the next session can restore the same profile
const selectionKeyFormat = "activeProfile::%s"

type SelectionRedis struct {
	client *redis.Client
}

func NewSelectionRedis(client *redis.Client) repositories.SelectionRepository {
	return &SelectionRedis{client: client}
}

func (s *SelectionRedis) key(accountID string) string {
	return fmt.Sprintf(selectionKeyFormat, accountID)
}

func (s *SelectionRedis) Get(ctx context.Context, accountID string) (string, error) {
	if s.client == nil {
		return "", nil // Graceful degradation when redis not available
	}

	profileID, err := s.client.Get(ctx, s.key(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get active profile for account: %w", err)
	}
	return profileID, nil
}

func (s *SelectionRedis) Set(ctx context.Context, accountID, profileID string) error {
	if s.client == nil {
		return nil
	}

	if err := s.client.Set(ctx, s.key(accountID), profileID, 0).Err(); err != nil {
		return fmt.Errorf("set active profile for account: %w", err)
	}
	return nil
}

func (s *SelectionRedis) Clear(ctx context.Context, accountID string) error {
	if s.client == nil {
		return nil
	}

	if err := s.client.Del(ctx, s.key(accountID)).Err(); err != nil {
		return fmt.Errorf("clear active profile for account: %w", err)
	}
	return nil
}
