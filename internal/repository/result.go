package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
)

const resultKeyPrefix = "results:"

type ResultRepository interface {
	Record(ctx context.Context, result *entity.GameResult) error
	ListByRoom(ctx context.Context, roomID string) ([]entity.GameResult, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

// Record appends the finished game to the room's history list, newest
// first.
func (that *dbResult) Record(ctx context.Context, result *entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	resultKey := resultKeyPrefix + result.RoomID
	if err = that.client.LPush(ctx, resultKey, resultJSON).Err(); err != nil {
		return fmt.Errorf("failed to push result: %w", err)
	}

	return nil
}

// ListByRoom returns every recorded result for the room, newest first.
// A room with no history yields an empty slice, not an error.
func (that *dbResult) ListByRoom(ctx context.Context, roomID string) ([]entity.GameResult, error) {
	resultKey := resultKeyPrefix + roomID

	entries, err := that.client.LRange(ctx, resultKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	results := make([]entity.GameResult, 0, len(entries))
	for _, entry := range entries {
		var result entity.GameResult
		if err = json.Unmarshal([]byte(entry), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}

		results = append(results, result)
	}

	return results, nil
}
