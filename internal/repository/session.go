package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores session snapshots keyed by player id, so
// an open game survives a reconnect or a process restart.
type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, id string, snapshot game.Snapshot) error
	GetByID(ctx context.Context, id string) (game.Snapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, id string, snapshot game.Snapshot) error {
	sessionJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	sessionKey := "session:" + id
	if err = that.client.Set(ctx, sessionKey, sessionJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (game.Snapshot, error) {
	sessionKey := "session:" + id

	response, err := that.client.Get(ctx, sessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return game.Snapshot{}, ErrSessionNotFound
	}

	if err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to get session by ID: %w", err)
	}

	var snapshot game.Snapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return snapshot, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	sessionKey := "session:" + id

	if err := that.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session by ID: %w", err)
	}

	return nil
}
