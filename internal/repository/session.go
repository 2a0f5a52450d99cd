package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/gameroom-backend/internal/apperror"
	"github.com/rocketscienceinc/gameroom-backend/internal/entity"
)

// SessionRepository issues opaque session identifiers and answers
// whether an identifier was ever issued.
type SessionRepository interface {
	Create(ctx context.Context) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func (that *dbSession) Create(ctx context.Context) (string, error) {
	session := &entity.Session{
		ID:       uuid.NewString(),
		IssuedAt: time.Now().UTC(),
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	sessionKey := "session:" + session.ID
	if err = that.client.Set(ctx, sessionKey, sessionJSON, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to set session: %w", err)
	}

	return session.ID, nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	sessionKey := "session:" + id

	response, err := that.client.Get(ctx, sessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Session{}, apperror.ErrSessionNotFound
	}

	if err != nil {
		return &entity.Session{}, fmt.Errorf("failed to get session by ID: %w", err)
	}

	var existingSession entity.Session
	if err = json.Unmarshal([]byte(response), &existingSession); err != nil {
		return &entity.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &existingSession, nil
}

func (that *dbSession) Exists(ctx context.Context, id string) (bool, error) {
	_, err := that.GetByID(ctx, id)

	if errors.Is(err, apperror.ErrSessionNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
