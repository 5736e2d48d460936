package session

import (
	"context"
	"errors"
	"fmt"

	"qkart/storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	usernameKey = "username"
	tokenKey    = "token"
)

type redisStore struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStore(redisClient *redis.Client, keyPrefix string) Store {
	if keyPrefix == "" {
		keyPrefix = "qkart:session:"
	}
	return &redisStore{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
	}
}

func (s *redisStore) Load(ctx context.Context) (domain.Session, error) {
	vals, err := s.redisClient.MGet(ctx, s.keyPrefix+usernameKey, s.keyPrefix+tokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, nil // Nobody logged in yet
		}
		return domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var session domain.Session
	if username, ok := vals[0].(string); ok {
		session.Username = username
	}
	if token, ok := vals[1].(string); ok {
		session.Token = token
	}
	return session, nil
}

func (s *redisStore) Save(ctx context.Context, session domain.Session) error {
	err := s.redisClient.MSet(ctx,
		s.keyPrefix+usernameKey, session.Username,
		s.keyPrefix+tokenKey, session.Token,
	).Err() // No expiration, like browser local storage
	if err != nil {
		return fmt.Errorf("failed to save session for %s: %w", session.Username, err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, s.keyPrefix+usernameKey, s.keyPrefix+tokenKey).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
