package lichessauth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

// Store is the durable home of the PKCE exchange state. Only the session
// manager reads or writes these entries.
type Store interface {
	SaveLogin(ctx context.Context, state, verifier string) error
	LoadLogin(ctx context.Context) (state, verifier string, err error)
	SaveToken(ctx context.Context, tok *oauth2.Token) error
	LoadToken(ctx context.Context) (*oauth2.Token, error)
	Clear(ctx context.Context) error
}

const (
	keyState    = "lichess:oauth:state"
	keyVerifier = "lichess:oauth:verifier"
	keyToken    = "lichess:oauth:token"

	// A pending authorization that never returns is abandoned.
	ttlLogin = 15 * time.Minute
	ttlToken = 30 * 24 * time.Hour
)

type RedisStore struct{ rdb *redis.Client }

func NewRedisStore(redisURL string) (*RedisStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for auth store")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *RedisStore) SaveLogin(ctx context.Context, state, verifier string) error {
	if err := s.rdb.Set(ctx, keyState, state, ttlLogin).Err(); err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyVerifier, verifier, ttlLogin).Err()
}

func (s *RedisStore) LoadLogin(ctx context.Context) (string, string, error) {
	state, err := s.rdb.Get(ctx, keyState).Result()
	if err == redis.Nil {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	verifier, err := s.rdb.Get(ctx, keyVerifier).Result()
	if err == redis.Nil {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	return state, verifier, nil
}

func (s *RedisStore) SaveToken(ctx context.Context, tok *oauth2.Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyToken, raw, ttlToken).Err()
}

func (s *RedisStore) LoadToken(ctx context.Context) (*oauth2.Token, error) {
	raw, err := s.rdb.Get(ctx, keyToken).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, keyState, keyVerifier, keyToken).Err()
}
