package project

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "guard-project:"
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (s *RedisStore) key(id uuid.UUID) string {
	return fmt.Sprintf("%s%s", s.keyPrefix, id.String())
}

func (s *RedisStore) ownerKey(ownerID string) string {
	return fmt.Sprintf("%sowner:%s", s.keyPrefix, ownerID)
}

func (s *RedisStore) Save(ctx context.Context, p Project) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(p.ID), raw, 0)
	pipe.SAdd(ctx, s.ownerKey(p.OwnerID), p.ID.String())
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var p Project
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RedisStore) ListByOwner(ctx context.Context, ownerID string) ([]Project, error) {
	ids, err := s.client.SMembers(ctx, s.ownerKey(ownerID)).Result()
	if err != nil {
		return nil, err
	}
	var out []Project
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		p, err := s.Get(ctx, id)
		if err == ErrNotFound {
			// stale index entry, drop it
			s.client.SRem(ctx, s.ownerKey(ownerID), raw)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(id))
	pipe.SRem(ctx, s.ownerKey(p.OwnerID), id.String())
	_, err = pipe.Exec(ctx)
	return err
}
