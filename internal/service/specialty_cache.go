package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sistema-hospitalar/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	specialtyListKey = "specialties:all"
	specialtyListTTL = 10 * time.Minute
)

// SpecialtyCache holds the specialty list. A miss returns (nil, false, nil).
type SpecialtyCache interface {
	Get(ctx context.Context) ([]entity.Specialty, bool, error)
	Set(ctx context.Context, specialties []entity.Specialty) error
	Invalidate(ctx context.Context) error
}

type redisSpecialtyCache struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisSpecialtyCache(client *redis.Client, log *logrus.Logger) SpecialtyCache {
	return &redisSpecialtyCache{client: client, log: log}
}

func (c *redisSpecialtyCache) Get(ctx context.Context) ([]entity.Specialty, bool, error) {
	b, err := c.client.Get(ctx, specialtyListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var specialties []entity.Specialty
	if err := json.Unmarshal(b, &specialties); err != nil {
		c.log.Warnf("Failed to decode cached specialties, dropping entry: %+v", err)
		_ = c.client.Del(ctx, specialtyListKey).Err()
		return nil, false, nil
	}
	return specialties, true, nil
}

func (c *redisSpecialtyCache) Set(ctx context.Context, specialties []entity.Specialty) error {
	b, err := json.Marshal(specialties)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, specialtyListKey, b, specialtyListTTL).Err()
}

func (c *redisSpecialtyCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, specialtyListKey).Err()
}
