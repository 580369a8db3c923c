package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vacq/booking-service/internal/domain"
)

const hospitalListKey = "vacq:hospitals:all"

// cachedHospitalRepository serves List from Redis and invalidates on writes.
// Redis failures degrade to the underlying repository.
type cachedHospitalRepository struct {
	HospitalRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedHospitalRepository decorates inner with a Redis read-through cache.
// A nil client returns inner unchanged.
func NewCachedHospitalRepository(inner HospitalRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) HospitalRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedHospitalRepository{HospitalRepository: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedHospitalRepository) List(ctx context.Context) ([]domain.Hospital, error) {
	cached, err := r.client.Get(ctx, hospitalListKey).Bytes()
	switch {
	case err == nil:
		var hospitals []domain.Hospital
		if jsonErr := json.Unmarshal(cached, &hospitals); jsonErr == nil {
			return hospitals, nil
		}
		r.logger.Warn("discarding corrupt hospital cache entry")
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("hospital cache read failed", zap.Error(err))
	}

	hospitals, err := r.HospitalRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(hospitals); err == nil {
		if err := r.client.Set(ctx, hospitalListKey, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("hospital cache write failed", zap.Error(err))
		}
	}
	return hospitals, nil
}

func (r *cachedHospitalRepository) Create(ctx context.Context, h *domain.Hospital) error {
	if err := r.HospitalRepository.Create(ctx, h); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedHospitalRepository) Update(ctx context.Context, h *domain.Hospital) error {
	if err := r.HospitalRepository.Update(ctx, h); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedHospitalRepository) Delete(ctx context.Context, id string) error {
	if err := r.HospitalRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedHospitalRepository) invalidate(ctx context.Context) {
	if err := r.client.Del(ctx, hospitalListKey).Err(); err != nil {
		r.logger.Warn("hospital cache invalidation failed", zap.Error(err))
	}
}
