package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// AttemptReservation 开始答题时记录的抽题结果，提交时据此校验
type AttemptReservation struct {
	UserID      uint   `json:"user_id"`
	CategoryID  uint   `json:"category_id"`
	QuestionIDs []uint `json:"question_ids"`
}

// AttemptReservationStore 在 start 与 submit 之间占用 attempt_id
type AttemptReservationStore interface {
	// Reserve 仅当 attemptID 未被占用时写入，返回是否成功
	Reserve(ctx context.Context, attemptID int, r AttemptReservation) (bool, error)
	// Get 不存在时返回 nil, nil
	Get(ctx context.Context, attemptID int) (*AttemptReservation, error)
	Release(ctx context.Context, attemptID int) error
}

// NewReservationStore Redis 未启用时退化为不做预留
func NewReservationStore(rdb *redis.Client, ttl time.Duration) AttemptReservationStore {
	if rdb == nil {
		return noopReservationStore{}
	}
	return &RedisReservationStore{Client: rdb, TTL: ttl}
}

type RedisReservationStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func reservationKey(attemptID int) string {
	return fmt.Sprintf("quiz:attempt:%d", attemptID)
}

func (s *RedisReservationStore) Reserve(ctx context.Context, attemptID int, r AttemptReservation) (bool, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	return s.Client.SetNX(ctx, reservationKey(attemptID), data, s.TTL).Result()
}

func (s *RedisReservationStore) Get(ctx context.Context, attemptID int) (*AttemptReservation, error) {
	data, err := s.Client.Get(ctx, reservationKey(attemptID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var r AttemptReservation
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RedisReservationStore) Release(ctx context.Context, attemptID int) error {
	return s.Client.Del(ctx, reservationKey(attemptID)).Err()
}

type noopReservationStore struct{}

func (noopReservationStore) Reserve(context.Context, int, AttemptReservation) (bool, error) {
	return true, nil
}

func (noopReservationStore) Get(context.Context, int) (*AttemptReservation, error) {
	return nil, nil
}

func (noopReservationStore) Release(context.Context, int) error {
	return nil
}
