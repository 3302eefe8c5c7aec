package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"timeclock-system/internal/rpc"
)

const (
	PAYROLL_DRAFT_PREFIX = "payroll_draft:"
	PAYROLL_LOCK_PREFIX  = "payroll_draft_lock:"
	PAYROLL_CACHE_PREFIX = "payroll:"
)

var ErrDraftNotFound = errors.New("payroll draft not found or expired")

// DraftStore keeps calculated batches between calculation and confirmation.
type DraftStore interface {
	Save(ctx context.Context, d *rpc.PayrollDraft, ttl time.Duration) error
	// Update rewrites a draft without touching its expiry.
	Update(ctx context.Context, d *rpc.PayrollDraft) error
	Load(ctx context.Context, id string) (*rpc.PayrollDraft, error)
	Delete(ctx context.Context, id string) error
	// Lock reports false when another caller already holds the lock.
	Lock(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, id string) error
}

// PayrollCache is a read-through cache for confirmed payrolls.
type PayrollCache interface {
	Get(ctx context.Context, id int64) (*rpc.Payroll, bool)
	Set(ctx context.Context, p *rpc.Payroll)
	Invalidate(ctx context.Context, ids ...int64)
}

type redisDraftStore struct {
	rdb *redis.Client
}

func NewRedisDraftStore(rdb *redis.Client) DraftStore {
	return &redisDraftStore{rdb: rdb}
}

func (s *redisDraftStore) Save(ctx context.Context, d *rpc.PayrollDraft, ttl time.Duration) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return s.rdb.Set(ctx, PAYROLL_DRAFT_PREFIX+d.Id, data, ttl).Err()
}

func (s *redisDraftStore) Update(ctx context.Context, d *rpc.PayrollDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	ok, err := s.rdb.SetXX(ctx, PAYROLL_DRAFT_PREFIX+d.Id, data, redis.KeepTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDraftNotFound
	}
	return nil
}

func (s *redisDraftStore) Load(ctx context.Context, id string) (*rpc.PayrollDraft, error) {
	val, err := s.rdb.Get(ctx, PAYROLL_DRAFT_PREFIX+id).Result()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var d rpc.PayrollDraft
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

func (s *redisDraftStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, PAYROLL_DRAFT_PREFIX+id).Err()
}

func (s *redisDraftStore) Lock(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, PAYROLL_LOCK_PREFIX+id, time.Now().Unix(), ttl).Result()
}

func (s *redisDraftStore) Unlock(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, PAYROLL_LOCK_PREFIX+id).Err()
}

type redisPayrollCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPayrollCache(rdb *redis.Client, ttl time.Duration) PayrollCache {
	return &redisPayrollCache{rdb: rdb, ttl: ttl}
}

func payrollCacheKey(id int64) string {
	return PAYROLL_CACHE_PREFIX + strconv.FormatInt(id, 10)
}

func (c *redisPayrollCache) Get(ctx context.Context, id int64) (*rpc.Payroll, bool) {
	val, err := c.rdb.Get(ctx, payrollCacheKey(id)).Result()
	if err != nil {
		return nil, false
	}
	var p rpc.Payroll
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *redisPayrollCache) Set(ctx context.Context, p *rpc.Payroll) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, payrollCacheKey(p.Id), data, c.ttl).Err()
}

func (c *redisPayrollCache) Invalidate(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, payrollCacheKey(id))
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}
