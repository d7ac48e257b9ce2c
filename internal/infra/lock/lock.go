package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrLockNotAcquired слот уже заблокирован другим запросом
	ErrLockNotAcquired = errors.New("slot lock not acquired")

	// ErrInternal ошибка обращения к Redis
	ErrInternal = errors.New("lock: internal error")
)

const keyPrefix = "lock:slot:"

// RedisSlotLocker блокировка слота ключом в Redis (SET NX + TTL).
// Снимается скриптом только владельцем токена.
type RedisSlotLocker struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisSlotLocker создает блокировщик слотов
func NewRedisSlotLocker(client redis.Cmdable, ttl time.Duration) *RedisSlotLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisSlotLocker{client: client, ttl: ttl}
}

// WithSlotLock выполняет fn под блокировкой ключа слота.
// fn получает контекст, ограниченный TTL блокировки.
func (l *RedisSlotLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	fullKey := keyPrefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: acquire %s: %v", ErrInternal, fullKey, err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(context.WithoutCancel(ctx), fullKey, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *RedisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: release %s: %v", ErrInternal, key, err)
	}
	return nil
}

// NoopLocker выполняет fn без блокировки, когда Redis не настроен.
// Уникальный индекс в хранилище остается единственной гарантией.
type NoopLocker struct{}

func (NoopLocker) WithSlotLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Username:     username,
		Password:     password,
		DB:           db,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: ping redis: %v", ErrInternal, err)
	}

	return rdb, nil
}
