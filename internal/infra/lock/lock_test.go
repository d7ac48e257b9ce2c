package lock

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis хранит ключи в памяти; остальные команды Cmdable не используются
type fakeRedis struct {
	redis.Cmdable
	keys     map[string]string
	setErr   error
	released []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{keys: map[string]string{}}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) EvalSha(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	key, token := keys[0], args[0].(string)
	if f.keys[key] != token {
		return redis.NewCmdResult(int64(0), nil)
	}
	delete(f.keys, key)
	f.released = append(f.released, key)
	return redis.NewCmdResult(int64(1), nil)
}

func TestRedisSlotLocker_RunsAndReleases(t *testing.T) {
	rdb := newFakeRedis()
	locker := NewRedisSlotLocker(rdb, time.Second)

	called := false
	err := locker.WithSlotLock(context.Background(), "professional:P1:2025-03-10:14:00", func(ctx context.Context) error {
		called = true
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		assert.Len(t, rdb.keys, 1)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, rdb.keys)
	assert.Equal(t, []string{"lock:slot:professional:P1:2025-03-10:14:00"}, rdb.released)
}

func TestRedisSlotLocker_Contended(t *testing.T) {
	rdb := newFakeRedis()
	locker := NewRedisSlotLocker(rdb, time.Second)
	key := "employee:e-1:2025-03-10:09:00"

	err := locker.WithSlotLock(context.Background(), key, func(ctx context.Context) error {
		inner := locker.WithSlotLock(ctx, key, func(context.Context) error {
			t.Fatal("inner section must not run")
			return nil
		})
		assert.ErrorIs(t, inner, ErrLockNotAcquired)
		return nil
	})
	require.NoError(t, err)
}

func TestRedisSlotLocker_PropagatesErrors(t *testing.T) {
	rdb := newFakeRedis()
	locker := NewRedisSlotLocker(rdb, 0)
	boom := errors.New("boom")

	err := locker.WithSlotLock(context.Background(), "k", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rdb.keys)

	rdb.setErr = errors.New("connection refused")
	err = locker.WithSlotLock(context.Background(), "k", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrInternal)
	assert.True(t, strings.Contains(err.Error(), "lock:slot:k"))
}

func TestNoopLocker(t *testing.T) {
	called := false
	err := NoopLocker{}.WithSlotLock(context.Background(), "k", func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
