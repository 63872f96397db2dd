package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-service/internal/app/service"
	"catalog-service/pkg/locker"
)

type stubRunner struct {
	mu      sync.Mutex
	calls   int
	batches []int
	result  service.TaggingResult
	err     error
}

func (r *stubRunner) TagUntagged(_ context.Context, batch int) (service.TaggingResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.batches = append(r.batches, batch)
	return r.result, r.err
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newRedisLocker(t *testing.T) (*miniredis.Miniredis, *locker.RedisLocker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, locker.NewRedisLocker(client, zap.NewNop())
}

func newScheduler(runner TaggingRunner, l locker.DistributedLocker) *TaggingScheduler {
	s := NewTaggingScheduler(runner, TaggingConfig{
		Interval:  time.Hour,
		Timeout:   time.Second,
		BatchSize: 7,
	}, l, zap.NewNop())
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

func TestExecute_SuccessKeepsLease(t *testing.T) {
	mr, l := newRedisLocker(t)
	runner := &stubRunner{result: service.TaggingResult{Processed: 2, Tagged: 2}}
	s := newScheduler(runner, l)
	defer s.cancel()

	s.execute()
	assert.Equal(t, 1, runner.callCount())
	assert.Equal(t, []int{7}, runner.batches)
	assert.True(t, mr.Exists("lock:"+taggingLockKey))

	// Second tick within the cooldown is skipped.
	s.execute()
	assert.Equal(t, 1, runner.callCount())
}

func TestExecute_FailureReleasesLease(t *testing.T) {
	mr, l := newRedisLocker(t)
	runner := &stubRunner{err: errors.New("listing untagged products: connection refused")}
	s := newScheduler(runner, l)
	defer s.cancel()

	s.execute()
	assert.False(t, mr.Exists("lock:"+taggingLockKey))

	s.execute()
	assert.Equal(t, 2, runner.callCount())
}

func TestExecute_PartialFailureReleasesLease(t *testing.T) {
	mr, l := newRedisLocker(t)
	runner := &stubRunner{result: service.TaggingResult{Processed: 3, Tagged: 2, Failed: 1}}
	s := newScheduler(runner, l)
	defer s.cancel()

	s.execute()
	assert.False(t, mr.Exists("lock:"+taggingLockKey))
}

func TestExecute_SkipsWhenHeldElsewhere(t *testing.T) {
	l := locker.NewLocal()
	acquired, err := l.Acquire(context.Background(), taggingLockKey, time.Hour)
	require.NoError(t, err)
	require.True(t, acquired)

	runner := &stubRunner{}
	s := newScheduler(runner, l)
	defer s.cancel()

	s.execute()
	assert.Zero(t, runner.callCount())
}

func TestStartStop_RunsOnStartup(t *testing.T) {
	runner := &stubRunner{}
	s := NewTaggingScheduler(runner, TaggingConfig{
		Interval:  time.Hour,
		Timeout:   time.Second,
		BatchSize: 5,
		OnStartup: true,
	}, locker.NewLocal(), zap.NewNop())

	s.Start()
	require.Eventually(t, func() bool { return runner.callCount() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()

	assert.Equal(t, 1, runner.callCount())
}
