package scanner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/inventory-loan-service/inventory/internal/model"
	"github.com/Astemirdum/inventory-loan-service/pkg/redislock"
)

type countingService struct {
	calls atomic.Int32
	err   error
}

func (c *countingService) ScanOverdueNow(context.Context) (model.ScanResult, error) {
	c.calls.Add(1)
	return model.ScanResult{}, c.err
}

func newLocker(t *testing.T) (*redislock.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return redislock.New(rdb), mr
}

func TestScanner_OneReplicaPerInterval(t *testing.T) {
	t.Parallel()
	locker, mr := newLocker(t)
	svc := &countingService{}
	a := New(svc, locker, time.Minute, zap.NewExample())
	b := New(svc, locker, time.Minute, zap.NewExample())

	a.tick(context.Background())
	b.tick(context.Background())
	require.Equal(t, int32(1), svc.calls.Load())

	mr.FastForward(time.Minute)
	b.tick(context.Background())
	require.Equal(t, int32(2), svc.calls.Load())
}

func TestScanner_FailedScanReleasesLock(t *testing.T) {
	t.Parallel()
	locker, _ := newLocker(t)
	svc := &countingService{err: errors.New("db down")}
	a := New(svc, locker, time.Minute, zap.NewExample())
	b := New(svc, locker, time.Minute, zap.NewExample())

	a.tick(context.Background())
	b.tick(context.Background())
	require.Equal(t, int32(2), svc.calls.Load())
}

func TestScanner_RunWithoutLocker(t *testing.T) {
	t.Parallel()
	svc := &countingService{}
	s := New(svc, nil, 10*time.Millisecond, zap.NewExample())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return svc.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scanner did not stop")
	}
}
