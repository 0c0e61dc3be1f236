package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run(`serial access check`, func(t *testing.T) {
		var active, maxActive int32
		wg := sync.WaitGroup{}
		for k := 0; k < 5; k++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				success, err := WithDelay(context.Background(), "cw1", 5*time.Second, func() error {
					current := atomic.AddInt32(&active, 1)
					for {
						prev := atomic.LoadInt32(&maxActive)
						if current <= prev || atomic.CompareAndSwapInt32(&maxActive, prev, current) {
							break
						}
					}
					time.Sleep(10 * time.Millisecond)
					atomic.AddInt32(&active, -1)
					return nil
				})
				require.True(t, success)
				require.Nil(t, err)
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), maxActive)
	})

	t.Run(`timeout check`, func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_, _ = WithDelay(context.Background(), "cw2", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started
		success, err := WithDelay(context.Background(), "cw2", 100*time.Millisecond, func() error {
			return errors.New("не должен выполниться")
		})
		close(release)
		require.False(t, success)
		require.Nil(t, err)
	})

	t.Run(`error passed check`, func(t *testing.T) {
		success, err := WithDelay(context.Background(), "cw3", time.Second, func() error {
			return errors.New("ошибка")
		})
		require.True(t, success)
		require.NotNil(t, err)
	})
}
