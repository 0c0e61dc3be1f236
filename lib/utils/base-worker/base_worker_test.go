package baseworker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run(`panic does not stop worker check`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var runs int32
		done := make(chan struct{})
		go func() {
			NewInstance("test", 0, 5*time.Millisecond).Run(ctx, func(ctx context.Context) {
				if atomic.AddInt32(&runs, 1) == 1 {
					panic("первый запуск")
				}
			})
			close(done)
		}()
		require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 3 }, time.Second, 5*time.Millisecond)
		cancel()
		<-done
	})
}
