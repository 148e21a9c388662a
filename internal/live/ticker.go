package live

import (
	"context"
	"time"
)

// Tick calls fn on every interval until ctx is done. Ticks that arrive while
// fn is still running are dropped.
func Tick(ctx context.Context, interval time.Duration, fn func(now time.Time)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fn(now)
		}
	}
}
