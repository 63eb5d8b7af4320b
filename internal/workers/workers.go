package workers

import (
	"context"
	"log"
	"time"
)

// Every calls job once per interval until ctx is cancelled. It blocks, so
// start it with go.
func Every(ctx context.Context, name string, interval time.Duration, job func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Worker %s] stopped", name)
			return
		case <-ticker.C:
			job()
		}
	}
}
