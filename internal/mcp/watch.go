package mcp

import (
	"context"
	"os"
	"time"

	"caseeval/internal/logging"
)

// DefaultWatchInterval is how often WatchParent polls the parent PID.
const DefaultWatchInterval = 2 * time.Second

// WatchParent calls cancel once the parent process changes (the client
// that spawned the server exited). It must not read stdin: the stdio
// transport owns it. The goroutine exits when ctx is done.
func WatchParent(ctx context.Context, cancel context.CancelFunc, interval time.Duration) {
	watchParent(ctx, cancel, interval, os.Getppid)
}

func watchParent(ctx context.Context, cancel context.CancelFunc, interval time.Duration, getppid func() int) {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	ppid := getppid()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if getppid() != ppid {
					logging.New("mcp").Warn("parent process exited, shutting down", "parent_pid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
