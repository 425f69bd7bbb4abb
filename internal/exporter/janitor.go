package exporter

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

// Janitor deletes registered files after their TTL expires. Export files
// are session artifacts, not durable output.
type Janitor struct {
	ttl    time.Duration
	mu     sync.Mutex
	files  map[string]time.Time // path -> expiry
	stop   chan struct{}
	done   chan struct{}
	logger *slog.Logger
}

// NewJanitor starts a janitor sweeping once a minute.
func NewJanitor(ttl time.Duration, logger *slog.Logger) *Janitor {
	j := &Janitor{
		ttl:    ttl,
		files:  make(map[string]time.Time),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger.With("component", "janitor"),
	}
	go j.run()
	return j
}

// Register schedules a file for deletion after the TTL.
func (j *Janitor) Register(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.files[path] = time.Now().Add(j.ttl)
	j.logger.Debug("file registered", "path", path, "ttl", j.ttl)
}

// Stop halts the sweep loop. Registered files are left in place.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}

func (j *Janitor) run() {
	defer close(j.done)
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case now := <-ticker.C:
			j.sweep(now)
		}
	}
}

func (j *Janitor) sweep(now time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for path, expiry := range j.files {
		if now.Before(expiry) {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			j.logger.Warn("failed to remove expired file", "path", path, "error", err)
			continue
		}
		delete(j.files, path)
		j.logger.Debug("expired file removed", "path", path)
	}
}
