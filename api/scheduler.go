/*
scheduler.go - Background session pruning

PURPOSE:
  Periodically deletes expired session rows so abandoned logins don't
  accumulate forever. Login already prunes opportunistically; this
  covers deployments where nobody logs in for days.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - One DELETE per sweep, logged only when it removed something
  - Stop() blocks until the goroutine has exited

USAGE:
  janitor := NewSessionJanitor(store, logger)
  janitor.Start()
  // ... later
  janitor.Stop()

SEE ALSO:
  - auth.go: Opportunistic pruning on login
  - store/sqlite/sqlite.go: DeleteExpiredSessions
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zohmingaRalte/muhcs-billtrack/store/sqlite"
)

// SessionJanitor removes expired sessions on a timer.
type SessionJanitor struct {
	Store         *sqlite.Store
	Log           zerolog.Logger
	CheckInterval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSessionJanitor creates a janitor with an hourly sweep.
func NewSessionJanitor(store *sqlite.Store, log zerolog.Logger) *SessionJanitor {
	return &SessionJanitor{
		Store:         store,
		Log:           log,
		CheckInterval: 1 * time.Hour,
		stop:          make(chan struct{}),
	}
}

// Start begins the sweep loop.
func (j *SessionJanitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.ticker = time.NewTicker(j.CheckInterval)
	j.wg.Add(1)
	go j.run()

	j.Log.Info().Dur("interval", j.CheckInterval).Msg("session janitor started")
}

// Stop halts the loop and waits for it to finish.
func (j *SessionJanitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.ticker != nil {
		j.ticker.Stop()
		close(j.stop)
		j.wg.Wait()
		j.Log.Info().Msg("session janitor stopped")
	}
}

func (j *SessionJanitor) run() {
	defer j.wg.Done()

	// Sweep immediately on start.
	j.sweep()

	for {
		select {
		case <-j.ticker.C:
			j.sweep()
		case <-j.stop:
			return
		}
	}
}

func (j *SessionJanitor) sweep() {
	n, err := j.Store.DeleteExpiredSessions(context.Background(), time.Now())
	if err != nil {
		j.Log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if n > 0 {
		j.Log.Info().Int64("pruned", n).Msg("expired sessions removed")
	}
}
