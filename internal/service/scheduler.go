package service

import (
	"sync"
	"time"
)

// Scheduler owns the timers behind pending automated turns. The engine
// only emits a scheduling request; the timer lives here so cancelling
// a session just discards its timer and a stale one never fires into a
// finished or evicted session.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: make(map[string]*time.Timer),
	}
}

// Schedule runs fn after the delay, replacing any timer already
// pending for the session.
func (that *Scheduler) Schedule(sessionID string, delay time.Duration, fn func()) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if timer, ok := that.timers[sessionID]; ok {
		timer.Stop()
	}

	that.timers[sessionID] = time.AfterFunc(delay, func() {
		that.mu.Lock()
		delete(that.timers, sessionID)
		that.mu.Unlock()

		fn()
	})
}

// Cancel drops the session's pending timer, if any.
func (that *Scheduler) Cancel(sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if timer, ok := that.timers[sessionID]; ok {
		timer.Stop()
		delete(that.timers, sessionID)
	}
}

// Stop cancels every pending timer.
func (that *Scheduler) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, timer := range that.timers {
		timer.Stop()
		delete(that.timers, id)
	}
}
