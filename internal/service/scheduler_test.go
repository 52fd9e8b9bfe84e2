package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_Schedule(t *testing.T) {
	t.Run("Runs the callback after the delay", func(t *testing.T) {
		scheduler := NewScheduler()
		defer scheduler.Stop()

		fired := make(chan struct{})
		scheduler.Schedule("123", time.Millisecond, func() {
			close(fired)
		})

		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatal("scheduled callback never ran")
		}
	})

	t.Run("Replaces a pending timer for the same session", func(t *testing.T) {
		scheduler := NewScheduler()
		defer scheduler.Stop()

		fired := make(chan string, 2)
		scheduler.Schedule("123", 50*time.Millisecond, func() {
			fired <- "first"
		})
		scheduler.Schedule("123", time.Millisecond, func() {
			fired <- "second"
		})

		select {
		case who := <-fired:
			assert.Equal(t, "second", who)
		case <-time.After(time.Second):
			t.Fatal("scheduled callback never ran")
		}

		// Then: the replaced timer stays silent
		select {
		case who := <-fired:
			t.Fatalf("unexpected callback: %s", who)
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func TestScheduler_Cancel(t *testing.T) {
	scheduler := NewScheduler()
	defer scheduler.Stop()

	fired := make(chan struct{}, 1)
	scheduler.Schedule("123", 20*time.Millisecond, func() {
		fired <- struct{}{}
	})

	scheduler.Cancel("123")

	// Then: the cancelled timer never fires
	select {
	case <-fired:
		t.Fatal("cancelled callback ran")
	case <-time.After(100 * time.Millisecond):
	}
}
