package transport

import (
	"errors"
	"testing"
	"time"
)

func TestEmbeddedTorUnstarted(t *testing.T) {
	t.Parallel()

	t.Run("default startup timeout", func(t *testing.T) {
		t.Parallel()
		if got := NewEmbeddedTor().startupTimeout; got != 3*time.Minute {
			t.Errorf("startupTimeout = %v, want 3m", got)
		}
	})

	t.Run("custom startup timeout", func(t *testing.T) {
		t.Parallel()
		if got := NewEmbeddedTor(WithStartupTimeout(time.Minute)).startupTimeout; got != time.Minute {
			t.Errorf("startupTimeout = %v, want 1m", got)
		}
	})

	t.Run("not running", func(t *testing.T) {
		t.Parallel()

		e := NewEmbeddedTor()
		if e.IsRunning() {
			t.Error("expected not running")
		}
		if e.SocksAddr() != "" {
			t.Errorf("expected empty SocksAddr, got %q", e.SocksAddr())
		}
		if err := e.Stop(); err != nil {
			t.Errorf("Stop on unstarted daemon: %v", err)
		}
		if _, err := e.NewClient(); !errors.Is(err, ErrTorNotRunning) {
			t.Errorf("expected ErrTorNotRunning, got %v", err)
		}
	})
}
