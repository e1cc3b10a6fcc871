package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManager_ShutdownReachesDone(t *testing.T) {
	m := New()
	m.Shutdown(time.Second, time.Second,
		func(ctx context.Context) (int, error) { return 0, nil },
		func(ctx context.Context) error { return nil },
	)
	if m.Phase() != Done {
		t.Errorf("Phase() = %v, want DONE", m.Phase())
	}
}

func TestManager_FlushTimeoutStillReachesDone(t *testing.T) {
	m := New()
	result := m.Shutdown(20*time.Millisecond, time.Second,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 5, ctx.Err()
		},
		func(ctx context.Context) error { return nil },
	)
	if !result.FlushTimedOut {
		t.Error("FlushTimedOut = false, want true")
	}
	if m.Phase() != Done {
		t.Errorf("Phase() = %v, want DONE even after flush timeout", m.Phase())
	}
}

func TestManager_CleanupTimeoutStillReachesDone(t *testing.T) {
	m := New()
	result := m.Shutdown(time.Second, 20*time.Millisecond,
		func(ctx context.Context) (int, error) { return 0, nil },
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	)
	if !result.CleanupTimedOut {
		t.Error("CleanupTimedOut = false, want true")
	}
	if m.Phase() != Done {
		t.Errorf("Phase() = %v, want DONE even after cleanup timeout", m.Phase())
	}
}

func TestManager_ShutdownOnlyRunsOnce(t *testing.T) {
	m := New()
	calls := 0
	drain := func(ctx context.Context) (int, error) { calls++; return 0, nil }
	cleanup := func(ctx context.Context) error { return nil }

	m.Shutdown(time.Second, time.Second, drain, cleanup)
	m.Shutdown(time.Second, time.Second, drain, cleanup)

	if calls != 1 {
		t.Errorf("drain called %d times, want 1 (Shutdown must run only once)", calls)
	}
}

func TestManager_ShutdownCarriesFlushError(t *testing.T) {
	m := New()
	wantErr := errors.New("disk full")
	result := m.Shutdown(time.Second, time.Second,
		func(ctx context.Context) (int, error) { return 2, wantErr },
		func(ctx context.Context) error { return nil },
	)
	if result.FlushErr != wantErr {
		t.Errorf("FlushErr = %v, want %v", result.FlushErr, wantErr)
	}
	if result.DroppedOnTimeout != 2 {
		t.Errorf("DroppedOnTimeout = %d, want 2", result.DroppedOnTimeout)
	}
}

func TestManager_ForceSync(t *testing.T) {
	m := New()
	var drained, cleaned bool
	m.ForceSync(func() { drained = true }, func() { cleaned = true })

	if !drained || !cleaned {
		t.Error("ForceSync did not invoke both callbacks")
	}
	if m.Phase() != Done {
		t.Errorf("Phase() = %v, want DONE", m.Phase())
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Running, "RUNNING"},
		{Flushing, "FLUSHING"},
		{Cleaning, "CLEANING"},
		{Done, "DONE"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.phase.String(); got != tt.want {
				t.Errorf("Phase.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
