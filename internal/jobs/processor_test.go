package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/whispr/trust-api/internal/jobs"
)

func TestRunOnce(t *testing.T) {
	calls := 0
	p := jobs.NewProcessor("test", time.Hour, func(ctx context.Context) (int, error) {
		calls++
		return 3, nil
	})

	n, err := p.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 3 || calls != 1 {
		t.Errorf("n = %d, calls = %d, want 3 and 1", n, calls)
	}
}

func TestRunOncePropagatesError(t *testing.T) {
	wantErr := errors.New("store down")
	p := jobs.NewProcessor("test", time.Hour, func(ctx context.Context) (int, error) {
		return 0, wantErr
	})

	if _, err := p.RunOnce(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	p := jobs.NewProcessor("test", time.Hour, func(ctx context.Context) (int, error) {
		return 0, nil
	})

	p.Start()
	p.Start()
	if !p.IsRunning() {
		t.Fatal("processor not running after Start")
	}

	p.Stop()
	p.Stop()
	if p.IsRunning() {
		t.Fatal("processor still running after Stop")
	}
}
