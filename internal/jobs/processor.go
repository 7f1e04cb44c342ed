// Package jobs runs the periodic maintenance sweeps: suspension expiry,
// appeal expiry, and reputation recovery.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// SweepFunc performs one pass of a maintenance sweep and reports how many
// records it touched.
type SweepFunc func(ctx context.Context) (int, error)

// Processor runs a sweep on a fixed interval until stopped
type Processor struct {
	name     string
	interval time.Duration
	sweep    SweepFunc

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// NewProcessor creates a sweep processor. A zero interval falls back to one
// minute.
func NewProcessor(name string, interval time.Duration, sweep SweepFunc) *Processor {
	if interval == 0 {
		interval = time.Minute
	}
	return &Processor{
		name:     name,
		interval: interval,
		sweep:    sweep,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the processor loop. Starting twice is a no-op.
func (p *Processor) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()

	log.Info().
		Str("job", p.name).
		Dur("interval", p.interval).
		Msg("Sweep processor started")
}

// Stop gracefully stops the processor and waits for an in-flight sweep
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()

	log.Info().Str("job", p.name).Msg("Sweep processor stopped")
}

func (p *Processor) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.runSweep()
		case <-p.stopCh:
			return
		}
	}
}

func (p *Processor) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := p.sweep(ctx)
	if err != nil {
		log.Error().Err(err).Str("job", p.name).Msg("Sweep failed")
		return
	}
	if n > 0 {
		log.Info().Str("job", p.name).Int("processed", n).Msg("Sweep completed")
	}
}

// RunOnce runs the sweep once, outside the loop. Used by the sweeper binary
// and manual triggers.
func (p *Processor) RunOnce(ctx context.Context) (int, error) {
	return p.sweep(ctx)
}

// IsRunning reports whether the loop is active
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
