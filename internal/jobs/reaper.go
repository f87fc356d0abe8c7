package jobs

import (
	"log"
	"os"
	"time"
)

// Reaper evicts stale jobs on a timer: the entry leaves the registry and
// its work directory is removed, regardless of terminal status. A client
// that stops polling loses its output after the TTL; that is the bound on
// storage growth.
type Reaper struct {
	registry *Registry
	ttl      time.Duration
	interval time.Duration
	stopChan chan struct{}
}

// NewReaper creates a reaper over the given registry.
func NewReaper(registry *Registry, ttl, interval time.Duration) *Reaper {
	return &Reaper{
		registry: registry,
		ttl:      ttl,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (rp *Reaper) Start() {
	ticker := time.NewTicker(rp.interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				rp.Sweep()
			case <-rp.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("Job reaper started (interval: %s, ttl: %s)", rp.interval, rp.ttl)
}

// Stop halts the sweep loop.
func (rp *Reaper) Stop() {
	close(rp.stopChan)
	log.Println("Job reaper stopped")
}

// Sweep evicts every job older than the TTL. Directory removal is
// best-effort; cleanup errors are swallowed, never surfaced.
func (rp *Reaper) Sweep() {
	stale := rp.registry.StaleJobs(rp.ttl)
	for _, j := range stale {
		if j.WorkDir != "" {
			if err := os.RemoveAll(j.WorkDir); err != nil {
				log.Printf("Failed to remove work dir for job %s: %v", j.ID, err)
			}
		}
		rp.registry.Remove(j.ID)
		log.Printf("Reaped job %s (status: %s, age: %s)",
			j.ID, j.Status, time.Since(j.UpdatedAt).Round(time.Second))
	}
}
