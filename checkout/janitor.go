package checkout

import (
	"context"
	"log"
	"time"
)

// Sweeper is anything holding per-session state that can age out.
type Sweeper interface {
	Sweep(maxAge time.Duration) int
}

// Janitor periodically drops session state idle for longer than maxAge.
type Janitor struct {
	interval time.Duration
	maxAge   time.Duration
	sweepers []Sweeper
}

func NewJanitor(interval, maxAge time.Duration, sweepers ...Sweeper) *Janitor {
	return &Janitor{interval: interval, maxAge: maxAge, sweepers: sweepers}
}

func (j *Janitor) RunOnce() int {
	dropped := 0
	for _, s := range j.sweepers {
		dropped += s.Sweep(j.maxAge)
	}
	return dropped
}

func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := j.RunOnce(); n > 0 {
				log.Printf("janitor: dropped %d idle session entries", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
