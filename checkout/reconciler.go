package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Kariqs/neon-store-api/metrics"
	"github.com/Kariqs/neon-store-api/models"
	"github.com/Kariqs/neon-store-api/persistence"
)

// Reconciler finishes checkouts whose intent was recorded but whose order
// writes did not all land.
type Reconciler struct {
	db         persistence.Client
	staleAfter time.Duration
	interval   time.Duration
	metrics    *metrics.CheckoutMetrics
	now        func() time.Time
}

func NewReconciler(db persistence.Client, staleAfter, interval time.Duration, m *metrics.CheckoutMetrics) *Reconciler {
	return &Reconciler{db: db, staleAfter: staleAfter, interval: interval, metrics: m, now: time.Now}
}

// Pending lists intents that are still pending and older than the stale
// threshold. Younger ones may belong to a checkout that is still running.
func (r *Reconciler) Pending(ctx context.Context) ([]models.CheckoutIntent, error) {
	var intents []models.CheckoutIntent
	if err := r.db.Select(ctx, models.TableCheckoutIntents, map[string]any{"status": models.IntentPending}, &intents); err != nil {
		return nil, fmt.Errorf("failed to fetch pending checkouts: %w", err)
	}
	stale := intents[:0]
	for _, intent := range intents {
		if r.now().Sub(intent.CreatedAt) >= r.staleAfter {
			stale = append(stale, intent)
		}
	}
	return stale, nil
}

// RunOnce replays every stale intent and returns how many were completed.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	intents, err := r.Pending(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for i := range intents {
		intent := &intents[i]
		if err := r.replay(ctx, intent); err != nil {
			log.Printf("reconcile checkout %s failed (attempt %d): %v", intent.ID, intent.Attempts+1, err)
			if r.metrics != nil {
				r.metrics.ReconcileFailures.Inc()
			}
			if markErr := markIntent(ctx, r.db, intent.ID, map[string]any{
				"attempts":   intent.Attempts + 1,
				"last_error": err.Error(),
			}); markErr != nil {
				log.Printf("reconcile checkout %s: could not record failure: %v", intent.ID, markErr)
			}
			continue
		}
		log.Printf("reconciled checkout %s (order %s)", intent.ID, intent.DisplayID)
		if r.metrics != nil {
			r.metrics.Reconciled.Inc()
		}
		repaired++
	}
	return repaired, nil
}

func (r *Reconciler) replay(ctx context.Context, intent *models.CheckoutIntent) error {
	comp, err := intentComposition(intent)
	if err != nil {
		return err
	}
	return writeOrders(ctx, r.db, intent, comp)
}

func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				log.Printf("reconciler: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
