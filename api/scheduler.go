/*
scheduler.go - Automated plan generation scheduler

PURPOSE:
  Periodically checks for events that have no stored plan yet and
  generates one automatically, so planners open the UI to a draft
  instead of a blank page.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Only plans events dated today or later; past events are left alone
  - Skips events that already have a stored plan (regeneration stays a
    deliberate, human-triggered action)
  - A failed generation is logged and retried on the next tick

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewPlanScheduler(store, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GeneratePlan endpoint (manual generation)
  - engine/source.go: Planner
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/staffing-engine/engine"
	"github.com/warp/staffing-engine/store/sqlite"
)

// PlanScheduler generates draft plans for upcoming unplanned events.
type PlanScheduler struct {
	Store         *sqlite.Store
	Planner       *engine.Planner
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPlanScheduler creates a scheduler over the handler's store and planner.
func NewPlanScheduler(store *sqlite.Store, handler *Handler) *PlanScheduler {
	return &PlanScheduler{
		Store:         store,
		Planner:       handler.Planner,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
	}
}

// Start begins the background loop. No-op when disabled or already running.
func (s *PlanScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled || s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan bool)
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		log.Printf("plan scheduler started (interval: %v)", s.CheckInterval)

		// One immediate pass so a fresh deployment doesn't wait a full tick.
		s.RunOnce(context.Background())

		for {
			select {
			case <-s.ticker.C:
				s.RunOnce(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the background loop and waits for the current pass to finish.
func (s *PlanScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	log.Println("plan scheduler stopped")
}

// RunOnce performs a single pass: every upcoming event without a stored
// plan gets a freshly generated and persisted draft. Returns the number
// of plans generated.
func (s *PlanScheduler) RunOnce(ctx context.Context) int {
	events, err := s.Store.ListEvents(ctx)
	if err != nil {
		log.Printf("plan scheduler: failed to list events: %v", err)
		return 0
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	generated := 0
	for _, event := range events {
		if event.Date.Before(today) {
			continue
		}
		if _, err := s.Store.LoadPlan(ctx, event.ID); err == nil {
			continue
		} else if !engine.IsNotFound(err) {
			log.Printf("plan scheduler: event %d: failed to check for plan: %v", event.ID, err)
			continue
		}

		plan, err := s.Planner.Generate(ctx, event.ID)
		if err != nil {
			log.Printf("plan scheduler: event %d: generation failed: %v", event.ID, err)
			continue
		}
		if err := s.Store.SavePlan(ctx, plan, event.Date, event.VenueID); err != nil {
			log.Printf("plan scheduler: event %d: failed to persist plan: %v", event.ID, err)
			continue
		}
		log.Printf("plan scheduler: event %d planned (%d staff, %d freelancers)",
			event.ID, plan.TotalStaff, plan.TotalFreelancers)
		generated++
	}
	return generated
}
