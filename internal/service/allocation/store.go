package allocation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// planTTL bounds how long an abandoned checkout session keeps its plan.
const planTTL = 2 * time.Hour

// PlanStore holds in-flight allocation plans in memory, keyed by plan id.
// Plans are session state, never persisted; abandoned ones are swept
// lazily on the next insert (no background workers).
type PlanStore struct {
	mu    sync.Mutex
	plans map[uuid.UUID]*Plan
}

func NewPlanStore() *PlanStore {
	return &PlanStore{plans: make(map[uuid.UUID]*Plan)}
}

func (s *PlanStore) Put(p *Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-planTTL)
	for id, plan := range s.plans {
		if plan.CreatedAt.Before(cutoff) {
			delete(s.plans, id)
		}
	}

	s.plans[p.ID] = p
}

func (s *PlanStore) Get(id uuid.UUID) (*Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	return p, ok
}

func (s *PlanStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, id)
}
