package allocation

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bakery-backend/internal/service/capacity"
	"bakery-backend/internal/storage"
)

// State of an allocation plan. One plan goes through one checkout or
// admin-order session and is discarded on finalize or abandonment.
type State string

const (
	StateSingleDate               State = "single_date"
	StateSplit                    State = "split"
	StateSplitConfirmationPending State = "split_confirmation_pending"
	StateSplitConfirmed           State = "split_confirmed"
	StateOverrideConfirmed        State = "override_confirmed"
	StateFinalized                State = "finalized"
)

var (
	ErrWrongState           = errors.New("action not allowed in current plan state")
	ErrUnknownUnit          = errors.New("unit does not belong to this plan")
	ErrUnitAlreadyAllocated = errors.New("unit is already allocated")
	ErrUnitNotAllocated     = errors.New("unit is not allocated")
	ErrDayNotBookable       = errors.New("day is blocked, before lead time or outside the horizon")
	ErrBadTimeSlot          = errors.New("time slot is not offered on this day")
	ErrInsufficientCapacity = errors.New("day has insufficient remaining capacity")
	ErrUnitsUnallocated     = errors.New("plan still has unallocated units")
)

// Assignment is one date/time-slot bucket of allocated units.
type Assignment struct {
	Date     string   `json:"date"`
	TimeSlot string   `json:"time_slot"`
	ItemIDs  []string `json:"item_ids"`
}

// Plan is the session-scoped allocation state machine. It validates every
// proposed assignment against the availability snapshot it was created
// with, tracking its own per-day counters so a single session cannot
// over-pack one day across several assignment actions.
type Plan struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	mu sync.Mutex

	state    State
	snapshot *capacity.Snapshot

	units     map[string]ProductionUnit
	unitOrder []string

	unallocated map[string]bool
	assignments []Assignment

	// Minutes this plan has already placed on each day. Local to the
	// session; the server-side snapshot is never mutated.
	allocatedOn map[string]int

	totalMinutes          int
	confirmedOverCapacity bool
}

// NewPlan builds a plan over the given snapshot and units. If at least one
// bookable day can hold the whole order the plan starts in single-date
// mode; otherwise it starts in split mode, and goes straight to
// confirmation-pending when even splitting cannot place everything.
func NewPlan(snapshot *capacity.Snapshot, units []ProductionUnit) *Plan {
	p := &Plan{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		snapshot:    snapshot,
		units:       make(map[string]ProductionUnit, len(units)),
		unallocated: make(map[string]bool, len(units)),
		allocatedOn: make(map[string]int),
	}

	for _, u := range units {
		p.units[u.ID] = u
		p.unitOrder = append(p.unitOrder, u.ID)
		p.unallocated[u.ID] = true
		p.totalMinutes += u.MinutesCost
	}

	if p.singleDayExists() {
		p.state = StateSingleDate
	} else {
		p.state = StateSplit
		p.refreshPending()
	}

	return p
}

func (p *Plan) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Plan) TotalMinutes() int {
	return p.totalMinutes
}

func (p *Plan) IsSplitRequired() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state != StateSingleDate
}

// Unallocated lists the units still waiting for a date, in decomposition
// order.
func (p *Plan) Unallocated() []ProductionUnit {
	p.mu.Lock()
	defer p.mu.Unlock()

	units := make([]ProductionUnit, 0, len(p.unallocated))
	for _, id := range p.unitOrder {
		if p.unallocated[id] {
			units = append(units, p.units[id])
		}
	}
	return units
}

func (p *Plan) Assignments() []Assignment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.assignmentsLocked()
}

func (p *Plan) assignmentsLocked() []Assignment {
	out := make([]Assignment, len(p.assignments))
	for i, a := range p.assignments {
		out[i] = Assignment{Date: a.Date, TimeSlot: a.TimeSlot, ItemIDs: append([]string(nil), a.ItemIDs...)}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CandidateDays lists bookable days with nonzero remaining capacity,
// earliest first. Offered to the client as fill order for split plans.
func (p *Plan) CandidateDays() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var days []string
	for _, day := range p.snapshot.Horizon {
		if !p.bookable(day) {
			continue
		}
		if p.remainingOn(day) > 0 {
			days = append(days, day)
		}
	}
	return days
}

// Summary is the client-facing view of a plan after any action.
type Summary struct {
	PlanID           string           `json:"plan_id"`
	State            State            `json:"state"`
	IsSplitRequired  bool             `json:"is_split_required"`
	TotalMinutes     int              `json:"total_minutes"`
	UnallocatedUnits []ProductionUnit `json:"unallocated_units"`
	AllocatedDates   []Assignment     `json:"allocated_dates"`
	CandidateDays    []string         `json:"candidate_days"`
}

func (p *Plan) Summary() Summary {
	return Summary{
		PlanID:           p.ID.String(),
		State:            p.State(),
		IsSplitRequired:  p.IsSplitRequired(),
		TotalMinutes:     p.totalMinutes,
		UnallocatedUnits: p.Unallocated(),
		AllocatedDates:   p.Assignments(),
		CandidateDays:    p.CandidateDays(),
	}
}

// SelectDate books the entire order on one day. Single-date mode only; the
// day must hold the whole order, partial fit is not allowed here. Picking
// again replaces the previous selection.
func (p *Plan) SelectDate(date, timeSlot string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateSingleDate {
		return fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}
	if !p.bookable(date) {
		return fmt.Errorf("%w: %s", ErrDayNotBookable, date)
	}
	if !p.slotOffered(date, timeSlot) {
		return fmt.Errorf("%w: %q on %s", ErrBadTimeSlot, timeSlot, date)
	}
	if p.snapshot.AvailableMinutesPerDay[date] < p.totalMinutes {
		return fmt.Errorf("%w: %s has %d min, order needs %d",
			ErrInsufficientCapacity, date, p.snapshot.AvailableMinutesPerDay[date], p.totalMinutes)
	}

	all := make([]string, 0, len(p.unitOrder))
	for _, id := range p.unitOrder {
		all = append(all, id)
		p.unallocated[id] = false
	}

	p.assignments = []Assignment{{Date: date, TimeSlot: timeSlot, ItemIDs: all}}
	p.allocatedOn = map[string]int{date: p.totalMinutes}

	return nil
}

// Assign places units on a day in a split plan. The day's remaining
// capacity is re-validated against what this plan has already put there.
// After an explicit over-capacity confirmation the check is bypassed.
func (p *Plan) Assign(date, timeSlot string, unitIDs []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateSplit, StateSplitConfirmationPending, StateSplitConfirmed, StateOverrideConfirmed:
	default:
		return fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}

	if !p.bookable(date) {
		return fmt.Errorf("%w: %s", ErrDayNotBookable, date)
	}
	if !p.slotOffered(date, timeSlot) {
		return fmt.Errorf("%w: %q on %s", ErrBadTimeSlot, timeSlot, date)
	}

	cost := 0
	seen := make(map[string]bool, len(unitIDs))
	for _, id := range unitIDs {
		unit, ok := p.units[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownUnit, id)
		}
		if !p.unallocated[id] {
			return fmt.Errorf("%w: %s", ErrUnitAlreadyAllocated, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s listed more than once", ErrUnitAlreadyAllocated, id)
		}
		seen[id] = true
		cost += unit.MinutesCost
	}

	if !p.confirmedOverCapacity {
		if remaining := p.remainingOn(date); remaining < cost {
			return fmt.Errorf("%w: %s has %d min left in this plan, units need %d",
				ErrInsufficientCapacity, date, remaining, cost)
		}
	}

	idx := -1
	for i := range p.assignments {
		if p.assignments[i].Date == date && p.assignments[i].TimeSlot == timeSlot {
			idx = i
			break
		}
	}
	if idx == -1 {
		p.assignments = append(p.assignments, Assignment{Date: date, TimeSlot: timeSlot})
		idx = len(p.assignments) - 1
	}

	for _, id := range unitIDs {
		p.assignments[idx].ItemIDs = append(p.assignments[idx].ItemIDs, id)
		p.unallocated[id] = false
	}
	p.allocatedOn[date] += cost

	p.refreshPending()
	return nil
}

// Unassign reverses earlier assignments: units return to the unallocated
// pool and their days get the minutes credited back.
func (p *Plan) Unassign(unitIDs []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateSplit, StateSplitConfirmationPending, StateSplitConfirmed, StateOverrideConfirmed:
	default:
		return fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}

	seen := make(map[string]bool, len(unitIDs))
	for _, id := range unitIDs {
		if _, ok := p.units[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownUnit, id)
		}
		if p.unallocated[id] {
			return fmt.Errorf("%w: %s", ErrUnitNotAllocated, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s listed more than once", ErrUnitNotAllocated, id)
		}
		seen[id] = true
	}

	for _, id := range unitIDs {
		for i := range p.assignments {
			a := &p.assignments[i]
			for j, assigned := range a.ItemIDs {
				if assigned != id {
					continue
				}
				a.ItemIDs = append(a.ItemIDs[:j], a.ItemIDs[j+1:]...)
				p.allocatedOn[a.Date] -= p.units[id].MinutesCost
				break
			}
		}
		p.unallocated[id] = true
	}

	// Drop emptied buckets.
	kept := p.assignments[:0]
	for _, a := range p.assignments {
		if len(a.ItemIDs) > 0 {
			kept = append(kept, a)
		}
	}
	p.assignments = kept

	p.refreshPending()
	return nil
}

// ConfirmSplit accepts the best-effort split. The plan stays interactive:
// finalizing still requires every unit placed, which may mean re-running
// allocation after capacity has been freed.
func (p *Plan) ConfirmSplit() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateSplitConfirmationPending {
		return fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}
	p.state = StateSplitConfirmed
	return nil
}

// ConfirmOverride lets the customer proceed past capacity. Subsequent
// assignments skip the per-day check and the finalized plan is flagged for
// manual staff reconciliation.
func (p *Plan) ConfirmOverride() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateSplitConfirmationPending {
		return fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}
	p.state = StateOverrideConfirmed
	p.confirmedOverCapacity = true
	return nil
}

// Result is the outcome of a finalized plan.
type Result struct {
	Assignments         []storage.DeliveryDateAssignment `json:"assignments"`
	PendingConfirmation bool                             `json:"pending_confirmation"`
}

// Finalize closes the plan and emits the delivery-date assignments. Every
// unit must be allocated to exactly one date or the transition is
// rejected.
func (p *Plan) Finalize() (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateSingleDate, StateSplit, StateSplitConfirmed, StateOverrideConfirmed:
	default:
		return nil, fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}

	remaining := 0
	for _, waiting := range p.unallocated {
		if waiting {
			remaining++
		}
	}
	if remaining > 0 {
		return nil, fmt.Errorf("%w: %d remaining", ErrUnitsUnallocated, remaining)
	}

	result := &Result{PendingConfirmation: p.confirmedOverCapacity}
	for _, a := range p.assignmentsLocked() {
		result.Assignments = append(result.Assignments, storage.DeliveryDateAssignment{
			Date:     a.Date,
			TimeSlot: a.TimeSlot,
			ItemIDs:  a.ItemIDs,
		})
	}

	p.state = StateFinalized
	return result, nil
}

// bookable: inside the horizon, on/after the lead-time cutoff, not blocked.
func (p *Plan) bookable(date string) bool {
	cutoff := p.snapshot.LeadCutoff()
	if cutoff == "" || date < cutoff {
		return false
	}
	if _, ok := p.snapshot.AvailableMinutesPerDay[date]; !ok {
		return false
	}
	return !p.snapshot.IsBlocked(date)
}

func (p *Plan) slotOffered(date, timeSlot string) bool {
	for _, slot := range p.snapshot.HoursFor(date) {
		if slot == timeSlot {
			return true
		}
	}
	return false
}

func (p *Plan) remainingOn(date string) int {
	remaining := p.snapshot.AvailableMinutesPerDay[date] - p.allocatedOn[date]
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (p *Plan) singleDayExists() bool {
	for _, day := range p.snapshot.Horizon {
		if p.bookable(day) && p.snapshot.AvailableMinutesPerDay[day] >= p.totalMinutes {
			return true
		}
	}
	return false
}

// refreshPending flips between split and confirmation-pending depending on
// whether the remaining capacity across the horizon can still absorb the
// unallocated units. Aggregate-minutes check: unit granularity is handled
// by the per-assignment validation.
func (p *Plan) refreshPending() {
	if p.state != StateSplit && p.state != StateSplitConfirmationPending {
		return
	}

	waitingCost := 0
	for id, waiting := range p.unallocated {
		if waiting {
			waitingCost += p.units[id].MinutesCost
		}
	}

	capacityLeft := 0
	for _, day := range p.snapshot.Horizon {
		if p.bookable(day) {
			capacityLeft += p.remainingOn(day)
		}
	}

	if capacityLeft < waitingCost {
		p.state = StateSplitConfirmationPending
	} else {
		p.state = StateSplit
	}
}
