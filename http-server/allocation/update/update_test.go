package update

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery-backend/internal/service/allocation"
	"bakery-backend/internal/service/capacity"
	"bakery-backend/internal/storage"
)

type fakeSnapshots struct {
	snapshot *capacity.Snapshot
	costs    *capacity.CostTable
}

func (f *fakeSnapshots) SnapshotAndCosts(ctx context.Context) (*capacity.Snapshot, *capacity.CostTable, error) {
	return f.snapshot, f.costs, nil
}

func int64Ptr(v int64) *int64 { return &v }

// newSplitPlanService builds a planner whose 300-minute days force a split
// for the 500-minute test cart.
func newSplitPlanService(t *testing.T) (*allocation.Service, *allocation.Plan) {
	t.Helper()

	costs := capacity.NewCostTable([]storage.Category{
		{ID: 1, Name: "Birthday Cake", MakingTimeMinutes: 50},
	})
	settings := &storage.ScheduleSettings{
		LeadTimeDays:          1,
		DefaultWorkMinutes:    300,
		DefaultAvailableHours: []string{"10:00-12:00"},
	}
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	snapshot := capacity.Compute(settings, costs, nil, from, capacity.HorizonDays)

	service := allocation.NewService(slog.Default(), &fakeSnapshots{snapshot: snapshot, costs: costs})

	plan, err := service.Start(context.Background(), []storage.OrderItem{
		{ID: 10, Kind: storage.ItemKindCatalog, CategoryID: int64Ptr(1), Quantity: 10},
	})
	require.NoError(t, err)
	require.Equal(t, allocation.StateSplit, plan.State())

	return service, plan
}

func newRouter(service *allocation.Service) *chi.Mux {
	log := slog.Default()
	router := chi.NewRouter()
	router.Post("/api/allocation/{planID}/assign", AssignUnits(log, service))
	router.Post("/api/allocation/{planID}/unassign", UnassignUnits(log, service))
	router.Post("/api/allocation/{planID}/confirm-override", ConfirmOverride(log, service))
	return router
}

func postJSON(t *testing.T, router http.Handler, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAssignUnits_Success(t *testing.T) {
	service, plan := newSplitPlanService(t)
	router := newRouter(service)

	rr := postJSON(t, router, "/api/allocation/"+plan.ID.String()+"/assign", assignRequest{
		Date:     "2026-03-02",
		TimeSlot: "10:00-12:00",
		UnitIDs:  []string{"10-0", "10-1"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Len(t, resp.Plan.UnallocatedUnits, 8)
	require.Len(t, resp.Plan.AllocatedDates, 1)
	assert.Equal(t, "2026-03-02", resp.Plan.AllocatedDates[0].Date)
}

func TestAssignUnits_CapacityConflict(t *testing.T) {
	service, plan := newSplitPlanService(t)
	router := newRouter(service)

	url := "/api/allocation/" + plan.ID.String() + "/assign"

	first := postJSON(t, router, url, assignRequest{
		Date:     "2026-03-02",
		TimeSlot: "10:00-12:00",
		UnitIDs:  []string{"10-0", "10-1", "10-2", "10-3", "10-4", "10-5"},
	})
	require.Equal(t, http.StatusOK, first.Code)

	// The day is full within this plan now.
	second := postJSON(t, router, url, assignRequest{
		Date:     "2026-03-02",
		TimeSlot: "10:00-12:00",
		UnitIDs:  []string{"10-6"},
	})

	assert.Equal(t, http.StatusConflict, second.Code)

	var resp Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(second.Body.String()), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Len(t, resp.Plan.UnallocatedUnits, 4)
}

func TestAssignUnits_UnknownPlan(t *testing.T) {
	service, _ := newSplitPlanService(t)
	router := newRouter(service)

	rr := postJSON(t, router, "/api/allocation/5c0f9a1e-0000-0000-0000-000000000000/assign", assignRequest{
		Date:     "2026-03-02",
		TimeSlot: "10:00-12:00",
		UnitIDs:  []string{"10-0"},
	})

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestConfirmOverride_WrongState(t *testing.T) {
	service, plan := newSplitPlanService(t)
	router := newRouter(service)

	// The plan is in split mode, not confirmation-pending.
	rr := postJSON(t, router, "/api/allocation/"+plan.ID.String()+"/confirm-override", struct{}{})

	assert.Equal(t, http.StatusConflict, rr.Code)
}
