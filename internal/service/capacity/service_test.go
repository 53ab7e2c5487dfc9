package capacity

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bakery-backend/internal/storage"
)

type MockAvailabilityStorage struct {
	mock.Mock
}

func (m *MockAvailabilityStorage) GetScheduleSettings(ctx context.Context) (*storage.ScheduleSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ScheduleSettings), args.Error(1)
}

func (m *MockAvailabilityStorage) GetCategories(ctx context.Context) ([]storage.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Category), args.Error(1)
}

func (m *MockAvailabilityStorage) GetActiveOrders(ctx context.Context) ([]*storage.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Order), args.Error(1)
}

func TestAvailabilityService_Snapshot(t *testing.T) {
	mockStorage := new(MockAvailabilityStorage)

	mockStorage.On("GetScheduleSettings", mock.Anything).Return(defaultSettings(), nil)
	mockStorage.On("GetCategories", mock.Anything).Return(testCategories(), nil)
	mockStorage.On("GetActiveOrders", mock.Anything).Return([]*storage.Order{{
		ID: 1,
		Items: []storage.OrderItem{
			{ID: 10, Kind: storage.ItemKindCatalog, CategoryID: int64Ptr(1), Quantity: 4},
		},
		DeliveryDates: []storage.DeliveryDateAssignment{{
			Date:    "2026-03-05",
			ItemIDs: []string{"10-0", "10-1", "10-2", "10-3"},
		}},
	}}, nil)

	service := NewAvailabilityService(slog.Default(), mockStorage)
	service.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	snap, err := service.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, snap.AvailableMinutesPerDay["2026-03-05"])
	assert.Equal(t, 240, snap.AvailableMinutesPerDay["2026-03-06"])
	assert.Equal(t, "2026-03-01", snap.Horizon[0])

	mockStorage.AssertExpectations(t)
}

func TestAvailabilityService_SnapshotStorageError(t *testing.T) {
	mockStorage := new(MockAvailabilityStorage)

	mockStorage.On("GetScheduleSettings", mock.Anything).Return(nil, errors.New("db down"))
	mockStorage.On("GetCategories", mock.Anything).Return(testCategories(), nil).Maybe()
	mockStorage.On("GetActiveOrders", mock.Anything).Return([]*storage.Order{}, nil).Maybe()

	service := NewAvailabilityService(slog.Default(), mockStorage)

	_, err := service.Snapshot(context.Background())
	assert.Error(t, err)
}

func TestAvailabilityService_Calendar(t *testing.T) {
	mockStorage := new(MockAvailabilityStorage)

	settings := defaultSettings()
	settings.DateOverrides = []storage.DateOverride{
		{Date: "2026-03-03", IsBlocked: true},
	}

	mockStorage.On("GetScheduleSettings", mock.Anything).Return(settings, nil)
	mockStorage.On("GetCategories", mock.Anything).Return(testCategories(), nil)
	mockStorage.On("GetActiveOrders", mock.Anything).Return([]*storage.Order{}, nil)

	service := NewAvailabilityService(slog.Default(), mockStorage)
	service.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	days, err := service.Calendar(context.Background())
	require.NoError(t, err)
	require.Len(t, days, HorizonDays)

	assert.Equal(t, "2026-03-01", days[0].Date)
	assert.Equal(t, 240, days[0].BudgetMinutes)
	assert.Equal(t, 240, days[0].AvailableMinutes)

	blocked := days[2]
	assert.Equal(t, "2026-03-03", blocked.Date)
	assert.True(t, blocked.IsBlocked)
	assert.Equal(t, 0, blocked.BudgetMinutes)
	assert.Equal(t, 0, blocked.AvailableMinutes)
}
