package save

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bakery-backend/internal/storage"
)

type MockOrderSaver struct {
	mock.Mock
}

func (m *MockOrderSaver) SaveOrder(ctx context.Context, order storage.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func int64Ptr(v int64) *int64 { return &v }

func validRequest() Request {
	return Request{
		CustomerName:  "Jordan Baker",
		CustomerPhone: "+1-555-0101",
		Items: []storage.OrderItem{
			{ID: 1, Kind: storage.ItemKindCatalog, CategoryID: int64Ptr(1), Quantity: 2},
		},
		DeliveryDates: []storage.DeliveryDateAssignment{
			{Date: "2026-03-05", TimeSlot: "10:00-12:00", ItemIDs: []string{"1-0", "1-1"}},
		},
	}
}

func postOrder(t *testing.T, handler http.HandlerFunc, req Request) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, r)
	return rr
}

func TestCreateOrder_Success(t *testing.T) {
	mockSaver := new(MockOrderSaver)
	mockSaver.On("SaveOrder", mock.Anything, mock.MatchedBy(func(o storage.Order) bool {
		return o.Status == storage.StatusConfirmed && len(o.DeliveryDates) == 1
	})).Return(int64(7), nil)

	handler := CreateOrder(slog.Default(), mockSaver)
	rr := postOrder(t, handler, validRequest())

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), resp.OrderID)
	assert.Equal(t, storage.StatusConfirmed, resp.OrderStatus)

	mockSaver.AssertExpectations(t)
}

func TestCreateOrder_OverrideCreatesPendingOrder(t *testing.T) {
	mockSaver := new(MockOrderSaver)
	mockSaver.On("SaveOrder", mock.Anything, mock.MatchedBy(func(o storage.Order) bool {
		return o.Status == storage.StatusPendingConfirmation
	})).Return(int64(8), nil)

	req := validRequest()
	req.PendingConfirmation = true

	handler := CreateOrder(slog.Default(), mockSaver)
	rr := postOrder(t, handler, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, storage.StatusPendingConfirmation, resp.OrderStatus)
}

func TestCreateOrder_RejectsIncompleteAllocation(t *testing.T) {
	mockSaver := new(MockOrderSaver)

	req := validRequest()
	// One of the two units has no delivery date.
	req.DeliveryDates[0].ItemIDs = []string{"1-0"}

	handler := CreateOrder(slog.Default(), mockSaver)
	rr := postOrder(t, handler, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	mockSaver.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything)
}

func TestCreateOrder_RejectsEmptyCart(t *testing.T) {
	mockSaver := new(MockOrderSaver)

	req := validRequest()
	req.Items = nil

	handler := CreateOrder(slog.Default(), mockSaver)
	rr := postOrder(t, handler, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateOrder_RejectsMalformedDate(t *testing.T) {
	mockSaver := new(MockOrderSaver)

	req := validRequest()
	req.DeliveryDates[0].Date = "05.03.2026"

	handler := CreateOrder(slog.Default(), mockSaver)
	rr := postOrder(t, handler, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
