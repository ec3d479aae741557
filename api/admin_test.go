package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/harulab/beachtix/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogUseCase is a mock implementation of catalog.CatalogUseCase.
type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) List(ctx context.Context) ([]domain.EventCatalogEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.EventCatalogEntry), args.Error(1)
}

func (m *MockCatalogUseCase) Get(ctx context.Context, eventID int64) (*domain.EventCatalogEntry, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventCatalogEntry), args.Error(1)
}

func (m *MockCatalogUseCase) CreateEvent(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCatalogUseCase) UpdateEvent(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCatalogUseCase) SetEventActive(ctx context.Context, eventID int64, active bool) error {
	args := m.Called(ctx, eventID, active)
	return args.Error(0)
}

func (m *MockCatalogUseCase) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockCatalogUseCase) UpdateTicket(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockCatalogUseCase) DeleteTicket(ctx context.Context, ticketID int64) error {
	args := m.Called(ctx, ticketID)
	return args.Error(0)
}

func (m *MockCatalogUseCase) ListCategories(ctx context.Context) ([]domain.TicketCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TicketCategory), args.Error(1)
}

func (m *MockCatalogUseCase) CreateCategory(ctx context.Context, category *domain.TicketCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func newTestAdminRouter(cat *MockCatalogUseCase, bookings *MockBookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAdminHandler(cat, bookings).Register(router.Group("/admin"))
	return router
}

func TestAdminHandler_Approve(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	router := newTestAdminRouter(&MockCatalogUseCase{}, mockBookings)

	approved := &domain.Booking{ID: 5, Status: domain.BookingStatusApproved}
	mockBookings.On("Approve", mock.Anything, int64(5)).Return(approved, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("PUT", "/admin/bookings/5/approve", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"APPROVED"`)
	mockBookings.AssertExpectations(t)
}

func TestAdminHandler_ApproveTerminalConflict(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	router := newTestAdminRouter(&MockCatalogUseCase{}, mockBookings)

	mockBookings.On("Approve", mock.Anything, int64(5)).Return(nil, domain.ErrIllegalTransition).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("PUT", "/admin/bookings/5/approve", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminHandler_Reject(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	router := newTestAdminRouter(&MockCatalogUseCase{}, mockBookings)

	rejected := &domain.Booking{ID: 5, Status: domain.BookingStatusRejected, RejectReason: "duplicate payment"}
	mockBookings.On("Reject", mock.Anything, int64(5), "duplicate payment").Return(rejected, nil).Once()

	body, _ := json.Marshal(rejectRequest{Reason: "duplicate payment"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/admin/bookings/5/reject", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate payment")
}

func TestAdminHandler_RejectMissingReason(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	router := newTestAdminRouter(&MockCatalogUseCase{}, mockBookings)

	mockBookings.On("Reject", mock.Anything, int64(5), "").
		Return(nil, domain.ErrValidation).Once()

	body, _ := json.Marshal(rejectRequest{Reason: ""})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/admin/bookings/5/reject", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_ReviewQueueDefaultsToPending(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	router := newTestAdminRouter(&MockCatalogUseCase{}, mockBookings)

	queue := []domain.Booking{
		{ID: 1, Status: domain.BookingStatusPending, TotalCents: 60, Items: []domain.BookingItem{
			{TicketID: 1, SubtotalCents: 10},
			{TicketID: 2, SubtotalCents: 20},
			{TicketID: 3, SubtotalCents: 30},
		}},
		{ID: 2, Status: domain.BookingStatusPending},
	}
	mockBookings.On("ListByStatus", mock.Anything, (*int64)(nil), domain.BookingStatusPending).Return(queue, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/admin/bookings", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var rows []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, int64(60), rows[0].TotalCents)
	assert.Len(t, rows[0].Items, 3)
}

func TestAdminHandler_CreateTicket(t *testing.T) {
	mockCatalog := &MockCatalogUseCase{}
	router := newTestAdminRouter(mockCatalog, &MockBookingUseCase{})

	mockCatalog.On("CreateTicket", mock.Anything, mock.AnythingOfType("*domain.Ticket")).Return(nil).Once()

	body, _ := json.Marshal(ticketRequest{EventID: 1, CategoryID: 2, Name: "VIP", PriceCents: 50000, Quota: 20})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/admin/tickets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockCatalog.AssertExpectations(t)
}
