package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harulab/beachtix/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestEventRouter(cat *MockCatalogUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewEventHandler(cat).Register(router.Group("/events"))
	return router
}

func TestEventHandler_List(t *testing.T) {
	mockCatalog := &MockCatalogUseCase{}
	router := newTestEventRouter(mockCatalog)

	entries := []domain.EventCatalogEntry{
		{
			Event:  domain.Event{ID: 1, Name: "Sunset Beach Festival", StartsAt: time.Now().Add(24 * time.Hour)},
			Status: domain.EventStatusUpcoming,
			Tickets: []domain.Ticket{
				{ID: 1, EventID: 1, Name: "Regular", Quota: 100, Consumed: 40},
			},
		},
	}
	mockCatalog.On("List", mock.Anything).Return(entries, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/events/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sunset Beach Festival")
	assert.Contains(t, w.Body.String(), `"status":"UPCOMING"`)
	mockCatalog.AssertExpectations(t)
}

func TestEventHandler_GetNotFound(t *testing.T) {
	mockCatalog := &MockCatalogUseCase{}
	router := newTestEventRouter(mockCatalog)

	mockCatalog.On("Get", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/events/99", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventHandler_GetInvalidID(t *testing.T) {
	router := newTestEventRouter(&MockCatalogUseCase{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/events/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
