package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harulab/beachtix/internal/domain"
	"github.com/harulab/beachtix/internal/service/booking"
	"github.com/harulab/beachtix/internal/service/catalog"
)

// AdminHandler carries the organizer CRUD surfaces and the payment-review
// queue. The approve/reject modal in the UI is just a caller here; the
// transition rules live in the booking service.
type AdminHandler struct {
	catalog  catalog.CatalogUseCase
	bookings booking.BookingUseCase
}

type eventRequest struct {
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Visibility string    `json:"visibility"`
	Active     bool      `json:"active"`
}

type ticketRequest struct {
	EventID     int64     `json:"event_id"`
	CategoryID  int64     `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Quota       int       `json:"quota"`
	PrivateCode string    `json:"private_code"`
	ValidOn     time.Time `json:"valid_on"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func NewAdminHandler(cat catalog.CatalogUseCase, bookings booking.BookingUseCase) *AdminHandler {
	return &AdminHandler{catalog: cat, bookings: bookings}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.POST("/events", h.createEvent)
	router.PUT("/events/:id", h.updateEvent)
	router.PATCH("/events/:id/active", h.setEventActive)
	router.POST("/tickets", h.createTicket)
	router.PUT("/tickets/:id", h.updateTicket)
	router.DELETE("/tickets/:id", h.deleteTicket)
	router.GET("/categories", h.listCategories)
	router.POST("/categories", h.createCategory)
	router.GET("/bookings", h.reviewQueue)
	router.PUT("/bookings/:id/approve", h.approve)
	router.PUT("/bookings/:id/reject", h.reject)
}

func (h *AdminHandler) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event := req.toDomain()
	if err := h.catalog.CreateEvent(c.Request.Context(), event); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *AdminHandler) updateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event := req.toDomain()
	event.ID = id
	if err := h.catalog.UpdateEvent(c.Request.Context(), event); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *AdminHandler) setEventActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalog.SetEventActive(c.Request.Context(), id, req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "active": req.Active})
}

func (h *AdminHandler) createTicket(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ticket := req.toDomain()
	if err := h.catalog.CreateTicket(c.Request.Context(), ticket); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *AdminHandler) updateTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ticket := req.toDomain()
	ticket.ID = id
	if err := h.catalog.UpdateTicket(c.Request.Context(), ticket); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *AdminHandler) deleteTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.catalog.DeleteTicket(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) listCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *AdminHandler) createCategory(c *gin.Context) {
	var category domain.TicketCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalog.CreateCategory(c.Request.Context(), &category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// reviewQueue lists bookings by status in ascending id order, so the queue
// reads the same between reloads.
func (h *AdminHandler) reviewQueue(c *gin.Context) {
	raw := c.Query("status")
	if raw == "" {
		raw = string(domain.BookingStatusPending)
	}
	status, ok := parseStatus(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	bookings, err := h.bookings.ListByStatus(c.Request.Context(), nil, status)
	if err != nil {
		respondError(c, err)
		return
	}

	rows := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		rows = append(rows, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, rows)
}

func (h *AdminHandler) approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	updated, err := h.bookings.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *AdminHandler) reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.bookings.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (r *eventRequest) toDomain() *domain.Event {
	return &domain.Event{
		Name:       r.Name,
		Location:   r.Location,
		StartsAt:   r.StartsAt,
		EndsAt:     r.EndsAt,
		Visibility: domain.EventVisibility(r.Visibility),
		Active:     r.Active,
	}
}

func (r *ticketRequest) toDomain() *domain.Ticket {
	return &domain.Ticket{
		EventID:     r.EventID,
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Quota:       r.Quota,
		PrivateCode: r.PrivateCode,
		ValidOn:     r.ValidOn,
	}
}
