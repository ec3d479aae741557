package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harulab/beachtix/internal/domain"
	"github.com/harulab/beachtix/internal/service/booking"
)

// BookingHandler serves the purchaser-facing transaction history. Each row
// is one booking group with its aggregated total; line items are never
// presented as independent bookings.
type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
}

func (h *BookingHandler) list(c *gin.Context) {
	purchaserID, err := strconv.ParseInt(c.Query("purchaser_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchaser_id"})
		return
	}
	status, ok := parseStatus(c.Query("status"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	bookings, err := h.service.ListByStatus(c.Request.Context(), &purchaserID, status)
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

func parseStatus(raw string) (domain.BookingStatus, bool) {
	switch domain.BookingStatus(raw) {
	case domain.BookingStatusPending, domain.BookingStatusApproved, domain.BookingStatusRejected:
		return domain.BookingStatus(raw), true
	default:
		return "", false
	}
}
