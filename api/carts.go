package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harulab/beachtix/internal/domain"
	"github.com/harulab/beachtix/internal/service/booking"
	"github.com/harulab/beachtix/internal/service/cart"
)

type CartHandler struct {
	carts    *cart.Manager
	bookings booking.BookingUseCase
}

type createCartRequest struct {
	PurchaserID int64 `json:"purchaser_id" binding:"required"`
}

type admitRequest struct {
	TicketID int64  `json:"ticket_id" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

type submitRequest struct {
	PaymentMethod string `json:"payment_method"`
	PaymentProof  string `json:"payment_proof"`
}

type quantityResponse struct {
	TicketID int64 `json:"ticket_id"`
	Quantity int   `json:"quantity"`
}

type bookingResponse struct {
	ID            int64             `json:"id"`
	Reference     string            `json:"reference"`
	PurchaserID   int64             `json:"purchaser_id"`
	PaymentMethod string            `json:"payment_method"`
	TotalUnits    int               `json:"total_units"`
	TotalCents    int64             `json:"total_cents"`
	Status        string            `json:"status"`
	RejectReason  string            `json:"reject_reason,omitempty"`
	CreatedAt     string            `json:"created_at"`
	Items         []bookingItemView `json:"items"`
}

type bookingItemView struct {
	TicketID       int64 `json:"ticket_id"`
	Quantity       int   `json:"quantity"`
	UnitPriceCents int64 `json:"unit_price_cents"`
	SubtotalCents  int64 `json:"subtotal_cents"`
}

func NewCartHandler(carts *cart.Manager, bookings booking.BookingUseCase) *CartHandler {
	return &CartHandler{carts: carts, bookings: bookings}
}

func (h *CartHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:id", h.show)
	router.POST("/:id/admissions", h.admit)
	router.POST("/:id/tickets/:ticketID/increment", h.increment)
	router.POST("/:id/tickets/:ticketID/decrement", h.decrement)
	router.POST("/:id/submit", h.submit)
	router.DELETE("/:id", h.abandon)
}

func (h *CartHandler) create(c *gin.Context) {
	var req createCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := h.carts.Create(req.PurchaserID)
	c.JSON(http.StatusCreated, gin.H{"cart_id": id})
}

func (h *CartHandler) show(c *gin.Context) {
	cartID := c.Param("id")
	lines, err := h.carts.Lines(cartID)
	if err != nil {
		respondError(c, err)
		return
	}
	total, err := h.carts.TotalUnits(cartID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines, "total_units": total})
}

func (h *CartHandler) admit(c *gin.Context) {
	var req admitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.carts.Admit(c.Request.Context(), c.Param("id"), req.TicketID, req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admitted": true, "ticket_id": req.TicketID})
}

func (h *CartHandler) increment(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("ticketID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}
	qty, err := h.carts.Increment(c.Request.Context(), c.Param("id"), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quantityResponse{TicketID: ticketID, Quantity: qty})
}

func (h *CartHandler) decrement(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("ticketID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}
	qty, err := h.carts.Decrement(c.Param("id"), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quantityResponse{TicketID: ticketID, Quantity: qty})
}

func (h *CartHandler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cartID := c.Param("id")
	purchaserID, err := h.carts.PurchaserID(cartID)
	if err != nil {
		respondError(c, err)
		return
	}
	lines, err := h.carts.Lines(cartID)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.bookings.Submit(c.Request.Context(), booking.SubmitInput{
		PurchaserID:   purchaserID,
		Lines:         lines,
		PaymentMethod: req.PaymentMethod,
		PaymentProof:  req.PaymentProof,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.carts.Drop(cartID)
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *CartHandler) abandon(c *gin.Context) {
	h.carts.Drop(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	items := make([]bookingItemView, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, bookingItemView{
			TicketID:       item.TicketID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.SubtotalCents,
		})
	}
	return bookingResponse{
		ID:            b.ID,
		Reference:     b.Reference,
		PurchaserID:   b.PurchaserID,
		PaymentMethod: b.PaymentMethod,
		TotalUnits:    b.TotalUnits,
		TotalCents:    b.TotalCents,
		Status:        string(b.Status),
		RejectReason:  b.RejectReason,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		Items:         items,
	}
}
