package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harulab/beachtix/internal/domain"
)

// respondError maps domain errors onto HTTP statuses. Capacity losses and
// illegal transitions are conflicts: the request was well-formed but lost
// against the current state.
func respondError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}

	var subErr *domain.SubmissionError
	if errors.As(err, &subErr) && subErr.TicketID != 0 {
		body["ticket_id"] = subErr.TicketID
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrCartNotFound):
		c.JSON(http.StatusNotFound, body)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotGated):
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, domain.ErrInvalidCode), errors.Is(err, domain.ErrCodeRequired):
		c.JSON(http.StatusForbidden, body)
	case errors.Is(err, domain.ErrSoldOut),
		errors.Is(err, domain.ErrInsufficientCapacity),
		errors.Is(err, domain.ErrIllegalTransition):
		c.JSON(http.StatusConflict, body)
	default:
		c.JSON(http.StatusInternalServerError, body)
	}
}
