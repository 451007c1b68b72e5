package httpgin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veytrix/busgo/internal/service/auth"
	"github.com/veytrix/busgo/internal/service/booking"
	"github.com/veytrix/busgo/internal/service/fleet"
	"github.com/veytrix/busgo/internal/service/query"
)

// respondErr maps service sentinels to HTTP status codes. Anything
// unmapped becomes a 500 with a generic body; the wrapped detail stays
// in the logs.
func (h *handlers) respondErr(c *gin.Context, err error) {
	var status int
	var msg string

	switch {
	case errors.Is(err, booking.ErrBusNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, query.ErrBusNotFound),
		errors.Is(err, fleet.ErrBusNotFound),
		errors.Is(err, fleet.ErrOperatorNotFound),
		errors.Is(err, fleet.ErrRouteNotFound),
		errors.Is(err, fleet.ErrUserNotFound):
		status, msg = http.StatusNotFound, "not found"

	case errors.Is(err, booking.ErrNoSeatsSelected),
		errors.Is(err, booking.ErrBadSeatSelection),
		errors.Is(err, fleet.ErrEmptySeatLayout):
		status, msg = http.StatusBadRequest, err.Error()

	case errors.Is(err, booking.ErrConflict),
		errors.Is(err, fleet.ErrDuplicate):
		status, msg = http.StatusConflict, "conflict, please retry"

	case errors.Is(err, booking.ErrRateLimited):
		status, msg = http.StatusTooManyRequests, "too many requests"

	case errors.Is(err, auth.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "invalid email or password"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired):
		status, msg = http.StatusUnauthorized, "invalid or expired session"

	default:
		status, msg = http.StatusInternalServerError, "internal error"
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err, "path", c.Request.URL.Path)
	}

	c.JSON(status, ErrorResponse{Error: msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}

func queryUUID(c *gin.Context, name string) *uuid.UUID {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func queryDate(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
