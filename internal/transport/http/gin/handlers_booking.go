package httpgin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veytrix/busgo/internal/domain"
	postgresrepo "github.com/veytrix/busgo/internal/repository/postgres"
	redisrepo "github.com/veytrix/busgo/internal/repository/redis"
	"github.com/veytrix/busgo/internal/service/booking"
)

const idemLockTTL = 30 * time.Second

// handleLogin godoc
//
//	@Summary	Admin login
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		LoginRequest	true	"credentials"
//	@Success	200		{object}	LoginResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/api/v1/auth/login [post]
func (h *handlers) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, admin, err := h.svcs.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role,
	})
}

// handleCompleteBooking godoc
//
//	@Summary		Complete a booking
//	@Description	Books the selected seats, decrements the available-seat counter and records the booking in one transaction.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string					false	"dedupe key for safe retries"
//	@Param			request			body		CompleteBookingRequest	true	"booking payload"
//	@Success		201				{object}	CompleteBookingResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Failure		409				{object}	ErrorResponse
//	@Failure		429				{object}	ErrorResponse
//	@Router			/api/v1/bookings [post]
func (h *handlers) handleCompleteBooking(c *gin.Context) {
	var req CompleteBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	busID, err := uuid.Parse(req.BusID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid bus_id"})
		return
	}

	ctx := c.Request.Context()

	// Duplicate submissions with the same key replay the stored result
	// instead of booking the seats twice.
	var idemKey string
	if hdr := c.GetHeader("Idempotency-Key"); hdr != "" {
		idemKey = redisrepo.KeyIdemBooking(req.BusID, hdr)

		if payload, ok, err := h.idem.GetResult(ctx, idemKey); err == nil && ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
			return
		}

		locked, err := h.idem.AcquireLock(ctx, idemKey, idemLockTTL)
		if err == nil && !locked {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "request already in flight"})
			return
		}
	}

	res, err := h.svcs.Booking.Complete(ctx, completeParams(busID, req), c.ClientIP())
	if err != nil {
		if idemKey != "" {
			_ = h.idem.Release(ctx, idemKey)
		}

		h.respondErr(c, err)
		return
	}

	resp := CompleteBookingResponse{
		BookingID:    res.BookingID,
		DocumentID:   res.DocumentID.String(),
		SeatsUpdated: res.SeatsUpdated,
	}

	if idemKey != "" {
		if b, err := json.Marshal(resp); err == nil {
			_ = h.idem.SaveResult(ctx, idemKey, string(b))
		}
	}

	c.JSON(http.StatusCreated, resp)
}

func completeParams(busID uuid.UUID, req CompleteBookingRequest) booking.CompleteParams {
	passengers := make([]domain.Passenger, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		passengers = append(passengers, domain.Passenger{Name: p.Name, Age: p.Age, Gender: p.Gender})
	}

	return booking.CompleteParams{
		BusID:         busID,
		BookingID:     req.BookingID,
		SelectedSeats: req.SelectedSeats,
		Passengers:    passengers,
		Contact:       domain.Contact{Email: req.Contact.Email, Phone: req.Contact.Phone},
		Boarding:      stopPoint(req.Boarding),
		Dropping:      stopPoint(req.Dropping),
		PaymentMethod: req.PaymentMethod,
		AmountCents:   req.AmountCents,
		TransactionID: req.TransactionID,
	}
}

func stopPoint(in StopPointInput) domain.StopPoint {
	return domain.StopPoint{Name: in.Name, Address: in.Address, Time: in.Time}
}

// handleGetBooking godoc
//
//	@Summary	Look up a booking by its booking id
//	@Tags		bookings
//	@Produce	json
//	@Param		bookingId	path		string	true	"booking id"
//	@Success	200			{object}	domain.Booking
//	@Failure	404			{object}	ErrorResponse
//	@Router		/api/v1/bookings/{bookingId} [get]
func (h *handlers) handleGetBooking(c *gin.Context) {
	b, err := h.svcs.Booking.Lookup(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// handleETicket godoc
//
//	@Summary	Download the booking's e-ticket PDF
//	@Tags		bookings
//	@Produce	application/pdf
//	@Param		bookingId	path	string	true	"booking id"
//	@Success	200
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/v1/bookings/{bookingId}/eticket [get]
func (h *handlers) handleETicket(c *gin.Context) {
	pdf, name, err := h.svcs.Ticket.ETicket(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// handleListBuses godoc
//
//	@Summary	List buses
//	@Tags		buses
//	@Produce	json
//	@Param		operator_id	query		string	false	"operator uuid"
//	@Param		route_from	query		string	false	"origin city"
//	@Param		route_to	query		string	false	"destination city"
//	@Param		date_from	query		string	false	"YYYY-MM-DD"
//	@Param		date_to		query		string	false	"YYYY-MM-DD"
//	@Param		limit		query		int		false	"page size"
//	@Param		offset		query		int		false	"page offset"
//	@Success	200			{array}		domain.Bus
//	@Router		/api/v1/buses [get]
func (h *handlers) handleListBuses(c *gin.Context) {
	f := postgresrepo.BusFilter{
		OperatorID: queryUUID(c, "operator_id"),
		RouteFrom:  c.Query("route_from"),
		RouteTo:    c.Query("route_to"),
		DateFrom:   queryDate(c, "date_from"),
		DateTo:     queryDate(c, "date_to"),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	}

	out, err := h.svcs.Query.ListBuses(c.Request.Context(), f)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// handleGetBus godoc
//
//	@Summary	Get a bus
//	@Tags		buses
//	@Produce	json
//	@Param		id	path		string	true	"bus uuid"
//	@Success	200	{object}	domain.Bus
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/v1/buses/{id} [get]
func (h *handlers) handleGetBus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	bus, err := h.svcs.Query.GetBus(c.Request.Context(), id)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	writeJSONWithCache(c, http.StatusOK, bus, "public, max-age=30", false)
}

// handleGetSeatMap godoc
//
//	@Summary	Get a bus seat map
//	@Tags		buses
//	@Produce	json
//	@Param		id	path		string	true	"bus uuid"
//	@Success	200	{object}	SeatMapResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/v1/buses/{id}/seatmap [get]
func (h *handlers) handleGetSeatMap(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	sm, err := h.svcs.Query.GetSeatMap(c.Request.Context(), id)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	resp := SeatMapResponse{
		BusID:          sm.BusID.String(),
		SeatLayout:     sm.SeatLayout,
		AvailableSeats: sm.AvailableSeats,
		UpdatedAt:      sm.UpdatedAt,
	}

	// Seat maps go stale fast; keep client caching short and weak.
	writeJSONWithCache(c, http.StatusOK, resp, "public, max-age=5", true)
}
