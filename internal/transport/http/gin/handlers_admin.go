package httpgin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veytrix/busgo/internal/domain"
	postgresrepo "github.com/veytrix/busgo/internal/repository/postgres"
)

// handleOverview godoc
//
//	@Summary	Dashboard counters
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	domain.OverviewCounts
//	@Router		/api/v1/admin/overview [get]
func (h *handlers) handleOverview(c *gin.Context) {
	counts, err := h.svcs.Query.Overview(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

// handleListAdminLogs godoc
//
//	@Summary	Admin activity log
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		admin_id	query	string	false	"filter by admin uuid"
//	@Param		limit		query	int		false	"page size"
//	@Param		offset		query	int		false	"page offset"
//	@Success	200			{array}	domain.AdminLog
//	@Router		/api/v1/admin/logs [get]
func (h *handlers) handleListAdminLogs(c *gin.Context) {
	out, err := h.svcs.Query.ListAdminLogs(
		c.Request.Context(),
		queryUUID(c, "admin_id"),
		queryInt(c, "limit"),
		queryInt(c, "offset"),
	)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// handleListBookings godoc
//
//	@Summary	List bookings
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		status		query	string	false	"confirmed, cancelled or completed"
//	@Param		bus_id		query	string	false	"bus uuid"
//	@Param		date_from	query	string	false	"YYYY-MM-DD"
//	@Param		date_to		query	string	false	"YYYY-MM-DD"
//	@Param		limit		query	int		false	"page size"
//	@Param		offset		query	int		false	"page offset"
//	@Success	200			{array}	domain.Booking
//	@Router		/api/v1/admin/bookings [get]
func (h *handlers) handleListBookings(c *gin.Context) {
	f := postgresrepo.BookingFilter{
		Status:   domain.BookingStatus(c.Query("status")),
		BusID:    queryUUID(c, "bus_id"),
		DateFrom: queryDate(c, "date_from"),
		DateTo:   queryDate(c, "date_to"),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	}

	out, err := h.svcs.Booking.List(c.Request.Context(), f)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// handleUpdateBookingStatus godoc
//
//	@Summary	Transition a booking's status
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		bookingId	path		string						true	"booking id"
//	@Param		request		body		UpdateBookingStatusRequest	true	"new status"
//	@Success	200			{object}	StatusResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/api/v1/admin/bookings/{bookingId}/status [patch]
func (h *handlers) handleUpdateBookingStatus(c *gin.Context) {
	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.svcs.Booking.UpdateStatus(
		c.Request.Context(),
		c.Param("bookingId"),
		domain.BookingStatus(req.Status),
	)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "updated"})
}

func (h *handlers) adminID(c *gin.Context) uuid.UUID {
	sess, _ := sessionFrom(c)
	return sess.AdminID
}

func busFromRequest(req BusRequest) (*domain.Bus, error) {
	departDate, err := time.Parse("2006-01-02", req.DepartDate)
	if err != nil {
		return nil, err
	}

	operatorID, err := uuid.Parse(req.OperatorID)
	if err != nil {
		return nil, err
	}

	return &domain.Bus{
		OperatorID: operatorID,
		Number:     req.Number,
		BusType:    req.BusType,
		RouteFrom:  req.RouteFrom,
		RouteTo:    req.RouteTo,
		DepartDate: departDate,
		DepartTime: req.DepartTime,
		ArriveTime: req.ArriveTime,
		Duration:   req.Duration,
		FareCents:  req.FareCents,
		SeatLayout: req.SeatLayout,
	}, nil
}

// handleCreateBus godoc
//
//	@Summary	Create a bus
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		BusRequest	true	"bus"
//	@Success	201		{object}	CreateResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/v1/admin/buses [post]
func (h *handlers) handleCreateBus(c *gin.Context) {
	var req BusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bus, err := busFromRequest(req)
	if err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.svcs.Fleet.CreateBus(c.Request.Context(), h.adminID(c), bus)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateResponse{ID: id.String()})
}

// handleUpdateBus godoc
//
//	@Summary	Update a bus
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string		true	"bus uuid"
//	@Param		request	body		BusRequest	true	"bus"
//	@Success	200		{object}	StatusResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/v1/admin/buses/{id} [put]
func (h *handlers) handleUpdateBus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req BusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bus, err := busFromRequest(req)
	if err != nil {
		badRequest(c, err)
		return
	}
	bus.ID = id

	if err := h.svcs.Fleet.UpdateBus(c.Request.Context(), h.adminID(c), bus); err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "updated"})
}

// handleDeleteBus godoc
//
//	@Summary	Delete a bus
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"bus uuid"
//	@Success	200	{object}	StatusResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/v1/admin/buses/{id} [delete]
func (h *handlers) handleDeleteBus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svcs.Fleet.DeleteBus(c.Request.Context(), h.adminID(c), id); err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
}

func (h *handlers) handleCreateOperator(c *gin.Context) {
	var req OperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	o := &domain.Operator{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
		Status:       req.Status,
	}
	if o.Status == "" {
		o.Status = "active"
	}

	id, err := h.svcs.Fleet.CreateOperator(c.Request.Context(), h.adminID(c), o)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateResponse{ID: id.String()})
}

func (h *handlers) handleListOperators(c *gin.Context) {
	out, err := h.svcs.Query.ListOperators(
		c.Request.Context(),
		c.Query("status"),
		queryInt(c, "limit"),
		queryInt(c, "offset"),
	)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *handlers) handleUpdateOperator(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req OperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	o := &domain.Operator{
		ID:           id,
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
		Status:       req.Status,
	}

	if err := h.svcs.Fleet.UpdateOperator(c.Request.Context(), h.adminID(c), o); err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "updated"})
}

func (h *handlers) handleDeleteOperator(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svcs.Fleet.DeleteOperator(c.Request.Context(), h.adminID(c), id); err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
}

func routeFromRequest(req RouteRequest) *domain.Route {
	stops := make([]domain.StopPoint, 0, len(req.Stops))
	for _, s := range req.Stops {
		stops = append(stops, stopPoint(s))
	}

	return &domain.Route{
		Origin:      req.Origin,
		Destination: req.Destination,
		DistanceKm:  req.DistanceKm,
		Duration:    req.Duration,
		Stops:       stops,
	}
}

func (h *handlers) handleCreateRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.svcs.Fleet.CreateRoute(c.Request.Context(), h.adminID(c), routeFromRequest(req))
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateResponse{ID: id.String()})
}

func (h *handlers) handleListRoutes(c *gin.Context) {
	out, err := h.svcs.Query.ListRoutes(
		c.Request.Context(),
		c.Query("origin"),
		c.Query("destination"),
		queryInt(c, "limit"),
		queryInt(c, "offset"),
	)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *handlers) handleUpdateRoute(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rt := routeFromRequest(req)
	rt.ID = id

	if err := h.svcs.Fleet.UpdateRoute(c.Request.Context(), h.adminID(c), rt); err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "updated"})
}

func (h *handlers) handleDeleteRoute(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svcs.Fleet.DeleteRoute(c.Request.Context(), h.adminID(c), id); err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
}

func (h *handlers) handleCreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u := &domain.User{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: req.Status,
	}
	if u.Status == "" {
		u.Status = "active"
	}

	id, err := h.svcs.Fleet.CreateUser(c.Request.Context(), h.adminID(c), u)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateResponse{ID: id.String()})
}

func (h *handlers) handleListUsers(c *gin.Context) {
	out, err := h.svcs.Query.ListUsers(
		c.Request.Context(),
		c.Query("search"),
		queryInt(c, "limit"),
		queryInt(c, "offset"),
	)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *handlers) handleUpdateUser(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u := &domain.User{
		ID:     id,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: req.Status,
	}

	if err := h.svcs.Fleet.UpdateUser(c.Request.Context(), h.adminID(c), u); err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "updated"})
}

func (h *handlers) handleDeleteUser(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svcs.Fleet.DeleteUser(c.Request.Context(), h.adminID(c), id); err != nil {
		h.respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
}
