// Package httpgin exposes the booking backend over HTTP.
package httpgin

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	redisrepo "github.com/veytrix/busgo/internal/repository/redis"
	"github.com/veytrix/busgo/internal/service"
)

type handlers struct {
	svcs   *service.Services
	idem   *redisrepo.IdempotencyStore
	logger *slog.Logger
}

// NewRouter assembles the HTTP surface. Public routes cover login, bus
// discovery and the booking lifecycle; everything under /admin goes
// through the bearer-token guard.
func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
) *gin.Engine {
	h := &handlers{svcs: svcs, idem: idem, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(CORS())
	r.Use(LoggingMiddleware(logger))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", h.handleHealthz)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", h.handleLogin)

		v1.GET("/buses", h.handleListBuses)
		v1.GET("/buses/:id", h.handleGetBus)
		v1.GET("/buses/:id/seatmap", h.handleGetSeatMap)

		v1.POST("/bookings", h.handleCompleteBooking)
		v1.GET("/bookings/:bookingId", h.handleGetBooking)
		v1.GET("/bookings/:bookingId/eticket", h.handleETicket)

		admin := v1.Group("/admin", RequireAdmin(svcs.Auth))
		{
			admin.GET("/overview", h.handleOverview)
			admin.GET("/logs", h.handleListAdminLogs)

			admin.GET("/bookings", h.handleListBookings)
			admin.PATCH("/bookings/:bookingId/status", h.handleUpdateBookingStatus)

			admin.POST("/buses", h.handleCreateBus)
			admin.PUT("/buses/:id", h.handleUpdateBus)
			admin.DELETE("/buses/:id", h.handleDeleteBus)

			admin.POST("/operators", h.handleCreateOperator)
			admin.GET("/operators", h.handleListOperators)
			admin.PUT("/operators/:id", h.handleUpdateOperator)
			admin.DELETE("/operators/:id", h.handleDeleteOperator)

			admin.POST("/routes", h.handleCreateRoute)
			admin.GET("/routes", h.handleListRoutes)
			admin.PUT("/routes/:id", h.handleUpdateRoute)
			admin.DELETE("/routes/:id", h.handleDeleteRoute)

			admin.POST("/users", h.handleCreateUser)
			admin.GET("/users", h.handleListUsers)
			admin.PUT("/users/:id", h.handleUpdateUser)
			admin.DELETE("/users/:id", h.handleDeleteUser)
		}
	}

	return r
}

// handleHealthz godoc
//
//	@Summary	Liveness probe
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/healthz [get]
func (h *handlers) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
