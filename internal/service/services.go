package service

import (
	postgres "github.com/veytrix/busgo/internal/repository/postgres"
	redis "github.com/veytrix/busgo/internal/repository/redis"
	redisx "github.com/veytrix/busgo/internal/redis"
	"github.com/veytrix/busgo/internal/service/auth"
	"github.com/veytrix/busgo/internal/service/booking"
	"github.com/veytrix/busgo/internal/service/fleet"
	"github.com/veytrix/busgo/internal/service/query"
	"github.com/veytrix/busgo/internal/service/ticket"
)

type Services struct {
	Booking *booking.Service
	Fleet   *fleet.Service
	Query   *query.Service
	Auth    *auth.Service
	Ticket  *ticket.Service
}

type Config struct {
	Booking booking.Config
	Query   query.Config
	Auth    auth.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.BusPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	bookingSvc := booking.New(store, cache, pubsub, limiter, cfg.Booking)

	return &Services{
		Booking: bookingSvc,
		Fleet:   fleet.New(store, cache, pubsub),
		Query:   query.New(store, cache, cfg.Query),
		Auth:    auth.New(store, cfg.Auth),
		Ticket:  ticket.New(bookingSvc),
	}
}
