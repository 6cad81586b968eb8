package router

import (
	"plek/internal/handlers/amenity"
	"plek/internal/handlers/auth"
	"plek/internal/handlers/booking"
	"plek/internal/handlers/building"
	"plek/internal/handlers/department"
	"plek/internal/handlers/policy"
	"plek/internal/handlers/room"
	"plek/internal/handlers/user"
	"plek/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth       auth.Handler
	Booking    booking.Handler
	Room       room.Handler
	User       user.Handler
	Building   building.Handler
	Department department.Handler
	Amenity    amenity.Handler
	Policy     policy.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	Auth           middleware.Auth
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.App.Tracing)
	router.Use(r.App.RateLimit())

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)

		routerGroup.Group(func(authed chi.Router) {
			authed.Use(r.Auth.Authenticate)

			r.DomainHandlers.Auth.AuthedRouter(authed)
			r.DomainHandlers.Booking.Router(authed)
			r.DomainHandlers.Room.Router(authed)
			r.DomainHandlers.User.Router(authed)
			r.DomainHandlers.Building.Router(authed)
			r.DomainHandlers.Department.Router(authed)
			r.DomainHandlers.Amenity.Router(authed)
			r.DomainHandlers.Policy.Router(authed)
		})
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, auth middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		Auth:           auth,
	}
}
