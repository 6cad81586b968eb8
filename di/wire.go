//go:build wireinject
// +build wireinject

package di

import (
	"plek/config"
	"plek/infras/jwt"
	"plek/infras/kafka"
	"plek/infras/mongo"
	"plek/infras/otel"
	"plek/infras/postgres"
	"plek/infras/redis"
	"plek/infras/s3"
	"plek/shared/cache"
	"plek/transport/http"
	"plek/transport/http/middleware"
	"plek/transport/http/router"

	"plek/internal/domains/audit"
	"plek/internal/domains/notifier"

	amenityRepository "plek/internal/domains/amenity/repository"
	amenityService "plek/internal/domains/amenity/service"
	authService "plek/internal/domains/auth/service"
	bookingRepository "plek/internal/domains/booking/repository"
	bookingService "plek/internal/domains/booking/service"
	buildingRepository "plek/internal/domains/building/repository"
	buildingService "plek/internal/domains/building/service"
	departmentRepository "plek/internal/domains/department/repository"
	departmentService "plek/internal/domains/department/service"
	policyRepository "plek/internal/domains/policy/repository"
	policyService "plek/internal/domains/policy/service"
	roomRepository "plek/internal/domains/room/repository"
	roomService "plek/internal/domains/room/service"
	userRepository "plek/internal/domains/user/repository"
	userService "plek/internal/domains/user/service"

	amenityHandler "plek/internal/handlers/amenity"
	authHandler "plek/internal/handlers/auth"
	bookingHandler "plek/internal/handlers/booking"
	buildingHandler "plek/internal/handlers/building"
	departmentHandler "plek/internal/handlers/department"
	policyHandler "plek/internal/handlers/policy"
	roomHandler "plek/internal/handlers/room"
	userHandler "plek/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	mongo.New,
	kafka.New,
	s3.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var supportingDomains = wire.NewSet(
	audit.New,
	notifier.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var buildingDomain = wire.NewSet(
	buildingRepository.New,
	buildingRepository.NewFloor,
	buildingService.New,
)

var departmentDomain = wire.NewSet(
	departmentRepository.New,
	departmentService.New,
)

var amenityDomain = wire.NewSet(
	amenityRepository.New,
	amenityService.New,
)

var policyDomain = wire.NewSet(
	policyRepository.New,
	policyService.New,
)

var domains = wire.NewSet(
	supportingDomains,
	authDomain,
	userDomain,
	bookingDomain,
	roomDomain,
	buildingDomain,
	departmentDomain,
	amenityDomain,
	policyDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	bookingHandler.New,
	roomHandler.New,
	userHandler.New,
	buildingHandler.New,
	departmentHandler.New,
	amenityHandler.New,
	policyHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
