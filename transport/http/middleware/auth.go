package middleware

import (
	"context"
	"errors"
	"net/http"
	"plek/infras/jwt"
	"plek/infras/otel"
	"plek/permissions"
	"plek/shared/constant"
	"plek/shared/failure"
	"plek/transport/http/response"

	userService "plek/internal/domains/user/service"
)

// Auth guards routes behind a valid access token. Capability checks happen
// in the services; this layer only establishes who is calling.
type Auth interface {
	Authenticate(http.Handler) http.Handler
}

type authImpl struct {
	jwtService  jwt.JWT
	userService userService.User
	otel        otel.Otel
}

func NewAuthMiddleware(jwtService jwt.JWT, userService userService.User, otel otel.Otel) Auth {
	return &authImpl{
		jwtService:  jwtService,
		userService: userService,
		otel:        otel,
	}
}

// Authenticate validates the bearer token and materializes the acting user,
// assignments included, onto the request context.
func (m *authImpl) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == "" {
			err := failure.Unauthorized("Missing authorization header")
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			err := failure.Unauthorized("Invalid authorization header format")
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString, jwt.AccessToken)
		if err != nil {
			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrInvalidToken):
				message = "Invalid token"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid token claims"
			default:
				message = "Token validation failed"
			}

			err := failure.Unauthorized(message)
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		if claims.UserID == "" || claims.Email == "" {
			err := failure.Unauthorized("Invalid token claims")
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		actor, err := m.userService.LoadActor(ctx, claims.UserID)
		if err != nil {
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)
		ctx = permissions.WithActor(ctx, actor)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
