package policy

import (
	"net/http"
	"plek/infras/otel"
	"plek/internal/domains/policy/model/dto"
	"plek/internal/domains/policy/service"
	"plek/permissions"
	"plek/shared/constant"
	"plek/shared/validator"
	"plek/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Policy
	otel    otel.Otel
}

func New(service service.Policy, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/policy", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetPolicy)
		routerGroup.Patch("/", handler.UpdatePolicy)
	})
}

// GetPolicy returns the institute-wide booking policy.
// @Summary Get the institute policy
// @Description Retrieve the booking policy. Defaults are seeded on first read.
// @Tags Policy
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.PolicyResponse] "Institute policy"
// @Failure 500 {object} response.Error
// @Router /v1/policy [get]
// @Security BearerAuth
func (handler *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPolicy")
	defer scope.End()

	policy, err := handler.service.Get(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get policy")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Policy retrieved successfully")

	response.WithJSON(w, http.StatusOK, policy)
}

// UpdatePolicy updates the institute-wide booking policy.
// @Summary Update the institute policy
// @Description Partially update the booking policy. Changes apply to new admissions only.
// @Tags Policy
// @Accept json
// @Produce json
// @Param request body dto.UpdatePolicyRequest true "Update Policy Request"
// @Success 200 {object} response.Data[dto.PolicyResponse] "Updated policy"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/policy [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePolicy")
	defer scope.End()

	req := dto.UpdatePolicyRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor := permissions.ActorFromContext(ctx)

	policy, err := handler.service.Update(ctx, actor, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update policy")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Policy updated successfully by user " + actor.ID)

	response.WithJSON(w, http.StatusOK, policy)
}
