package building

import (
	"encoding/json"
	"net/http"
	"plek/infras/otel"
	"plek/shared/failure"
	"plek/internal/domains/building/model"
	"plek/internal/domains/building/model/dto"
	"plek/internal/domains/building/service"
	"plek/permissions"
	"plek/shared"
	"plek/shared/constant"
	gDto "plek/shared/dto"
	"plek/shared/validator"
	"plek/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Building
	otel    otel.Otel
}

func New(service service.Building, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/buildings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBuilding)
		routerGroup.Get("/", handler.GetBuildings)
		routerGroup.Get("/{id}", handler.GetBuildingByID)
		routerGroup.Patch("/{id}", handler.UpdateBuilding)
		routerGroup.Delete("/{id}", handler.DeleteBuilding)
		routerGroup.Post("/{id}/floors", handler.CreateFloor)
		routerGroup.Get("/{id}/floors", handler.GetFloors)
	})

	router.Route("/floors", func(routerGroup chi.Router) {
		routerGroup.Patch("/{id}", handler.UpdateFloor)
		routerGroup.Delete("/{id}", handler.DeleteFloor)
	})
}

// CreateBuilding handles the creation of a new building.
// @Summary Create a new building
// @Description Create a new building record.
// @Tags Building
// @Accept json
// @Produce json
// @Param request body dto.CreateBuildingRequest true "Create Building Request"
// @Success 201 {object} response.Message "Building created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings [post]
// @Security BearerAuth
func (handler *Handler) CreateBuilding(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBuilding")
	defer scope.End()

	req := dto.CreateBuildingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	actor := permissions.ActorFromContext(ctx)

	if err := handler.service.Create(ctx, actor, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create building")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Building created successfully by user " + actor.ID)

	response.WithMessage(writer, http.StatusCreated, "Building created successfully")
}

// GetBuildings retrieves all buildings.
// @Summary Get all buildings
// @Description Retrieve all buildings with optional filtering and pagination.
// @Tags Building
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param active query boolean false "Filter by active status"
// @Success 200 {object} response.Data[dto.GetBuildingsResponse] "List of buildings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings [get]
// @Security BearerAuth
func (handler *Handler) GetBuildings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBuildings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	if active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive)); active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	buildings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get buildings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Buildings retrieved successfully")

	response.WithJSON(w, http.StatusOK, buildings)
}

// GetBuildingByID retrieves a building by its ID.
// @Summary Get a building by ID
// @Description Retrieve a building by its unique identifier.
// @Tags Building
// @Accept json
// @Produce json
// @Param id path string true "Building ID"
// @Success 200 {object} response.Data[dto.BuildingResponse] "Building details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBuildingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBuildingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	building, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get building by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Building retrieved successfully")

	response.WithJSON(w, http.StatusOK, building)
}

// UpdateBuilding updates an existing building.
// @Summary Update a building by ID
// @Description Update the details of an existing building.
// @Tags Building
// @Accept json
// @Produce json
// @Param id path string true "Building ID"
// @Param request body dto.UpdateBuildingRequest true "Update Building Request"
// @Success 200 {object} response.Message "Building updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBuilding")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateBuildingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor := permissions.ActorFromContext(ctx)

	if err := handler.service.Update(ctx, actor, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update building")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Building updated successfully by user " + actor.ID)

	response.WithMessage(w, http.StatusOK, "Building updated successfully")
}

// DeleteBuilding deletes a building by its ID.
// @Summary Delete a building by ID
// @Description Delete a building using its unique identifier.
// @Tags Building
// @Accept json
// @Produce json
// @Param id path string true "Building ID"
// @Success 200 {object} response.Message "Building deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBuilding(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBuilding")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor := permissions.ActorFromContext(ctx)

	if err := handler.service.Delete(ctx, actor, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete building")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Building deleted successfully by user " + actor.ID)

	response.WithMessage(w, http.StatusOK, "Building deleted successfully")
}

// CreateFloor adds a floor to a building.
// @Summary Create a floor
// @Description Add a floor to an existing building.
// @Tags Building
// @Accept json
// @Produce json
// @Param id path string true "Building ID"
// @Param request body dto.CreateFloorRequest true "Create Floor Request"
// @Success 201 {object} response.Message "Floor created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings/{id}/floors [post]
// @Security BearerAuth
func (handler *Handler) CreateFloor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateFloor")
	defer scope.End()

	req := dto.CreateFloorRequest{}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	// The path owns the parent; a building_id in the body is ignored.
	req.BuildingID = chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	actor := permissions.ActorFromContext(ctx)

	if err := handler.service.CreateFloor(ctx, actor, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create floor")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Floor created successfully by user " + actor.ID)

	response.WithMessage(w, http.StatusCreated, "Floor created successfully")
}

// GetFloors lists the floors of a building.
// @Summary Get floors of a building
// @Description Retrieve the floors belonging to a building.
// @Tags Building
// @Accept json
// @Produce json
// @Param id path string true "Building ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetFloorsResponse] "List of floors"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings/{id}/floors [get]
// @Security BearerAuth
func (handler *Handler) GetFloors(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFloors")
	defer scope.End()

	buildingID := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	floors, err := handler.service.GetFloors(ctx, buildingID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get floors")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Floors retrieved successfully")

	response.WithJSON(w, http.StatusOK, floors)
}

// UpdateFloor updates an existing floor.
// @Summary Update a floor by ID
// @Description Update the details of an existing floor.
// @Tags Building
// @Accept json
// @Produce json
// @Param id path string true "Floor ID"
// @Param request body dto.UpdateFloorRequest true "Update Floor Request"
// @Success 200 {object} response.Message "Floor updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/floors/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateFloor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateFloor")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateFloorRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	actor := permissions.ActorFromContext(ctx)

	if err := handler.service.UpdateFloor(ctx, actor, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update floor")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Floor updated successfully by user " + actor.ID)

	response.WithMessage(w, http.StatusOK, "Floor updated successfully")
}

// DeleteFloor deletes a floor by its ID.
// @Summary Delete a floor by ID
// @Description Delete a floor using its unique identifier.
// @Tags Building
// @Accept json
// @Produce json
// @Param id path string true "Floor ID"
// @Success 200 {object} response.Message "Floor deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/floors/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteFloor(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteFloor")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	actor := permissions.ActorFromContext(ctx)

	if err := handler.service.DeleteFloor(ctx, actor, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete floor")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Floor deleted successfully by user " + actor.ID)

	response.WithMessage(w, http.StatusOK, "Floor deleted successfully")
}
