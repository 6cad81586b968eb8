package service

import (
	"context"
	"fmt"

	"plek/config"
	"plek/infras/otel"
	"plek/internal/domains/building/model"
	"plek/internal/domains/building/model/dto"
	"plek/internal/domains/building/repository"
	"plek/permissions"
	"plek/shared"
	"plek/shared/cache"
	"plek/shared/constant"
	gDto "plek/shared/dto"
	"plek/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBuilding    = "building:get"
	cacheGetAllBuilding = "building:gets"
	cacheGetAllFloor    = "floor:gets"
)

type Building interface {
	Create(ctx context.Context, actor permissions.Actor, req dto.CreateBuildingRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBuildingsResponse, error)
	Get(ctx context.Context, id string) (dto.BuildingResponse, error)
	Update(ctx context.Context, actor permissions.Actor, req dto.UpdateBuildingRequest, id string) error
	Delete(ctx context.Context, actor permissions.Actor, id string) error
	CreateFloor(ctx context.Context, actor permissions.Actor, req dto.CreateFloorRequest) error
	GetFloors(ctx context.Context, buildingID string, req gDto.QueryParams) (dto.GetFloorsResponse, error)
	UpdateFloor(ctx context.Context, actor permissions.Actor, req dto.UpdateFloorRequest, id string) error
	DeleteFloor(ctx context.Context, actor permissions.Actor, id string) error
}

type serviceImpl struct {
	repo      repository.Building
	floorRepo repository.Floor
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Building, floorRepo repository.Floor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Building {
	return &serviceImpl{
		repo:      repo,
		floorRepo: floorRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, actor permissions.Actor, req dto.CreateBuildingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".building.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapManageBuildings) {
		return failure.ForbiddenError
	}

	if err = s.repo.Insert(ctx, req.ToModel(actor.Email)); err != nil {
		log.Error().Err(err).Msg("failed to create building")

		return fmt.Errorf("failed to create building: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBuildingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".building.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBuilding, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for buildings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count buildings")

		return res, fmt.Errorf("failed to count buildings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get buildings")

		return res, fmt.Errorf("failed to get buildings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save buildings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BuildingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".building.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	building, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get building")

		return res, fmt.Errorf("failed to get building: %w", err)
	}

	if building.ID == constant.Empty {
		return res, failure.NotFound("building not found") //nolint:wrapcheck
	}

	res.FromModel(building)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, actor permissions.Actor, req dto.UpdateBuildingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".building.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapManageBuildings) {
		return failure.ForbiddenError
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check if building exists: %w", err)
	}

	if !exist {
		return failure.NotFound("building not found") //nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor.Email), filter); err != nil {
		log.Error().Err(err).Msg("failed to update building")

		return fmt.Errorf("failed to update building: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, actor permissions.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".building.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapManageBuildings) {
		return failure.ForbiddenError
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check if building exists: %w", err)
	}

	if !exist {
		return failure.NotFound("building not found") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete building")

		return fmt.Errorf("failed to delete building: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) CreateFloor(ctx context.Context, actor permissions.Actor, req dto.CreateFloorRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".building.CreateFloor")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapManageBuildings) {
		return failure.ForbiddenError
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(req.BuildingID, model.FieldID, model.TableName))
	if err != nil {
		return fmt.Errorf("failed to check if building exists: %w", err)
	}

	if !exist {
		return failure.NotFound("building not found") //nolint:wrapcheck
	}

	if err = s.floorRepo.Insert(ctx, req.ToModel(actor.Email)); err != nil {
		log.Error().Err(err).Msg("failed to create floor")

		return fmt.Errorf("failed to create floor: %w", err)
	}

	s.invalidate(ctx, req.BuildingID)

	return nil
}

func (s *serviceImpl) GetFloors(ctx context.Context, buildingID string, req gDto.QueryParams) (res dto.GetFloorsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".building.GetFloors")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FloorFieldBuildingID,
				Operator: gDto.FilterOperatorEq,
				Value:    buildingID,
				Table:    model.FloorTableName,
			},
		},
	}

	total, err := s.floorRepo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count floors: %w", err)
	}

	models, err := s.floorRepo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get floors")

		return res, fmt.Errorf("failed to get floors: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) UpdateFloor(ctx context.Context, actor permissions.Actor, req dto.UpdateFloorRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".building.UpdateFloor")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapManageBuildings) {
		return failure.ForbiddenError
	}

	filter := shared.FilterByID(id, model.FloorFieldID, model.FloorTableName)

	exist, err := s.floorRepo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check if floor exists: %w", err)
	}

	if !exist {
		return failure.NotFound("floor not found") //nolint:wrapcheck
	}

	if err = s.floorRepo.Update(ctx, shared.TransformFields(req, actor.Email), filter); err != nil {
		log.Error().Err(err).Msg("failed to update floor")

		return fmt.Errorf("failed to update floor: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) DeleteFloor(ctx context.Context, actor permissions.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".building.DeleteFloor")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapManageBuildings) {
		return failure.ForbiddenError
	}

	filter := shared.FilterByID(id, model.FloorFieldID, model.FloorTableName)

	exist, err := s.floorRepo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check if floor exists: %w", err)
	}

	if !exist {
		return failure.NotFound("floor not found") //nolint:wrapcheck
	}

	if err = s.floorRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete floor")

		return fmt.Errorf("failed to delete floor: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBuilding, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete building from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBuilding)
		shared.InvalidateCaches(c, s.cache, cacheGetAllFloor)
	}()
}
