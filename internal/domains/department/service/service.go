package service

import (
	"context"
	"fmt"

	"plek/config"
	"plek/infras/otel"
	"plek/internal/domains/department/model"
	"plek/internal/domains/department/model/dto"
	"plek/internal/domains/department/repository"
	"plek/permissions"
	"plek/shared"
	"plek/shared/cache"
	"plek/shared/constant"
	gDto "plek/shared/dto"
	"plek/shared/failure"

	"github.com/rs/zerolog/log"
)

const cacheGetAllDepartment = "department:gets"

type Department interface {
	Create(ctx context.Context, actor permissions.Actor, req dto.CreateDepartmentRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetDepartmentsResponse, error)
	Get(ctx context.Context, id string) (dto.DepartmentResponse, error)
	Update(ctx context.Context, actor permissions.Actor, req dto.UpdateDepartmentRequest, id string) error
	Delete(ctx context.Context, actor permissions.Actor, id string) error
}

type serviceImpl struct {
	repo  repository.Department
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Department, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Department {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, actor permissions.Actor, req dto.CreateDepartmentRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".department.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapManageBuildings) {
		return failure.ForbiddenError
	}

	codeFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Code,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, codeFilter)
	if err != nil {
		return fmt.Errorf("failed to check if department exists: %w", err)
	}

	if exists {
		return failure.Conflict("department code already in use") //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(actor.Email)); err != nil {
		log.Error().Err(err).Msg("failed to create department")

		return fmt.Errorf("failed to create department: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetDepartmentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".department.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllDepartment, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count departments: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get departments")

		return res, fmt.Errorf("failed to get departments: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save departments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.DepartmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".department.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	department, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get department")

		return res, fmt.Errorf("failed to get department: %w", err)
	}

	if department.ID == constant.Empty {
		return res, failure.NotFound("department not found") //nolint:wrapcheck
	}

	res.FromModel(department)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, actor permissions.Actor, req dto.UpdateDepartmentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".department.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapManageBuildings) {
		return failure.ForbiddenError
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check if department exists: %w", err)
	}

	if !exist {
		return failure.NotFound("department not found") //nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor.Email), filter); err != nil {
		log.Error().Err(err).Msg("failed to update department")

		return fmt.Errorf("failed to update department: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, actor permissions.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".department.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapManageBuildings) {
		return failure.ForbiddenError
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check if department exists: %w", err)
	}

	if !exist {
		return failure.NotFound("department not found") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete department")

		return fmt.Errorf("failed to delete department: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllDepartment)
	}()
}
