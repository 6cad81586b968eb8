package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Policy=MockPolicyService

import (
	"context"
	"fmt"

	"plek/config"
	"plek/infras/otel"
	"plek/internal/domains/policy/model"
	"plek/internal/domains/policy/model/dto"
	"plek/internal/domains/policy/repository"
	"plek/permissions"
	"plek/shared"
	"plek/shared/cache"
	"plek/shared/constant"
	"plek/shared/failure"

	"github.com/rs/zerolog/log"
)

const cacheGetPolicy = "policy:get"

type Policy interface {
	Get(ctx context.Context) (dto.PolicyResponse, error)
	GetModel(ctx context.Context) (model.InstitutePolicy, error)
	Update(ctx context.Context, actor permissions.Actor, req dto.UpdatePolicyRequest) (dto.PolicyResponse, error)
}

type serviceImpl struct {
	repo  repository.Policy
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Policy, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Policy {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.PolicyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".policy.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	policy, err := s.GetModel(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(policy)

	return res, nil
}

// GetModel returns the active policy for rule evaluation, seeding defaults
// on first access. Reads go through the cache; the booking path hits this on
// every create and modify.
func (s *serviceImpl) GetModel(ctx context.Context) (res model.InstitutePolicy, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".policy.GetModel")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cacheGetPolicy, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.GetOrCreate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get policy")

		return res, fmt.Errorf("failed to get policy: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheGetPolicy, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save policy to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, actor permissions.Actor, req dto.UpdatePolicyRequest) (res dto.PolicyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".policy.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapManageInstitutePolicies) {
		return res, failure.ForbiddenError
	}

	if req == (dto.UpdatePolicyRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	if err = validateWorkingHours(req); err != nil {
		return res, err
	}

	// Seed the row first so updating a fresh deployment works.
	if _, err = s.repo.GetOrCreate(ctx); err != nil {
		return res, fmt.Errorf("failed to get policy: %w", err)
	}

	filter := shared.FilterByID(fmt.Sprint(model.SingletonID), model.FieldID, model.TableName)
	updatedFields := shared.TransformFields(req, actor.Email)

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update policy")

		return res, fmt.Errorf("failed to update policy: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, cacheGetPolicy); err != nil {
			log.Error().Err(err).Msg("failed to delete policy from cache")
		}
	}()

	return s.Get(ctx)
}

func validateWorkingHours(req dto.UpdatePolicyRequest) error {
	check := func(value *string, field string) error {
		if value == nil {
			return nil
		}

		if _, _, err := model.ParseClock(*value); err != nil {
			return failure.NewValidation("invalid_working_hours", field, "working hours must be in HH:MM form")
		}

		return nil
	}

	if err := check(req.WorkingHoursStart, model.FieldWorkingHoursStart); err != nil {
		return err
	}

	return check(req.WorkingHoursEnd, model.FieldWorkingHoursEnd)
}
