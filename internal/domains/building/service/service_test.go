package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"plek/config"
	"plek/infras/otel/mocks"
	buildingMocks "plek/internal/domains/building/mocks"
	"plek/internal/domains/building/model"
	"plek/internal/domains/building/model/dto"
	"plek/internal/domains/building/service"
	"plek/permissions"
	cacheMocks "plek/shared/cache/mocks"
	gDto "plek/shared/dto"
	"plek/shared/failure"
)

type buildingMockSet struct {
	repo      *buildingMocks.MockBuilding
	floorRepo *buildingMocks.MockFloor
	cache     *cacheMocks.MockRedisCache
}

func newBuildingService(ctrl *gomock.Controller) (service.Building, buildingMockSet) {
	m := buildingMockSet{
		repo:      buildingMocks.NewMockBuilding(ctrl),
		floorRepo: buildingMocks.NewMockFloor(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(m.repo, m.floorRepo, cfg, m.cache, mocks.NewOtel()), m
}

// allowInvalidation relaxes the cache fan-out that runs after a successful
// write; it fires on a detached goroutine, so the test may finish first.
func (m buildingMockSet) allowInvalidation() {
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func adminActor() permissions.Actor {
	return permissions.Actor{
		ID:    "admin-1",
		Email: "admin@campus.test",
		Roles: []string{permissions.RoleAdmin},
	}
}

func TestBuildingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBuildingService(ctrl)

	t.Run("admin creates a building", func(t *testing.T) {
		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, building model.Building) error {
				assert.Equal(t, "Main Block", building.Name)
				assert.True(t, building.Active)

				return nil
			})

		m.allowInvalidation()

		assert.NoError(t, svc.Create(context.Background(), adminActor(), dto.CreateBuildingRequest{Name: "Main Block"}))
	})

	t.Run("coordinator cannot manage buildings", func(t *testing.T) {
		err := svc.Create(context.Background(), permissions.Actor{ID: "coord-1", Roles: []string{permissions.RoleCoordinator}}, dto.CreateBuildingRequest{Name: "Main Block"})
		assert.Equal(t, failure.ForbiddenError, err)
	})

	t.Run("insert error", func(t *testing.T) {
		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		assert.Error(t, svc.Create(context.Background(), adminActor(), dto.CreateBuildingRequest{Name: "Main Block"}))
	})
}

func TestBuildingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBuildingService(ctrl)

	t.Run("found", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Building{ID: "bld-1", Name: "Main Block", Active: true}, nil)

		res, err := svc.Get(context.Background(), "bld-1")
		assert.NoError(t, err)
		assert.Equal(t, "Main Block", res.Name)
	})

	t.Run("unknown building", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Building{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestBuildingService_CreateFloor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBuildingService(ctrl)

	req := dto.CreateFloorRequest{BuildingID: "bld-1", Number: 2, Name: "Second Floor"}

	t.Run("floor is anchored to an existing building", func(t *testing.T) {
		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.floorRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, floor model.Floor) error {
				assert.Equal(t, "bld-1", floor.BuildingID)
				assert.Equal(t, 2, floor.Number)

				return nil
			})

		m.allowInvalidation()

		assert.NoError(t, svc.CreateFloor(context.Background(), adminActor(), req))
	})

	t.Run("unknown building", func(t *testing.T) {
		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.CreateFloor(context.Background(), adminActor(), req)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("plain user rejected", func(t *testing.T) {
		err := svc.CreateFloor(context.Background(), permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleUser}}, req)
		assert.Equal(t, failure.ForbiddenError, err)
	})
}

func TestBuildingService_GetFloors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBuildingService(ctrl)

	req := gDto.QueryParams{Page: 1, Limit: 10}

	m.floorRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	m.floorRepo.EXPECT().
		GetAll(gomock.Any(), req, gomock.Any()).
		Return([]model.Floor{
			{ID: "flr-1", BuildingID: "bld-1", Number: 1},
			{ID: "flr-2", BuildingID: "bld-1", Number: 2},
		}, nil)

	res, err := svc.GetFloors(context.Background(), "bld-1", req)
	assert.NoError(t, err)
	assert.Len(t, res.Floors, 2)
	assert.Equal(t, 2, res.TotalData)
}

func TestBuildingService_DeleteFloor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBuildingService(ctrl)

	t.Run("successful delete", func(t *testing.T) {
		m.floorRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.floorRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		m.allowInvalidation()

		assert.NoError(t, svc.DeleteFloor(context.Background(), adminActor(), "flr-1"))
	})

	t.Run("unknown floor", func(t *testing.T) {
		m.floorRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.DeleteFloor(context.Background(), adminActor(), "missing")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
