package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"plek/config"
	"plek/infras/otel/mocks"
	amenityMocks "plek/internal/domains/amenity/mocks"
	"plek/internal/domains/amenity/model"
	"plek/internal/domains/amenity/model/dto"
	"plek/internal/domains/amenity/service"
	"plek/permissions"
	cacheMocks "plek/shared/cache/mocks"
	"plek/shared/failure"
)

func adminActor() permissions.Actor {
	return permissions.Actor{
		ID:    "admin-1",
		Email: "admin@campus.test",
		Roles: []string{permissions.RoleAdmin},
	}
}

func TestAmenityService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := amenityMocks.NewMockAmenity(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		actor     permissions.Actor
		req       dto.CreateAmenityRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name:  "admin creates an amenity",
			actor: adminActor(),
			req:   dto.CreateAmenityRequest{Name: "Projector"},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name:      "coordinator cannot manage amenities",
			actor:     permissions.Actor{ID: "coord-1", Roles: []string{permissions.RoleCoordinator}},
			req:       dto.CreateAmenityRequest{Name: "Projector"},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:  "insert error",
			actor: adminActor(),
			req:   dto.CreateAmenityRequest{Name: "Projector"},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(context.Background(), tt.actor, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAmenityService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := amenityMocks.NewMockAmenity(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Amenity{ID: "am-1", Name: "Whiteboard"}, nil)

		res, err := svc.Get(context.Background(), "am-1")
		assert.NoError(t, err)
		assert.Equal(t, "Whiteboard", res.Name)
	})

	t.Run("unknown amenity", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Amenity{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestAmenityService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := amenityMocks.NewMockAmenity(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		actor     permissions.Actor
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name:  "successful update",
			actor: adminActor(),
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name:      "plain user rejected",
			actor:     permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleUser}},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  403,
		},
		{
			name:  "unknown amenity",
			actor: adminActor(),
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(context.Background(), tt.actor, dto.UpdateAmenityRequest{Name: "HDMI Screen"}, "am-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAmenityService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := amenityMocks.NewMockAmenity(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	t.Run("successful delete", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		assert.NoError(t, svc.Delete(context.Background(), adminActor(), "am-1"))
	})

	t.Run("unknown amenity", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(context.Background(), adminActor(), "missing")
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("plain user rejected", func(t *testing.T) {
		err := svc.Delete(context.Background(), permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleUser}}, "am-1")
		assert.Equal(t, failure.ForbiddenError, err)
	})
}
