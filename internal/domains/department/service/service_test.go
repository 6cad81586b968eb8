package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"plek/config"
	"plek/infras/otel/mocks"
	departmentMocks "plek/internal/domains/department/mocks"
	"plek/internal/domains/department/model"
	"plek/internal/domains/department/model/dto"
	"plek/internal/domains/department/service"
	"plek/permissions"
	cacheMocks "plek/shared/cache/mocks"
	gDto "plek/shared/dto"
	"plek/shared/failure"
)

func adminActor() permissions.Actor {
	return permissions.Actor{
		ID:    "admin-1",
		Email: "admin@campus.test",
		Roles: []string{permissions.RoleAdmin},
	}
}

func TestDepartmentService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := departmentMocks.NewMockDepartment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		actor     permissions.Actor
		req       dto.CreateDepartmentRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name:  "admin creates a department",
			actor: adminActor(),
			req:   dto.CreateDepartmentRequest{Name: "Computer Science", Code: "CS"},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, dept model.Department) error {
						assert.Equal(t, "CS", dept.Code)
						assert.True(t, dept.Active)

						return nil
					})

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name:  "duplicate code",
			actor: adminActor(),
			req:   dto.CreateDepartmentRequest{Name: "Computer Science", Code: "CS"},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name:      "coordinator cannot create departments",
			actor:     permissions.Actor{ID: "coord-1", Roles: []string{permissions.RoleCoordinator}},
			req:       dto.CreateDepartmentRequest{Name: "Physics", Code: "PHY"},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  403,
		},
		{
			name:  "insert error",
			actor: adminActor(),
			req:   dto.CreateDepartmentRequest{Name: "Physics", Code: "PHY"},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

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

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDepartmentService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := departmentMocks.NewMockDepartment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	req := gDto.QueryParams{Page: 1, Limit: 10}

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), req, gomock.Any()).
		Return([]model.Department{
			{ID: "dept-1", Name: "Computer Science", Code: "CS", Active: true},
			{ID: "dept-2", Name: "Physics", Code: "PHY", Active: true},
		}, nil)

	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	res, err := svc.GetAll(context.Background(), req, gDto.FilterGroup{})
	assert.NoError(t, err)
	assert.Len(t, res.Departments, 2)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
}

func TestDepartmentService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := departmentMocks.NewMockDepartment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Department{ID: "dept-1", Name: "Computer Science", Code: "CS"}, nil)

		res, err := svc.Get(context.Background(), "dept-1")
		assert.NoError(t, err)
		assert.Equal(t, "CS", res.Code)
	})

	t.Run("unknown department", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Department{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestDepartmentService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := departmentMocks.NewMockDepartment(ctrl)
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

		assert.NoError(t, svc.Delete(context.Background(), adminActor(), "dept-1"))
	})

	t.Run("unknown department", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(context.Background(), adminActor(), "missing")
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("plain user rejected", func(t *testing.T) {
		err := svc.Delete(context.Background(), permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleUser}}, "dept-1")
		assert.Equal(t, failure.ForbiddenError, err)
	})
}
