package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"plek/config"
	"plek/infras/otel/mocks"
	policyMocks "plek/internal/domains/policy/mocks"
	"plek/internal/domains/policy/model"
	"plek/internal/domains/policy/model/dto"
	"plek/internal/domains/policy/service"
	"plek/permissions"
	cacheMocks "plek/shared/cache/mocks"
	"plek/shared/failure"
)

func intPtr(v int) *int {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func superAdminActor() permissions.Actor {
	return permissions.Actor{
		ID:    "root-1",
		Email: "root@campus.test",
		Roles: []string{permissions.RoleSuperAdmin},
	}
}

func TestPolicyService_GetModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := policyMocks.NewMockPolicy(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "cache hit skips the repository",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "cache miss seeds and returns the singleton",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					GetOrCreate(gomock.Any()).
					Return(model.Default(), nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name: "repository error",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					GetOrCreate(gomock.Any()).
					Return(model.InstitutePolicy{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			_, err := svc.GetModel(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPolicyService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := policyMocks.NewMockPolicy(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	tests := []struct {
		name      string
		actor     permissions.Actor
		req       dto.UpdatePolicyRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name:  "admin lacks the policy capability",
			actor: permissions.Actor{ID: "admin-1", Roles: []string{permissions.RoleAdmin}},
			req: dto.UpdatePolicyRequest{
				BookingOpeningDays: intPtr(45),
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:      "empty update request",
			actor:     superAdminActor(),
			req:       dto.UpdatePolicyRequest{},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:  "malformed working hours",
			actor: superAdminActor(),
			req: dto.UpdatePolicyRequest{
				WorkingHoursStart: strPtr("eight"),
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:  "successful update rereads the policy",
			actor: superAdminActor(),
			req: dto.UpdatePolicyRequest{
				BookingOpeningDays: intPtr(45),
				EnableAutoApproval: boolPtr(true),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetOrCreate(gomock.Any()).
					Return(model.Default(), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				updated := model.Default()
				updated.BookingOpeningDays = 45
				updated.EnableAutoApproval = true

				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					GetOrCreate(gomock.Any()).
					Return(updated, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name:  "update error",
			actor: superAdminActor(),
			req: dto.UpdatePolicyRequest{
				BookingOpeningDays: intPtr(45),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetOrCreate(gomock.Any()).
					Return(model.Default(), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Update(context.Background(), tt.actor, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 45, res.BookingOpeningDays)
				assert.True(t, res.EnableAutoApproval)
			}
		})
	}
}

func TestPolicyService_Update_ForbiddenError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := policyMocks.NewMockPolicy(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	_, err := svc.Update(context.Background(), permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleUser}}, dto.UpdatePolicyRequest{
		BookingOpeningDays: intPtr(10),
	})

	assert.Equal(t, failure.ForbiddenError, err)
}

func boolPtr(v bool) *bool {
	return &v
}
