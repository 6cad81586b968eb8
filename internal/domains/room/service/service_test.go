package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"plek/config"
	"plek/infras/otel/mocks"
	s3Mocks "plek/infras/s3/mocks"
	roomMocks "plek/internal/domains/room/mocks"
	"plek/internal/domains/room/model"
	"plek/internal/domains/room/model/dto"
	"plek/internal/domains/room/service"
	"plek/permissions"
	cacheMocks "plek/shared/cache/mocks"
	gDto "plek/shared/dto"
	"plek/shared/failure"
	"plek/shared/timezone"
)

type roomMockSet struct {
	repo  *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
}

func newRoomService(ctrl *gomock.Controller) (service.Room, roomMockSet) {
	m := roomMockSet{
		repo:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(m.repo, cfg, m.cache, mocks.NewOtel(), m.s3), m
}

func adminActor() permissions.Actor {
	return permissions.Actor{
		ID:    "admin-1",
		Email: "admin@campus.test",
		Roles: []string{permissions.RoleAdmin},
	}
}

func TestRoomService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	tests := []struct {
		name      string
		actor     permissions.Actor
		req       dto.CreateRoomRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name:  "admin creates a room with departments and amenities",
			actor: adminActor(),
			req: dto.CreateRoomRequest{
				Name:          "Seminar Hall A",
				Capacity:      60,
				DepartmentIDs: []string{"dept-1"},
				AmenityIDs:    []string{"am-1", "am-2"},
			},
			setupMock: func() {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, "Seminar Hall A", room.Name)
						assert.True(t, room.Available)

						return nil
					})

				m.repo.EXPECT().
					SetDepartments(gomock.Any(), gomock.Any(), []string{"dept-1"}).
					Return(nil)

				m.repo.EXPECT().
					SetAmenities(gomock.Any(), gomock.Any(), []string{"am-1", "am-2"}).
					Return(nil)

				m.cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name:      "coordinator cannot create rooms",
			actor:     permissions.Actor{ID: "coord-1", Roles: []string{permissions.RoleCoordinator}},
			req:       dto.CreateRoomRequest{Name: "Seminar Hall A"},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:  "insert error",
			actor: adminActor(),
			req:   dto.CreateRoomRequest{Name: "Seminar Hall A"},
			setupMock: func() {
				m.repo.EXPECT().
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

func TestRoomService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	t.Run("cache miss hydrates relations", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{ID: "room-1", Name: "Seminar Hall A", Available: true}, nil)

		m.repo.EXPECT().
			GetDepartmentIDs(gomock.Any(), "room-1").
			Return([]string{"dept-1"}, nil)

		m.repo.EXPECT().
			GetAmenityIDs(gomock.Any(), "room-1").
			Return([]string{"am-1"}, nil)

		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(context.Background(), "room-1")
		assert.NoError(t, err)
		assert.Equal(t, []string{"dept-1"}, res.DepartmentIDs)
		assert.Equal(t, []string{"am-1"}, res.AmenityIDs)
	})

	t.Run("unknown room", func(t *testing.T) {
		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestRoomService_FindAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	req := gDto.QueryParams{Page: 1, Limit: 10}
	start := timezone.Now().Add(24 * time.Hour).Truncate(time.Hour)
	end := start.Add(2 * time.Hour)

	tests := []struct {
		name      string
		search    dto.FindAvailableRoomsRequest
		setupMock func()
		wantErr   bool
		wantRooms int
	}{
		{
			name: "lists free rooms in the window",
			search: dto.FindAvailableRoomsRequest{
				StartTime: start.Format(time.RFC3339),
				EndTime:   end.Format(time.RFC3339),
			},
			setupMock: func() {
				m.repo.EXPECT().
					FindAvailable(gomock.Any(), req, gomock.Any(), gomock.Any()).
					Return([]model.Room{
						{ID: "room-1", Name: "Seminar Hall A", Available: true},
						{ID: "room-2", Name: "Lab 2", Available: true},
					}, nil)
			},
			wantRooms: 2,
		},
		{
			name: "malformed start time",
			search: dto.FindAvailableRoomsRequest{
				StartTime: "tomorrow morning",
				EndTime:   end.Format(time.RFC3339),
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "inverted window",
			search: dto.FindAvailableRoomsRequest{
				StartTime: end.Format(time.RFC3339),
				EndTime:   start.Format(time.RFC3339),
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "repository error",
			search: dto.FindAvailableRoomsRequest{
				StartTime: start.Format(time.RFC3339),
				EndTime:   end.Format(time.RFC3339),
			},
			setupMock: func() {
				m.repo.EXPECT().
					FindAvailable(gomock.Any(), req, gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.FindAvailable(context.Background(), req, tt.search)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, res.Rooms, tt.wantRooms)
			}
		})
	}
}

func TestRoomService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	t.Run("successful update replaces relations", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{ID: "room-1", Name: "Seminar Hall A"}, nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.repo.EXPECT().
			SetDepartments(gomock.Any(), "room-1", []string{"dept-2"}).
			Return(nil)

		m.cache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		m.cache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		err := svc.Update(context.Background(), adminActor(), dto.UpdateRoomRequest{
			Name:          "Seminar Hall B",
			DepartmentIDs: []string{"dept-2"},
		}, "room-1")
		assert.NoError(t, err)
	})

	t.Run("unknown room", func(t *testing.T) {
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Room{}, nil)

		err := svc.Update(context.Background(), adminActor(), dto.UpdateRoomRequest{Name: "Seminar Hall B"}, "missing")
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("plain user rejected", func(t *testing.T) {
		err := svc.Update(context.Background(), permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleUser}}, dto.UpdateRoomRequest{}, "room-1")
		assert.Equal(t, failure.ForbiddenError, err)
	})
}

func TestRoomService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newRoomService(ctrl)

	t.Run("successful delete", func(t *testing.T) {
		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		m.cache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		m.cache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		assert.NoError(t, svc.Delete(context.Background(), adminActor(), "room-1"))
	})

	t.Run("unknown room", func(t *testing.T) {
		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(context.Background(), adminActor(), "missing")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
