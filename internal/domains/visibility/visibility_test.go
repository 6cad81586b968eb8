package visibility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	bookingModel "plek/internal/domains/booking/model"
	roomModel "plek/internal/domains/room/model"
	"plek/internal/domains/visibility"
	"plek/permissions"
)

func strPtr(s string) *string {
	return &s
}

func roomRef(id string, buildingID, floorID *string, departmentIDs ...string) roomModel.Ref {
	return roomModel.Ref{
		ID:            id,
		BuildingID:    buildingID,
		FloorID:       floorID,
		DepartmentIDs: departmentIDs,
	}
}

func TestCanManageRoom(t *testing.T) {
	room := roomRef("room-1", strPtr("bld-1"), strPtr("flr-1"), "dept-1")

	tests := []struct {
		name  string
		actor permissions.Actor
		room  roomModel.Ref
		want  bool
	}{
		{
			name:  "admin manages everything",
			actor: permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleAdmin}},
			room:  room,
			want:  true,
		},
		{
			name:  "plain user manages nothing",
			actor: permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleUser}},
			room:  room,
			want:  false,
		},
		{
			name: "coordinator with the floor assignment",
			actor: permissions.Actor{
				ID:              "u-1",
				Roles:           []string{permissions.RoleCoordinator},
				ManagedFloorIDs: []string{"flr-1"},
			},
			room: room,
			want: true,
		},
		{
			name: "coordinator with the building assignment",
			actor: permissions.Actor{
				ID:                 "u-1",
				Roles:              []string{permissions.RoleCoordinator},
				ManagedBuildingIDs: []string{"bld-1"},
			},
			room: room,
			want: true,
		},
		{
			name: "coordinator with a department assignment",
			actor: permissions.Actor{
				ID:                   "u-1",
				Roles:                []string{permissions.RoleCoordinator},
				ManagedDepartmentIDs: []string{"dept-1"},
			},
			room: room,
			want: true,
		},
		{
			name: "coordinator with unrelated assignments",
			actor: permissions.Actor{
				ID:                   "u-1",
				Roles:                []string{permissions.RoleCoordinator},
				ManagedBuildingIDs:   []string{"bld-2"},
				ManagedFloorIDs:      []string{"flr-2"},
				ManagedDepartmentIDs: []string{"dept-2"},
			},
			room: room,
			want: false,
		},
		{
			name: "coordinator floor assignment on a room without a floor",
			actor: permissions.Actor{
				ID:              "u-1",
				Roles:           []string{permissions.RoleCoordinator},
				ManagedFloorIDs: []string{"flr-1"},
			},
			room: roomRef("room-2", strPtr("bld-1"), nil, "dept-1"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, visibility.CanManageRoom(tt.actor, tt.room))
		})
	}
}

func TestCanSeeRoom(t *testing.T) {
	tests := []struct {
		name  string
		actor permissions.Actor
		room  roomModel.Ref
		want  bool
	}{
		{
			name:  "admin sees every room",
			actor: permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleSuperAdmin}},
			room:  roomRef("room-1", strPtr("bld-1"), strPtr("flr-1")),
			want:  true,
		},
		{
			name:  "plain user has no oversight scope",
			actor: permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleUser}},
			room:  roomRef("room-1", strPtr("bld-1"), strPtr("flr-1")),
			want:  false,
		},
		{
			name: "coordinator sees rooms of a managed department",
			actor: permissions.Actor{
				ID:                   "u-1",
				Roles:                []string{permissions.RoleCoordinator},
				ManagedDepartmentIDs: []string{"dept-1"},
			},
			room: roomRef("room-1", strPtr("bld-1"), strPtr("flr-1"), "dept-1", "dept-2"),
			want: true,
		},
		{
			name: "department ownership shadows the floor assignment",
			actor: permissions.Actor{
				ID:              "u-1",
				Roles:           []string{permissions.RoleCoordinator},
				ManagedFloorIDs: []string{"flr-1"},
			},
			room: roomRef("room-1", strPtr("bld-1"), strPtr("flr-1"), "dept-1"),
			want: false,
		},
		{
			name: "floor assignment covers department-less rooms",
			actor: permissions.Actor{
				ID:              "u-1",
				Roles:           []string{permissions.RoleCoordinator},
				ManagedFloorIDs: []string{"flr-1"},
			},
			room: roomRef("room-1", strPtr("bld-1"), strPtr("flr-1")),
			want: true,
		},
		{
			name: "building assignment alone grants no oversight",
			actor: permissions.Actor{
				ID:                 "u-1",
				Roles:              []string{permissions.RoleCoordinator},
				ManagedBuildingIDs: []string{"bld-1"},
			},
			room: roomRef("room-1", strPtr("bld-1"), strPtr("flr-1")),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, visibility.CanSeeRoom(tt.actor, tt.room))
		})
	}
}

func TestVisibleRoomIDs(t *testing.T) {
	actor := permissions.Actor{
		ID:                   "u-1",
		Roles:                []string{permissions.RoleCoordinator},
		ManagedDepartmentIDs: []string{"dept-1"},
		ManagedFloorIDs:      []string{"flr-1"},
	}

	rooms := []roomModel.Ref{
		roomRef("room-1", strPtr("bld-1"), strPtr("flr-1"), "dept-1"),
		roomRef("room-2", strPtr("bld-1"), strPtr("flr-2"), "dept-2"),
		roomRef("room-3", strPtr("bld-1"), strPtr("flr-1")),
		roomRef("room-4", strPtr("bld-1"), strPtr("flr-2")),
	}

	assert.Equal(t, []string{"room-1", "room-3"}, visibility.VisibleRoomIDs(actor, rooms))
}

func TestVisibleRoomIDs_EmptyScope(t *testing.T) {
	actor := permissions.Actor{ID: "u-1", Roles: []string{permissions.RoleUser}}

	rooms := []roomModel.Ref{
		roomRef("room-1", strPtr("bld-1"), strPtr("flr-1")),
	}

	assert.Empty(t, visibility.VisibleRoomIDs(actor, rooms))
}

func TestCanSeeBooking(t *testing.T) {
	room := roomRef("room-1", strPtr("bld-1"), strPtr("flr-1"), "dept-1")
	booking := bookingModel.Booking{ID: "b-1", RoomID: "room-1", UserID: "owner-1"}

	owner := permissions.Actor{ID: "owner-1", Roles: []string{permissions.RoleUser}}
	assert.True(t, visibility.CanSeeBooking(owner, booking, room))

	stranger := permissions.Actor{ID: "other-1", Roles: []string{permissions.RoleUser}}
	assert.False(t, visibility.CanSeeBooking(stranger, booking, room))

	coordinator := permissions.Actor{
		ID:                   "coord-1",
		Roles:                []string{permissions.RoleCoordinator},
		ManagedDepartmentIDs: []string{"dept-1"},
	}
	assert.True(t, visibility.CanSeeBooking(coordinator, booking, room))

	admin := permissions.Actor{ID: "admin-1", Roles: []string{permissions.RoleAdmin}}
	assert.True(t, visibility.CanSeeBooking(admin, booking, room))
}

func TestCanDecideBooking(t *testing.T) {
	room := roomRef("room-1", strPtr("bld-1"), strPtr("flr-1"), "dept-1")

	// Management authority is wider than oversight: the floor assignment
	// counts even though the room belongs to an unmanaged department.
	coordinator := permissions.Actor{
		ID:              "coord-1",
		Roles:           []string{permissions.RoleCoordinator},
		ManagedFloorIDs: []string{"flr-1"},
	}
	assert.True(t, visibility.CanDecideBooking(coordinator, room))

	outOfScope := permissions.Actor{
		ID:              "coord-2",
		Roles:           []string{permissions.RoleCoordinator},
		ManagedFloorIDs: []string{"flr-2"},
	}
	assert.False(t, visibility.CanDecideBooking(outOfScope, room))

	// Plain users hold no approval capability at all.
	user := permissions.Actor{ID: "user-1", Roles: []string{permissions.RoleUser}}
	assert.False(t, visibility.CanDecideBooking(user, room))

	admin := permissions.Actor{ID: "admin-1", Roles: []string{permissions.RoleAdmin}}
	assert.True(t, visibility.CanDecideBooking(admin, room))
}
