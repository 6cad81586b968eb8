// Package visibility holds the hierarchy scoping rules: which rooms and
// bookings a coordinator's management assignments let them see or act on.
// The rules are pure functions over materialized room placements so the
// service layer stays the only place that touches storage.
package visibility

import (
	"slices"

	bookingModel "plek/internal/domains/booking/model"
	roomModel "plek/internal/domains/room/model"
	"plek/permissions"
)

// CanManageRoom reports whether the actor holds management authority over
// the room. Admins manage everything; a coordinator manages a room when they
// manage its floor, its building, or any department the room belongs to.
func CanManageRoom(actor permissions.Actor, room roomModel.Ref) bool {
	if actor.IsAdmin() {
		return true
	}

	if !actor.HasRole(permissions.RoleCoordinator) {
		return false
	}

	if room.FloorID != nil && slices.Contains(actor.ManagedFloorIDs, *room.FloorID) {
		return true
	}

	if room.BuildingID != nil && slices.Contains(actor.ManagedBuildingIDs, *room.BuildingID) {
		return true
	}

	for _, dept := range room.DepartmentIDs {
		if slices.Contains(actor.ManagedDepartmentIDs, dept) {
			return true
		}
	}

	return false
}

// CanSeeRoom reports whether the room falls inside the actor's booking
// oversight scope. Admins see every room. A coordinator sees rooms owned by
// a department they manage, plus department-less rooms on floors they
// manage. Plain users see no oversight scope at all; room browsing for
// booking purposes is open to everyone and does not go through here.
func CanSeeRoom(actor permissions.Actor, room roomModel.Ref) bool {
	if actor.IsAdmin() {
		return true
	}

	if !actor.HasRole(permissions.RoleCoordinator) {
		return false
	}

	for _, dept := range room.DepartmentIDs {
		if slices.Contains(actor.ManagedDepartmentIDs, dept) {
			return true
		}
	}

	if len(room.DepartmentIDs) == 0 && room.FloorID != nil &&
		slices.Contains(actor.ManagedFloorIDs, *room.FloorID) {
		return true
	}

	return false
}

// VisibleRoomIDs filters rooms down to the ids inside the actor's oversight
// scope, preserving order.
func VisibleRoomIDs(actor permissions.Actor, rooms []roomModel.Ref) []string {
	ids := make([]string, 0, len(rooms))

	for _, room := range rooms {
		if CanSeeRoom(actor, room) {
			ids = append(ids, room.ID)
		}
	}

	return ids
}

// CanSeeBooking reports whether the actor may read the booking. Owners
// always see their own; everything else reduces to room oversight scope.
func CanSeeBooking(actor permissions.Actor, booking bookingModel.Booking, room roomModel.Ref) bool {
	if booking.UserID == actor.ID {
		return true
	}

	return CanSeeRoom(actor, room)
}

// CanDecideBooking reports whether the actor may approve or reject the
// booking. Deciding needs management authority over the room, which is wider
// than oversight visibility: a floor or building assignment counts even when
// the room belongs to departments the coordinator does not manage.
func CanDecideBooking(actor permissions.Actor, room roomModel.Ref) bool {
	if !permissions.Authorize(actor, permissions.CapApproveBooking) {
		return false
	}

	return CanManageRoom(actor, room)
}
