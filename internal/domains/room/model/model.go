package model

import "plek/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID         = "id"
	FieldName       = "name"
	FieldCapacity   = "capacity"
	FieldImage      = "image"
	FieldAvailable  = "available"
	FieldBuildingID = "building_id"
	FieldFloorID    = "floor_id"

	DepartmentJoinTable = "room_departments"
	AmenityJoinTable    = "room_amenities"
)

type Room struct {
	ID         string  `db:"id"`
	Name       string  `db:"name"`
	Capacity   int     `db:"capacity"`
	Image      string  `db:"image"`
	Available  bool    `db:"available"`
	BuildingID *string `db:"building_id"`
	FloorID    *string `db:"floor_id"`
	model.Metadata
}

// Ref is the placement of a room in the institute hierarchy, with its
// department links materialized. Visibility rules operate on Refs so they
// never touch the database themselves.
type Ref struct {
	ID            string
	BuildingID    *string
	FloorID       *string
	DepartmentIDs []string
}

func (r Room) Ref(departmentIDs []string) Ref {
	return Ref{
		ID:            r.ID,
		BuildingID:    r.BuildingID,
		FloorID:       r.FloorID,
		DepartmentIDs: departmentIDs,
	}
}
