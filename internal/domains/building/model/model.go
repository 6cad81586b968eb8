package model

import "plek/shared/model"

const (
	TableName  = "buildings"
	EntityName = "building"

	FieldID      = "id"
	FieldName    = "name"
	FieldAddress = "address"
	FieldActive  = "active"

	FloorTableName  = "floors"
	FloorEntityName = "floor"

	FloorFieldID         = "id"
	FloorFieldBuildingID = "building_id"
	FloorFieldNumber     = "number"
	FloorFieldName       = "name"
)

type Building struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Address string `db:"address"`
	Active  bool   `db:"active"`
	model.Metadata
}

type Floor struct {
	ID         string `db:"id"`
	BuildingID string `db:"building_id"`
	Number     int    `db:"number"`
	Name       string `db:"name"`
	model.Metadata
}
