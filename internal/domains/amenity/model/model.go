package model

import "plek/shared/model"

const (
	TableName  = "amenities"
	EntityName = "amenity"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
)

type Amenity struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	model.Metadata
}
