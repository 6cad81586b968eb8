package model

import "plek/shared/model"

const (
	TableName  = "departments"
	EntityName = "department"

	FieldID     = "id"
	FieldName   = "name"
	FieldCode   = "code"
	FieldActive = "active"
)

type Department struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Code   string `db:"code"`
	Active bool   `db:"active"`
	model.Metadata
}
