package dto

import (
	"plek/internal/domains/building/model"
	"plek/shared"
	gDto "plek/shared/dto"
	gModel "plek/shared/model"
	"plek/shared/timezone"

	"github.com/google/uuid"
)

type CreateBuildingRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Address string `json:"address" validate:"omitempty,max=255"`
	Active  *bool  `json:"active"  validate:"omitempty"`
}

func (c *CreateBuildingRequest) ToModel(user string) model.Building {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Building{
		ID:      uuid.NewString(),
		Name:    c.Name,
		Address: c.Address,
		Active:  active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateBuildingRequest struct {
	Name    string `db:"name"    json:"name"    validate:"omitempty,max=100"`
	Address string `db:"address" json:"address" validate:"omitempty,max=255"`
	Active  *bool  `db:"active"  json:"active"  validate:"omitempty"`
}

type CreateFloorRequest struct {
	BuildingID string `json:"building_id" validate:"required,uuid"`
	Number     int    `json:"number"      validate:"required"`
	Name       string `json:"name"        validate:"omitempty,max=100"`
}

func (c *CreateFloorRequest) ToModel(user string) model.Floor {
	return model.Floor{
		ID:         uuid.NewString(),
		BuildingID: c.BuildingID,
		Number:     c.Number,
		Name:       c.Name,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateFloorRequest struct {
	Number *int   `db:"number" json:"number" validate:"omitempty"`
	Name   string `db:"name"   json:"name"   validate:"omitempty,max=100"`
}

type BuildingResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Active  bool   `json:"active"`
	gDto.Metadata
}

func (r *BuildingResponse) FromModel(model model.Building) {
	r.ID = model.ID
	r.Name = model.Name
	r.Address = model.Address
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type FloorResponse struct {
	ID         string `json:"id"`
	BuildingID string `json:"building_id"`
	Number     int    `json:"number"`
	Name       string `json:"name"`
	gDto.Metadata
}

func (r *FloorResponse) FromModel(model model.Floor) {
	r.ID = model.ID
	r.BuildingID = model.BuildingID
	r.Number = model.Number
	r.Name = model.Name
	r.Metadata.FromModel(model.Metadata)
}

type GetBuildingsResponse struct {
	Buildings []BuildingResponse `json:"buildings"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetBuildingsResponse) FromModels(models []model.Building, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Buildings = make([]BuildingResponse, len(models))
	for i, mod := range models {
		r.Buildings[i].FromModel(mod)
	}
}

type GetFloorsResponse struct {
	Floors    []FloorResponse `json:"floors"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetFloorsResponse) FromModels(models []model.Floor, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Floors = make([]FloorResponse, len(models))
	for i, mod := range models {
		r.Floors[i].FromModel(mod)
	}
}
