package dto

import (
	"mime/multipart"

	"plek/internal/domains/room/model"
	"plek/shared"
	gDto "plek/shared/dto"
	gModel "plek/shared/model"
	"plek/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name          string                `json:"name"           validate:"required,max=100"`
	Capacity      int                   `json:"capacity"       validate:"omitempty,min=0"`
	BuildingID    *string               `json:"building_id"    validate:"omitempty,uuid"`
	FloorID       *string               `json:"floor_id"       validate:"omitempty,uuid"`
	DepartmentIDs []string              `json:"department_ids" validate:"omitempty,dive,uuid"`
	AmenityIDs    []string              `json:"amenity_ids"    validate:"omitempty,dive,uuid"`
	Image         *multipart.FileHeader `json:"image"          validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
	Available     *bool                 `json:"available"      validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	available := true
	if c.Available != nil {
		available = *c.Available
	}

	return model.Room{
		ID:         uuid.NewString(),
		Name:       c.Name,
		Capacity:   c.Capacity,
		Image:      imageURL,
		Available:  available,
		BuildingID: c.BuildingID,
		FloorID:    c.FloorID,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name          string                `db:"name"        json:"name"           validate:"omitempty,max=100"`
	Capacity      *int                  `db:"capacity"    json:"capacity"       validate:"omitempty,min=0"`
	BuildingID    *string               `db:"building_id" json:"building_id"    validate:"omitempty,uuid"`
	FloorID       *string               `db:"floor_id"    json:"floor_id"       validate:"omitempty,uuid"`
	DepartmentIDs []string              `json:"department_ids" validate:"omitempty,dive,uuid"`
	AmenityIDs    []string              `json:"amenity_ids"    validate:"omitempty,dive,uuid"`
	Image         *multipart.FileHeader `json:"image"          validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
	Available     *bool                 `db:"available"   json:"available"      validate:"omitempty"`
}

type FindAvailableRoomsRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time"   validate:"required"`
}

type RoomResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Capacity      int      `json:"capacity"`
	Image         string   `json:"image"`
	Available     bool     `json:"available"`
	BuildingID    *string  `json:"building_id,omitempty"`
	FloorID       *string  `json:"floor_id,omitempty"`
	DepartmentIDs []string `json:"department_ids,omitempty"`
	AmenityIDs    []string `json:"amenity_ids,omitempty"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Capacity = model.Capacity
	r.Image = model.Image
	r.Available = model.Available
	r.BuildingID = model.BuildingID
	r.FloorID = model.FloorID
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
