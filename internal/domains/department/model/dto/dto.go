package dto

import (
	"plek/internal/domains/department/model"
	"plek/shared"
	gDto "plek/shared/dto"
	gModel "plek/shared/model"
	"plek/shared/timezone"

	"github.com/google/uuid"
)

type CreateDepartmentRequest struct {
	Name   string `json:"name"   validate:"required,max=100"`
	Code   string `json:"code"   validate:"required,max=20"`
	Active *bool  `json:"active" validate:"omitempty"`
}

func (c *CreateDepartmentRequest) ToModel(user string) model.Department {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Department{
		ID:     uuid.NewString(),
		Name:   c.Name,
		Code:   c.Code,
		Active: active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateDepartmentRequest struct {
	Name   string `db:"name"   json:"name"   validate:"omitempty,max=100"`
	Code   string `db:"code"   json:"code"   validate:"omitempty,max=20"`
	Active *bool  `db:"active" json:"active" validate:"omitempty"`
}

type DepartmentResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Active bool   `json:"active"`
	gDto.Metadata
}

func (r *DepartmentResponse) FromModel(model model.Department) {
	r.ID = model.ID
	r.Name = model.Name
	r.Code = model.Code
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetDepartmentsResponse struct {
	Departments []DepartmentResponse `json:"departments"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetDepartmentsResponse) FromModels(models []model.Department, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Departments = make([]DepartmentResponse, len(models))
	for i, mod := range models {
		r.Departments[i].FromModel(mod)
	}
}
