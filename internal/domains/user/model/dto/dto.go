package dto

import (
	"mime/multipart"

	"plek/internal/domains/user/model"
	"plek/permissions"
	"plek/shared"
	gDto "plek/shared/dto"
	gModel "plek/shared/model"
	"plek/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=8"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name"  validate:"omitempty,max=100"`
	IsVerified *bool  `json:"is_verified,omitempty"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	isVerified := false
	if r.IsVerified != nil {
		isVerified = *r.IsVerified
	}

	return model.User{
		ID:         uuid.NewString(),
		Email:      r.Email,
		Password:   hashedPassword,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		IsVerified: isVerified,
		Active:     true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UserResponse struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Roles        []string `json:"roles"`
	ProfileImage *string  `json:"profile_image,omitempty"`
	IsVerified   bool     `json:"is_verified"`
	LastLogin    *string  `json:"last_login,omitempty"`
	Active       bool     `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User, roles []string) {
	r.ID = model.ID
	r.Email = model.Email
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.Roles = roles
	r.ProfileImage = model.ProfileImage
	r.IsVerified = model.IsVerified
	r.LastLogin = model.LastLogin
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type UpdateUserRequest struct {
	FirstName  string `db:"first_name" json:"first_name,omitempty"  validate:"omitempty,max=100"`
	LastName   string `db:"last_name"  json:"last_name,omitempty"   validate:"omitempty,max=100"`
	IsVerified *bool  `db:"is_verified" json:"is_verified,omitempty" validate:"omitempty"`
	Active     *bool  `db:"active"     json:"active,omitempty"      validate:"omitempty"`
}

type UpdateProfileRequest struct {
	FirstName string                `db:"first_name" json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  string                `db:"last_name"  json:"last_name,omitempty"  validate:"omitempty,max=100"`
	Image     *multipart.FileHeader `json:"image" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile multipart.File        `json:"-"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user coordinator admin superadmin"`
}

type SetAssignmentsRequest struct {
	BuildingIDs   []string `json:"building_ids"   validate:"omitempty,dive,uuid"`
	FloorIDs      []string `json:"floor_ids"      validate:"omitempty,dive,uuid"`
	DepartmentIDs []string `json:"department_ids" validate:"omitempty,dive,uuid"`
}

type ActorResponse struct {
	ID                   string   `json:"id"`
	Email                string   `json:"email"`
	Roles                []string `json:"roles"`
	ManagedBuildingIDs   []string `json:"managed_building_ids,omitempty"`
	ManagedFloorIDs      []string `json:"managed_floor_ids,omitempty"`
	ManagedDepartmentIDs []string `json:"managed_department_ids,omitempty"`
}

func (r *ActorResponse) FromActor(actor permissions.Actor) {
	r.ID = actor.ID
	r.Email = actor.Email
	r.Roles = actor.Roles
	r.ManagedBuildingIDs = actor.ManagedBuildingIDs
	r.ManagedFloorIDs = actor.ManagedFloorIDs
	r.ManagedDepartmentIDs = actor.ManagedDepartmentIDs
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, rolesByUser map[string][]string, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod, rolesByUser[mod.ID])
	}
}
