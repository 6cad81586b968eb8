package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"plek/infras/otel"
	"plek/infras/postgres"
	"plek/internal/domains/building/model"
	gDto "plek/shared/dto"
	gRepo "plek/shared/repository"
)

type Building interface {
	Insert(ctx context.Context, model model.Building) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Building, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Building, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type Floor interface {
	Insert(ctx context.Context, model model.Floor) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Floor, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Floor, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type buildingImpl struct {
	gRepo.Repository[model.Building]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Building {
	return &buildingImpl{
		Repository: gRepo.NewRepository[model.Building](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type floorImpl struct {
	gRepo.Repository[model.Floor]
	db   *postgres.Connection
	otel otel.Otel
}

func NewFloor(db *postgres.Connection, otel otel.Otel) Floor {
	return &floorImpl{
		Repository: gRepo.NewRepository[model.Floor](model.FloorEntityName, model.FloorTableName, model.FloorFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
