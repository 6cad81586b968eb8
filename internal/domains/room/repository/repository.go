package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"plek/infras/otel"
	"plek/infras/postgres"
	"plek/internal/domains/room/model"
	"plek/shared/constant"
	gDto "plek/shared/dto"
	"plek/shared/logger"
	gRepo "plek/shared/repository"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetRef(ctx context.Context, roomID string) (model.Ref, error)
	GetRefs(ctx context.Context) ([]model.Ref, error)
	GetDepartmentIDs(ctx context.Context, roomID string) ([]string, error)
	GetAmenityIDs(ctx context.Context, roomID string) ([]string, error)
	SetDepartments(ctx context.Context, roomID string, departmentIDs []string) error
	SetAmenities(ctx context.Context, roomID string, amenityIDs []string) error
	FindAvailable(ctx context.Context, params gDto.QueryParams, start, end time.Time) ([]model.Room, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetRef(ctx context.Context, roomID string) (model.Ref, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetRef")
	defer scope.End()

	var room model.Room

	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err := repo.db.Read.GetContext(ctx, &room, query, roomID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model.Ref{}, fmt.Errorf("failed to get room placement (%s): %w", model.EntityName, err)
	}

	departments, err := repo.GetDepartmentIDs(ctx, roomID)
	if err != nil {
		return model.Ref{}, err
	}

	return room.Ref(departments), nil
}

// GetRefs loads the placement of every room in one round trip per table,
// grouping department links in memory.
func (repo *repositoryImpl) GetRefs(ctx context.Context) ([]model.Ref, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetRefs")
	defer scope.End()

	var rooms []model.Room

	query := fmt.Sprintf("SELECT * FROM %s ORDER BY name", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err := repo.db.Read.SelectContext(ctx, &rooms, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get room placements (%s): %w", model.EntityName, err)
	}

	type link struct {
		RoomID       string `db:"room_id"`
		DepartmentID string `db:"department_id"`
	}

	var links []link

	linkQuery := fmt.Sprintf("SELECT room_id, department_id FROM %s", model.DepartmentJoinTable)

	err = repo.db.Read.SelectContext(ctx, &links, linkQuery)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get room department links (%s): %w", model.EntityName, err)
	}

	byRoom := map[string][]string{}
	for _, l := range links {
		byRoom[l.RoomID] = append(byRoom[l.RoomID], l.DepartmentID)
	}

	refs := make([]model.Ref, len(rooms))
	for i, room := range rooms {
		refs[i] = room.Ref(byRoom[room.ID])
	}

	return refs, nil
}

func (repo *repositoryImpl) GetDepartmentIDs(ctx context.Context, roomID string) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetDepartmentIDs")
	defer scope.End()

	return repo.getLinkedIDs(ctx, scope, model.DepartmentJoinTable, "department_id", roomID)
}

func (repo *repositoryImpl) GetAmenityIDs(ctx context.Context, roomID string) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetAmenityIDs")
	defer scope.End()

	return repo.getLinkedIDs(ctx, scope, model.AmenityJoinTable, "amenity_id", roomID)
}

func (repo *repositoryImpl) getLinkedIDs(ctx context.Context, scope otel.Scope, table, column, roomID string) ([]string, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE room_id = $1", column, table)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var ids []string

	err := repo.db.Read.SelectContext(ctx, &ids, query, roomID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get linked ids (%s): %w", model.EntityName, err)
	}

	return ids, nil
}

func (repo *repositoryImpl) SetDepartments(ctx context.Context, roomID string, departmentIDs []string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.SetDepartments")
	defer scope.End()

	return repo.replaceLinks(ctx, scope, model.DepartmentJoinTable, "department_id", roomID, departmentIDs)
}

func (repo *repositoryImpl) SetAmenities(ctx context.Context, roomID string, amenityIDs []string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.SetAmenities")
	defer scope.End()

	return repo.replaceLinks(ctx, scope, model.AmenityJoinTable, "amenity_id", roomID, amenityIDs)
}

// replaceLinks swaps the full link set for a room in one transaction.
func (repo *repositoryImpl) replaceLinks(ctx context.Context, scope otel.Scope, table, column, roomID string, ids []string) error {
	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}
	defer tx.Rollback() //nolint:errcheck

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE room_id = $1", table)

	_, err = tx.ExecContext(ctx, deleteQuery, roomID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to clear links (%s): %w", model.EntityName, err)
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (room_id, %s) VALUES ($1, $2)", table, column)
	scope.SetAttribute(constant.OtelQueryAttributeKey, insertQuery)

	for _, id := range ids {
		_, err = tx.ExecContext(ctx, insertQuery, roomID, id)
		if err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return fmt.Errorf("failed to insert link (%s): %w", model.EntityName, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to commit links (%s): %w", model.EntityName, err)
	}

	return nil
}

// FindAvailable returns available rooms without an approved booking
// overlapping [start, end).
func (repo *repositoryImpl) FindAvailable(ctx context.Context, params gDto.QueryParams, start, end time.Time) ([]model.Room, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.FindAvailable")
	defer scope.End()

	query := fmt.Sprintf(`SELECT * FROM %s r
		WHERE r.available = TRUE
		AND NOT EXISTS (
			SELECT 1 FROM room_bookings b
			WHERE b.room_id = r.id
			AND b.status = :status_approved
			AND b.start_time < :end_time
			AND b.end_time > :start_time
		)`, model.TableName)

	args := map[string]any{
		"status_approved": "approved",
		"start_time":      start,
		"end_time":        end,
	}

	if params.Page > 0 && params.Limit > 0 {
		args["limit"] = params.Limit
		args["offset"] = (params.Page - 1) * params.Limit
		query += " ORDER BY r.name LIMIT :limit OFFSET :offset"
	} else {
		query += " ORDER BY r.name"
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rooms []model.Room

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &rooms, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to find available rooms (%s): %w", model.EntityName, err)
	}

	return rooms, nil
}
