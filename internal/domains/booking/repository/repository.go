package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"plek/infras/otel"
	"plek/infras/postgres"
	"plek/internal/domains/booking/model"
	"plek/shared/constant"
	gDto "plek/shared/dto"
	"plek/shared/logger"
	gRepo "plek/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindConflictCandidates(ctx context.Context, sqltx *sqlx.Tx, roomID string, start, end time.Time, gap time.Duration) ([]model.Booking, error)
	LockRoom(ctx context.Context, sqltx *sqlx.Tx, roomID string) error
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	return tx, nil
}

// FindConflictCandidates loads the room's pending and approved bookings whose
// window touches [start-gap, end+gap). The expansion by gap lets one query
// feed the overlap, minimum-gap, and duplicate-pending checks; the caller
// applies the precise rules.
func (repo *repositoryImpl) FindConflictCandidates(ctx context.Context, sqltx *sqlx.Tx, roomID string, start, end time.Time, gap time.Duration) ([]model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindConflictCandidates")
	defer scope.End()

	query := fmt.Sprintf(`SELECT * FROM %s
		WHERE room_id = :room_id
		AND status IN (:status_approved, :status_pending)
		AND start_time < :window_end
		AND end_time > :window_start`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"room_id":         roomID,
		"status_approved": model.StatusApproved,
		"status_pending":  model.StatusPending,
		"window_start":    start.Add(-gap),
		"window_end":      end.Add(gap),
	}

	prepare, err := sqltx.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	var bookings []model.Booking

	err = prepare.SelectContext(ctx, &bookings, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to find conflict candidates (%s): %w", model.EntityName, err)
	}

	return bookings, nil
}

// LockRoom takes the room's row lock for the duration of the transaction so
// concurrent bookings for the same room serialize before validation.
func (repo *repositoryImpl) LockRoom(ctx context.Context, sqltx *sqlx.Tx, roomID string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockRoom")
	defer scope.End()

	query := "SELECT id FROM rooms WHERE id = $1 FOR UPDATE"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var id string

	err := sqltx.GetContext(ctx, &id, query, roomID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to lock room (%s): %w", model.EntityName, err)
	}

	return nil
}
