package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"plek/infras/otel"
	"plek/infras/postgres"
	"plek/internal/domains/policy/model"
	"plek/shared/constant"
	gDto "plek/shared/dto"
	"plek/shared/logger"
	gRepo "plek/shared/repository"
)

type Policy interface {
	GetOrCreate(ctx context.Context) (model.InstitutePolicy, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.InstitutePolicy]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Policy {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.InstitutePolicy](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetOrCreate returns the singleton policy row, seeding the defaults on
// first access. The insert ignores a unique violation so two racing first
// reads both end up returning the stored row.
func (repo *repositoryImpl) GetOrCreate(ctx context.Context) (model.InstitutePolicy, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".policy.GetOrCreate")
	defer scope.End()

	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var policy model.InstitutePolicy

	err := repo.db.Read.GetContext(ctx, &policy, query, model.SingletonID)
	if err == nil {
		return policy, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return policy, fmt.Errorf("failed to get policy (%s): %w", model.EntityName, err)
	}

	policy = model.Default()

	insertQuery := fmt.Sprintf(`INSERT INTO %s
		(id, booking_opening_days, max_booking_duration_hours, min_gap_between_bookings_minutes,
		 working_hours_start, working_hours_end, allow_backdated_bookings, enable_auto_approval,
		 approval_window_hours, created_by, modified_by)
		VALUES (:id, :booking_opening_days, :max_booking_duration_hours, :min_gap_between_bookings_minutes,
		 :working_hours_start, :working_hours_end, :allow_backdated_bookings, :enable_auto_approval,
		 :approval_window_hours, :created_by, :modified_by)
		ON CONFLICT (id) DO NOTHING`, model.TableName)

	_, err = repo.db.Write.NamedExecContext(ctx, insertQuery, policy)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return policy, fmt.Errorf("failed to seed policy (%s): %w", model.EntityName, err)
	}

	err = repo.db.Write.GetContext(ctx, &policy, query, model.SingletonID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return policy, fmt.Errorf("failed to get policy (%s): %w", model.EntityName, err)
	}

	return policy, nil
}
