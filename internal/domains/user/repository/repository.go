package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"plek/infras/otel"
	"plek/infras/postgres"
	"plek/internal/domains/user/model"
	"plek/shared/constant"
	gDto "plek/shared/dto"
	"plek/shared/logger"
	gRepo "plek/shared/repository"
)

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetRoles(ctx context.Context, userID string) ([]string, error)
	SetRoles(ctx context.Context, userID string, roles []string) error
	CountByRole(ctx context.Context, role string) (int, error)
	GetAssignments(ctx context.Context, table, userID string) ([]string, error)
	SetAssignments(ctx context.Context, table, userID string, targetIDs []string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetRoles(ctx context.Context, userID string) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.GetRoles")
	defer scope.End()

	query := fmt.Sprintf("SELECT role FROM %s WHERE user_id = $1 ORDER BY role", model.RoleTable)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var roles []string

	err := repo.db.Read.SelectContext(ctx, &roles, query, userID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get user roles (%s): %w", model.EntityName, err)
	}

	return roles, nil
}

// SetRoles replaces the user's role tags atomically.
func (repo *repositoryImpl) SetRoles(ctx context.Context, userID string, roles []string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.SetRoles")
	defer scope.End()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}
	defer tx.Rollback() //nolint:errcheck

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", model.RoleTable)

	_, err = tx.ExecContext(ctx, deleteQuery, userID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to clear user roles (%s): %w", model.EntityName, err)
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (user_id, role) VALUES ($1, $2)", model.RoleTable)
	scope.SetAttribute(constant.OtelQueryAttributeKey, insertQuery)

	for _, role := range roles {
		_, err = tx.ExecContext(ctx, insertQuery, userID, role)
		if err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return fmt.Errorf("failed to insert user role (%s): %w", model.EntityName, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to commit user roles (%s): %w", model.EntityName, err)
	}

	return nil
}

func (repo *repositoryImpl) CountByRole(ctx context.Context, role string) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.CountByRole")
	defer scope.End()

	query := fmt.Sprintf("SELECT COUNT(user_id) FROM %s WHERE role = $1", model.RoleTable)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int

	err := repo.db.Read.GetContext(ctx, &count, query, role)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count users by role (%s): %w", model.EntityName, err)
	}

	return count, nil
}

// GetAssignments returns the target ids a coordinator manages in one of the
// assignment tables (buildings, floors, or departments).
func (repo *repositoryImpl) GetAssignments(ctx context.Context, table, userID string) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.GetAssignments")
	defer scope.End()

	query := fmt.Sprintf("SELECT target_id FROM %s WHERE user_id = $1", table)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var ids []string

	err := repo.db.Read.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get assignments (%s): %w", model.EntityName, err)
	}

	return ids, nil
}

func (repo *repositoryImpl) SetAssignments(ctx context.Context, table, userID string, targetIDs []string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.SetAssignments")
	defer scope.End()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}
	defer tx.Rollback() //nolint:errcheck

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", table)

	_, err = tx.ExecContext(ctx, deleteQuery, userID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to clear assignments (%s): %w", model.EntityName, err)
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (user_id, target_id) VALUES ($1, $2)", table)
	scope.SetAttribute(constant.OtelQueryAttributeKey, insertQuery)

	for _, targetID := range targetIDs {
		_, err = tx.ExecContext(ctx, insertQuery, userID, targetID)
		if err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return fmt.Errorf("failed to insert assignment (%s): %w", model.EntityName, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to commit assignments (%s): %w", model.EntityName, err)
	}

	return nil
}
