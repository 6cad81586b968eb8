package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"slices"
	"strings"

	"plek/config"
	"plek/infras/otel"
	"plek/infras/s3"
	"plek/internal/domains/user/model"
	"plek/internal/domains/user/model/dto"
	"plek/internal/domains/user/repository"
	"plek/permissions"
	"plek/shared"
	"plek/shared/cache"
	"plek/shared/constant"
	gDto "plek/shared/dto"
	"plek/shared/failure"
	"plek/shared/password"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
	cacheCountUser  = "user:count"
	cacheGetActor   = "user:actor"
)

// roleRank orders the role ladder for promote/demote capability checks.
var roleRank = map[string]int{
	permissions.RoleUser:        0,
	permissions.RoleCoordinator: 1,
	permissions.RoleAdmin:       2,
	permissions.RoleSuperAdmin:  3,
}

var promoteCaps = map[string]permissions.Capability{
	permissions.RoleCoordinator: permissions.CapPromoteToCoordinator,
	permissions.RoleAdmin:       permissions.CapPromoteToAdmin,
	permissions.RoleSuperAdmin:  permissions.CapPromoteToSuperAdmin,
}

var demoteCaps = map[string]permissions.Capability{
	permissions.RoleUser:        permissions.CapDemoteToUser,
	permissions.RoleCoordinator: permissions.CapDemoteToCoordinator,
	permissions.RoleAdmin:       permissions.CapDemoteToAdmin,
}

type User interface {
	Create(ctx context.Context, actor permissions.Actor, req dto.CreateUserRequest) error
	LoadActor(ctx context.Context, userID string) (permissions.Actor, error)
	GetAll(ctx context.Context, actor permissions.Actor, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, actor permissions.Actor, req dto.UpdateUserRequest, id string) error
	UpdateProfile(ctx context.Context, actor permissions.Actor, req dto.UpdateProfileRequest) error
	ChangeRole(ctx context.Context, actor permissions.Actor, id string, req dto.ChangeRoleRequest) error
	SetAssignments(ctx context.Context, actor permissions.Actor, id string, req dto.SetAssignmentsRequest) error
	Delete(ctx context.Context, actor permissions.Actor, id string) error
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, actor permissions.Actor, req dto.CreateUserRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapModerateUser) {
		return failure.ForbiddenError
	}

	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    req.Email,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return failure.BadRequestFromString("email already registered") //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToModel(req.Email, hashedPassword)

	if err = s.repo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	// Every account starts with the base role.
	if err = s.repo.SetRoles(ctx, user.ID, []string{permissions.RoleUser}); err != nil {
		return err //nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
		shared.InvalidateCaches(c, s.cache, cacheCountUser)
	}()

	return nil
}

// LoadActor materializes the acting user for authorization: role tags plus
// the coordinator's management assignments. It is called on every
// authenticated request, so results are cached briefly.
func (s *serviceImpl) LoadActor(ctx context.Context, userID string) (actor permissions.Actor, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.LoadActor")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetActor, userID)

	err = s.cache.Get(ctx, cacheKey, &actor)
	if err == nil {
		return actor, nil
	}

	user, err := s.repo.Get(ctx, shared.FilterByID(userID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return actor, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty || !user.Active {
		return actor, failure.Unauthorized("account not found or deactivated") //nolint:wrapcheck
	}

	roles, err := s.repo.GetRoles(ctx, userID)
	if err != nil {
		return actor, err //nolint:wrapcheck
	}

	actor = permissions.Actor{
		ID:    user.ID,
		Email: user.Email,
		Roles: roles,
	}

	if slices.Contains(roles, permissions.RoleCoordinator) {
		if actor.ManagedBuildingIDs, err = s.repo.GetAssignments(ctx, model.ManagedBuildingTable, userID); err != nil {
			return actor, err //nolint:wrapcheck
		}

		if actor.ManagedFloorIDs, err = s.repo.GetAssignments(ctx, model.ManagedFloorTable, userID); err != nil {
			return actor, err //nolint:wrapcheck
		}

		if actor.ManagedDepartmentIDs, err = s.repo.GetAssignments(ctx, model.ManagedDeptTable, userID); err != nil {
			return actor, err //nolint:wrapcheck
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, actor, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save actor to cache")
		}
	}()

	return actor, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, actor permissions.Actor, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapViewAllUsers) {
		return res, failure.ForbiddenError
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	rolesByUser := make(map[string][]string, len(models))

	for _, user := range models {
		roles, rolesErr := s.repo.GetRoles(ctx, user.ID)
		if rolesErr != nil {
			return res, rolesErr //nolint:wrapcheck
		}

		rolesByUser[user.ID] = roles
	}

	res.FromModels(models, rolesByUser, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save users to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for user")

		return res, nil
	}

	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, failure.NotFound("user not found") //nolint:wrapcheck
	}

	roles, err := s.repo.GetRoles(ctx, id)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(user, roles)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save user to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, actor permissions.Actor, req dto.UpdateUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateUserRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	if !permissions.Authorize(actor, permissions.CapModerateUser) {
		return failure.ForbiddenError
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return failure.NotFound("user not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, actor.Email)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	s.invalidateUser(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, actor permissions.Actor, req dto.UpdateProfileRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.UpdateProfile")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(actor.ID, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("user not found") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(dto.UpdateProfileRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, actor.Email)

	if req.Image != nil {
		imageURL, uploadErr := s.uploadProfileImage(ctx, req.ImageFile, req.Image)
		if uploadErr != nil {
			return uploadErr
		}

		updatedFields[model.FieldProfileImage] = imageURL

		if current.ProfileImage != nil && *current.ProfileImage != constant.Empty {
			bucketName := s.cfg.External.S3.BucketName

			oldObjectName := s.s3.GetObjectNameFromURL(bucketName, *current.ProfileImage)
			if oldObjectName != constant.Empty {
				_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, oldObjectName)
			}
		}
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update profile")

		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.invalidateUser(ctx, actor.ID)

	return nil
}

// ChangeRole moves a user to a target role, replacing their current tags.
// The last superadmin can never be demoted: the platform must always keep
// one account able to manage policies and roles.
func (s *serviceImpl) ChangeRole(ctx context.Context, actor permissions.Actor, id string, req dto.ChangeRoleRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.ChangeRole")
	defer scope.End()
	defer scope.TraceIfError(err)

	currentRoles, err := s.repo.GetRoles(ctx, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(currentRoles) == 0 {
		return failure.NotFound("user not found") //nolint:wrapcheck
	}

	currentTop := topRole(currentRoles)

	if err = s.authorizeRoleChange(actor, currentTop, req.Role); err != nil {
		return err
	}

	if currentTop == permissions.RoleSuperAdmin && req.Role != permissions.RoleSuperAdmin {
		count, countErr := s.repo.CountByRole(ctx, permissions.RoleSuperAdmin)
		if countErr != nil {
			return countErr //nolint:wrapcheck
		}

		if count <= 1 {
			return failure.Conflict("cannot demote the last superadmin") //nolint:wrapcheck
		}
	}

	if err = s.repo.SetRoles(ctx, id, rolesForLadder(req.Role)); err != nil {
		return err //nolint:wrapcheck
	}

	s.invalidateUser(ctx, id)

	return nil
}

func (s *serviceImpl) SetAssignments(ctx context.Context, actor permissions.Actor, id string, req dto.SetAssignmentsRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.SetAssignments")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapModerateUser) && !permissions.Authorize(actor, permissions.CapPromoteToCoordinator) {
		return failure.ForbiddenError
	}

	roles, err := s.repo.GetRoles(ctx, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !slices.Contains(roles, permissions.RoleCoordinator) {
		return failure.BadRequestFromString("assignments require the coordinator role") //nolint:wrapcheck
	}

	if err = s.repo.SetAssignments(ctx, model.ManagedBuildingTable, id, req.BuildingIDs); err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.repo.SetAssignments(ctx, model.ManagedFloorTable, id, req.FloorIDs); err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.repo.SetAssignments(ctx, model.ManagedDeptTable, id, req.DepartmentIDs); err != nil {
		return err //nolint:wrapcheck
	}

	s.invalidateUser(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, actor permissions.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapModerateUser) {
		return failure.ForbiddenError
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return failure.NotFound("user not found") //nolint:wrapcheck
	}

	// Deactivation, not a hard delete: bookings keep their owner reference.
	if err = s.repo.Update(ctx, map[string]any{model.FieldActive: false}, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to deactivate user")

		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.invalidateUser(ctx, id)

	return nil
}

func (s *serviceImpl) authorizeRoleChange(actor permissions.Actor, currentTop, target string) error {
	currentRank, ok := roleRank[currentTop]
	if !ok {
		return failure.BadRequestFromString("unknown current role") //nolint:wrapcheck
	}

	targetRank, ok := roleRank[target]
	if !ok {
		return failure.BadRequestFromString("unknown target role") //nolint:wrapcheck
	}

	if currentRank == targetRank {
		return failure.BadRequestFromString("user already holds this role") //nolint:wrapcheck
	}

	var capability permissions.Capability
	if targetRank > currentRank {
		capability = promoteCaps[target]
	} else {
		capability = demoteCaps[target]
	}

	if !permissions.Authorize(actor, capability) {
		return failure.ForbiddenError
	}

	return nil
}

func (s *serviceImpl) invalidateUser(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete user from cache")
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetActor, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete actor from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
		shared.InvalidateCaches(c, s.cache, cacheCountUser)
	}()
}

func (s *serviceImpl) uploadProfileImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	filename := uuid.NewString()

	parts := strings.Split(header.Filename, ".")
	if len(parts) > 1 {
		filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
	}

	url, err := s.s3.UploadFile(ctx, s.cfg.External.S3.BucketName, model.EntityName, file, header, filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload profile image to S3")

		return constant.Empty, fmt.Errorf("failed to upload profile image: %w", err)
	}

	return url, nil
}

// topRole returns the highest tag a user holds.
func topRole(roles []string) string {
	top := permissions.RoleUser

	for _, role := range roles {
		if roleRank[role] > roleRank[top] {
			top = role
		}
	}

	return top
}

// rolesForLadder expands a target role into the cumulative tag set, so a
// coordinator keeps the base user tag and an admin keeps both below it.
func rolesForLadder(target string) []string {
	ladder := []string{permissions.RoleUser, permissions.RoleCoordinator, permissions.RoleAdmin, permissions.RoleSuperAdmin}

	rank := roleRank[target]
	roles := make([]string, 0, rank+1)

	for _, role := range ladder {
		if roleRank[role] <= rank {
			roles = append(roles, role)
		}
	}

	return roles
}
