package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plek/config"
	"plek/infras/otel"
	"plek/internal/domains/audit"
	"plek/internal/domains/booking/model"
	"plek/internal/domains/booking/model/dto"
	"plek/internal/domains/booking/repository"
	"plek/internal/domains/booking/state"
	"plek/internal/domains/booking/validation"
	"plek/internal/domains/notifier"
	policyModel "plek/internal/domains/policy/model"
	policyService "plek/internal/domains/policy/service"
	roomModel "plek/internal/domains/room/model"
	roomRepo "plek/internal/domains/room/repository"
	"plek/internal/domains/visibility"
	"plek/permissions"
	"plek/shared"
	"plek/shared/cache"
	"plek/shared/constant"
	gDto "plek/shared/dto"
	"plek/shared/failure"
	"plek/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

// Postgres codes treated as transient contention: serialization_failure and
// lock_not_available. The write is retried once before giving up.
const (
	pqSerializationFailure = "40001"
	pqLockNotAvailable     = "55P03"
)

type Booking interface {
	Create(ctx context.Context, actor permissions.Actor, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, actor permissions.Actor, id string) (dto.BookingResponse, error)
	ListOwn(ctx context.Context, actor permissions.Actor, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	ListScoped(ctx context.Context, actor permissions.Actor, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	ListAll(ctx context.Context, actor permissions.Actor, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Update(ctx context.Context, actor permissions.Actor, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, actor permissions.Actor, id string, req dto.CancelBookingRequest) (dto.BookingResponse, error)
	Decide(ctx context.Context, actor permissions.Actor, id string, req dto.DecideBookingRequest) (dto.BookingResponse, error)
	Override(ctx context.Context, actor permissions.Actor, id string, req dto.OverrideBookingRequest) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	roomRepo  roomRepo.Room
	policySvc policyService.Policy
	validator *validation.Validator
	auditor   audit.Recorder
	notifier  notifier.Notifier
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	policySvc policyService.Policy,
	auditor audit.Recorder,
	notif notifier.Notifier,
	cfg *config.Config,
	redisCache cache.RedisCache,
	otl otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		policySvc: policySvc,
		validator: validation.New(timezone.GetLocation(), cfg.App.StrictWorkingHours),
		auditor:   auditor,
		notifier:  notif,
		cfg:       cfg,
		cache:     redisCache,
		otel:      otl,
	}
}

func (s *serviceImpl) Create(ctx context.Context, actor permissions.Actor, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapCreateBooking) {
		return res, failure.ForbiddenError
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	if !room.Available {
		return res, failure.BadRequestFromString("room is not available for booking") //nolint:wrapcheck
	}

	booking, err := req.ToModel(actor.ID)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) //nolint:wrapcheck
	}

	policy, err := s.policySvc.GetModel(ctx)
	if err != nil {
		return res, err
	}

	now := timezone.Now()
	if policy.EnableAutoApproval && booking.StartTime.Sub(now) <= time.Duration(policy.ApprovalWindowHours)*time.Hour {
		booking.Status = model.StatusApproved
	}

	err = s.withRetry(func() error {
		return s.admitAndWrite(ctx, policy, booking, validation.Proposal{
			RoomID:      booking.RoomID,
			RequesterID: booking.UserID,
			Start:       booking.StartTime,
			End:         booking.EndTime,
		}, func(tx *sqlx.Tx) error {
			return s.repo.InsertTx(ctx, tx, booking)
		})
	})
	if err != nil {
		return res, err
	}

	s.afterWrite(ctx, booking, audit.Entry{
		Action:     "booking.create",
		EntityType: model.EntityName,
		EntityID:   booking.ID,
		ActorID:    actor.ID,
		Detail:     map[string]any{"status": string(booking.Status)},
	}, notifier.Event{
		Type:      notifier.EventBookingCreated,
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		UserID:    booking.UserID,
		Status:    string(booking.Status),
		StartTime: notifier.FormatEventTime(booking.StartTime),
		EndTime:   notifier.FormatEventTime(booking.EndTime),
	})

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, actor permissions.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	ref, err := s.roomRepo.GetRef(ctx, booking.RoomID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if !visibility.CanSeeBooking(actor, booking, ref) {
		return res, failure.ResourceRestrictedError
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) ListOwn(ctx context.Context, actor permissions.Actor, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ListOwn")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapViewOwnBooking) {
		return res, failure.ForbiddenError
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    actor.ID,
				Table:    model.TableName,
			},
		},
	}

	return s.list(ctx, params, filter)
}

// ListScoped returns the bookings a coordinator oversees: every booking on
// rooms inside their management scope.
func (s *serviceImpl) ListScoped(ctx context.Context, actor permissions.Actor, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ListScoped")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapViewFloorDeptBookings) {
		return res, failure.ForbiddenError
	}

	refs, err := s.roomRepo.GetRefs(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	roomIDs := visibility.VisibleRoomIDs(actor, refs)
	if len(roomIDs) == 0 {
		res.Bookings = []dto.BookingResponse{}
		res.TotalPage = 1

		return res, nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Operator: gDto.FilterOperatorIn,
				Value:    roomIDs,
				Table:    model.TableName,
			},
		},
	}

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) ListAll(ctx context.Context, actor permissions.Actor, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ListAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapViewAllBookings) {
		return res, failure.ForbiddenError
	}

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) Update(ctx context.Context, actor permissions.Actor, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	if req.Status != constant.Empty && !model.Status(req.Status).Valid() {
		return res, failure.BadRequestFromString("unknown booking status") //nolint:wrapcheck
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	owner := booking.UserID == actor.ID
	privileged := false

	if owner {
		if !permissions.Authorize(actor, permissions.CapModifyOwnBooking) {
			return res, failure.ForbiddenError
		}
	}

	if !owner || req.Status != constant.Empty {
		ref, refErr := s.roomRepo.GetRef(ctx, booking.RoomID)
		if refErr != nil {
			return res, refErr //nolint:wrapcheck
		}

		privileged = visibility.CanManageRoom(actor, ref)
		if !owner && !privileged {
			return res, failure.ResourceRestrictedError
		}
	}

	// Pinning the status is a management move, whoever the booking belongs to.
	if req.Status != constant.Empty && !privileged {
		return res, failure.ForbiddenError
	}

	if _, err = state.Transition(booking.Status, state.ActionEdit); err != nil {
		return res, err
	}

	updated, err := req.Apply(booking)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) //nolint:wrapcheck
	}

	// An owner reshaping an approved booking loses the approval and queues
	// again; privileged edits keep the current status.
	if owner && !privileged && state.SignificantChange(booking, updated) && booking.Status == model.StatusApproved {
		updated.Status = model.StatusPending
		updated.ApprovedBy = nil
	}

	// A privileged editor may set the status directly, re-approving included.
	if req.Status != constant.Empty {
		updated.Status = model.Status(req.Status)

		switch updated.Status {
		case model.StatusApproved:
			updated.ApprovedBy = &actor.ID
		case model.StatusPending:
			updated.ApprovedBy = nil
		case model.StatusRejected, model.StatusCancelled:
		}
	}

	policy, err := s.policySvc.GetModel(ctx)
	if err != nil {
		return res, err
	}

	fields := map[string]any{
		model.FieldStartTime:    updated.StartTime,
		model.FieldEndTime:      updated.EndTime,
		model.FieldPurpose:      updated.Purpose,
		model.FieldParticipants: updated.Participants,
		model.FieldStatus:       updated.Status,
		model.FieldApprovedBy:   updated.ApprovedBy,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor.Email,
	}

	err = s.withRetry(func() error {
		return s.admitAndWrite(ctx, policy, updated, validation.Proposal{
			RoomID:      updated.RoomID,
			RequesterID: updated.UserID,
			Start:       updated.StartTime,
			End:         updated.EndTime,
			ExcludeID:   updated.ID,
		}, func(tx *sqlx.Tx) error {
			return s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
		})
	})
	if err != nil {
		return res, err
	}

	s.afterWrite(ctx, updated, audit.Entry{
		Action:     "booking.modify",
		EntityType: model.EntityName,
		EntityID:   updated.ID,
		ActorID:    actor.ID,
		Detail: map[string]any{
			"previous_status": string(booking.Status),
			"status":          string(updated.Status),
		},
	}, notifier.Event{
		Type:      notifier.EventBookingModified,
		BookingID: updated.ID,
		RoomID:    updated.RoomID,
		UserID:    updated.UserID,
		Status:    string(updated.Status),
		StartTime: notifier.FormatEventTime(updated.StartTime),
		EndTime:   notifier.FormatEventTime(updated.EndTime),
	})

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, actor permissions.Actor, id string, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.UserID == actor.ID {
		if !permissions.Authorize(actor, permissions.CapCancelOwnBooking) {
			return res, failure.ForbiddenError
		}
	} else {
		ref, refErr := s.roomRepo.GetRef(ctx, booking.RoomID)
		if refErr != nil {
			return res, refErr //nolint:wrapcheck
		}

		if !visibility.CanManageRoom(actor, ref) {
			return res, failure.ResourceRestrictedError
		}
	}

	next, err := state.Transition(booking.Status, state.ActionCancel)
	if err != nil {
		return res, err
	}

	previous := booking.Status
	booking.Status = next
	booking.CancellationReason = &req.Reason

	fields := map[string]any{
		model.FieldStatus:             booking.Status,
		model.FieldCancellationReason: req.Reason,
		constant.FieldModifiedAt:      timezone.Now(),
		constant.FieldModifiedBy:      actor.Email,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.afterWrite(ctx, booking, audit.Entry{
		Action:     "booking.cancel",
		EntityType: model.EntityName,
		EntityID:   booking.ID,
		ActorID:    actor.ID,
		Detail: map[string]any{
			"previous_status": string(previous),
			"reason":          req.Reason,
		},
	}, notifier.Event{
		Type:      notifier.EventBookingCancelled,
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		UserID:    booking.UserID,
		Status:    string(booking.Status),
		StartTime: notifier.FormatEventTime(booking.StartTime),
		EndTime:   notifier.FormatEventTime(booking.EndTime),
		Reason:    req.Reason,
	})

	res.FromModel(booking)

	return res, nil
}

// Decide approves or rejects a pending booking. Approval re-checks the
// neighbour rules under the room lock: two pending requests for the same or
// adjacent slots can both exist, but only the first approval wins.
func (s *serviceImpl) Decide(ctx context.Context, actor permissions.Actor, id string, req dto.DecideBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Decide")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	ref, err := s.roomRepo.GetRef(ctx, booking.RoomID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if !visibility.CanDecideBooking(actor, ref) {
		return res, failure.ResourceRestrictedError
	}

	action := state.ActionApprove
	eventType := notifier.EventBookingApproved

	if req.Decision == "reject" {
		action = state.ActionReject
		eventType = notifier.EventBookingRejected
	}

	next, err := state.Transition(booking.Status, action)
	if err != nil {
		return res, err
	}

	previous := booking.Status
	booking.Status = next

	fields := map[string]any{
		model.FieldStatus:        booking.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor.Email,
	}

	var policy policyModel.InstitutePolicy

	if action == state.ActionApprove {
		booking.ApprovedBy = &actor.ID
		fields[model.FieldApprovedBy] = actor.ID

		policy, err = s.policySvc.GetModel(ctx)
		if err != nil {
			return res, err
		}
	}

	err = s.withRetry(func() error {
		return s.decideWrite(ctx, policy, booking, action, fields)
	})
	if err != nil {
		return res, err
	}

	s.afterWrite(ctx, booking, audit.Entry{
		Action:     "booking." + req.Decision,
		EntityType: model.EntityName,
		EntityID:   booking.ID,
		ActorID:    actor.ID,
		Detail:     map[string]any{"previous_status": string(previous)},
	}, notifier.Event{
		Type:      eventType,
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		UserID:    booking.UserID,
		Status:    string(booking.Status),
		StartTime: notifier.FormatEventTime(booking.StartTime),
		EndTime:   notifier.FormatEventTime(booking.EndTime),
	})

	res.FromModel(booking)

	return res, nil
}

// Override forces a booking into an arbitrary status and optionally rewrites
// its content fields in the same step, bypassing the state machine and the
// admission checks. The acting admin is always recorded as the approver, and
// the mandatory reason lands in the audit trail.
func (s *serviceImpl) Override(ctx context.Context, actor permissions.Actor, id string, req dto.OverrideBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Override")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !permissions.Authorize(actor, permissions.CapOverrideBooking) {
		return res, failure.ForbiddenError
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	target := model.Status(req.Status)
	if !target.Valid() {
		return res, failure.BadRequestFromString("unknown booking status") //nolint:wrapcheck
	}

	updated, err := req.Apply(booking)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) //nolint:wrapcheck
	}

	if !updated.StartTime.Before(updated.EndTime) {
		return res, failure.BadRequestFromString("end time must be after start time") //nolint:wrapcheck
	}

	previous := booking.Status
	updated.Status = target

	// Whatever the target status, the override records who forced it.
	updated.ApprovedBy = &actor.ID

	fields := map[string]any{
		model.FieldStatus:        updated.Status,
		model.FieldStartTime:     updated.StartTime,
		model.FieldEndTime:       updated.EndTime,
		model.FieldPurpose:       updated.Purpose,
		model.FieldParticipants:  updated.Participants,
		model.FieldApprovedBy:    actor.ID,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor.Email,
	}

	if target == model.StatusCancelled {
		updated.CancellationReason = &req.Reason
		fields[model.FieldCancellationReason] = req.Reason
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to override booking")

		return res, fmt.Errorf("failed to override booking: %w", err)
	}

	s.afterWrite(ctx, updated, audit.Entry{
		Action:     "booking.override",
		EntityType: model.EntityName,
		EntityID:   updated.ID,
		ActorID:    actor.ID,
		Detail: map[string]any{
			"previous_status": string(previous),
			"status":          string(updated.Status),
			"reason":          req.Reason,
		},
	}, notifier.Event{
		Type:      notifier.EventBookingOverriden,
		BookingID: updated.ID,
		RoomID:    updated.RoomID,
		UserID:    updated.UserID,
		Status:    string(updated.Status),
		StartTime: notifier.FormatEventTime(updated.StartTime),
		EndTime:   notifier.FormatEventTime(updated.EndTime),
		Reason:    req.Reason,
	})

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

// admitAndWrite serializes on the room, runs the admission checks against
// the bookings visible under the lock, and applies the write in the same
// transaction.
func (s *serviceImpl) admitAndWrite(ctx context.Context, policy policyModel.InstitutePolicy, booking model.Booking, proposal validation.Proposal, write func(tx *sqlx.Tx) error) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if err = s.repo.LockRoom(ctx, tx, booking.RoomID); err != nil {
		return err
	}

	gap := time.Duration(policy.MinGapBetweenBookingsMinutes) * time.Minute

	candidates, err := s.repo.FindConflictCandidates(ctx, tx, booking.RoomID, proposal.Start, proposal.End, gap)
	if err != nil {
		return err
	}

	if err = s.validator.Validate(proposal, policy, candidates, timezone.Now()); err != nil {
		return err
	}

	if err = write(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	return nil
}

// decideWrite applies an approval or rejection under the room lock. Approval
// re-checks the gap buffer and overlap against approved bookings, with
// candidates fetched wide enough to include gap-distance neighbours.
func (s *serviceImpl) decideWrite(ctx context.Context, policy policyModel.InstitutePolicy, booking model.Booking, action state.Action, fields map[string]any) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if err = s.repo.LockRoom(ctx, tx, booking.RoomID); err != nil {
		return err
	}

	if action == state.ActionApprove {
		gap := time.Duration(policy.MinGapBetweenBookingsMinutes) * time.Minute

		candidates, findErr := s.repo.FindConflictCandidates(ctx, tx, booking.RoomID, booking.StartTime, booking.EndTime, gap)
		if findErr != nil {
			return findErr
		}

		if err = s.validator.CheckApproval(validation.Proposal{
			RoomID:      booking.RoomID,
			RequesterID: booking.UserID,
			Start:       booking.StartTime,
			End:         booking.EndTime,
			ExcludeID:   booking.ID,
		}, policy, candidates); err != nil {
			return err
		}
	}

	if err = s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking decision: %w", err)
	}

	return nil
}

// withRetry reruns fn once when Postgres reports transient lock contention;
// a second failure surfaces as service unavailability rather than an
// internal error.
func (s *serviceImpl) withRetry(fn func() error) error {
	err := fn()
	if err == nil || !isTransient(err) {
		return err
	}

	log.Warn().Err(err).Msg("transient conflict on booking write, retrying once")

	if err = fn(); err != nil {
		if isTransient(err) {
			return failure.ServiceUnavailable("booking storage is contended, please retry") //nolint:wrapcheck
		}

		return err
	}

	return nil
}

func isTransient(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	code := string(pqErr.Code)

	return code == pqSerializationFailure || code == pqLockNotAvailable
}

// afterWrite fans the side effects out without holding the request: cache
// invalidation, the audit record, and the notification event.
func (s *serviceImpl) afterWrite(ctx context.Context, booking model.Booking, entry audit.Entry, event notifier.Event) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)

		if err := s.auditor.Record(c, entry); err != nil {
			log.Error().Err(err).Str("action", entry.Action).Msg("failed to record booking audit entry")
		}

		if err := s.notifier.Publish(c, event); err != nil {
			log.Error().Err(err).Str("type", event.Type).Msg("failed to publish booking event")
		}
	}()
}
