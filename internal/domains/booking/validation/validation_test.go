package validation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingModel "plek/internal/domains/booking/model"
	"plek/internal/domains/booking/validation"
	policyModel "plek/internal/domains/policy/model"
	"plek/shared/failure"
)

func kindOf(t *testing.T, err error) string {
	t.Helper()

	v := failure.AsValidation(err)
	require.NotNil(t, v, "expected a validation failure, got %v", err)

	return v.Kind
}

func approved(id, roomID string, start, end time.Time) bookingModel.Booking {
	return bookingModel.Booking{
		ID:        id,
		RoomID:    roomID,
		UserID:    "other-user",
		StartTime: start,
		EndTime:   end,
		Status:    bookingModel.StatusApproved,
	}
}

func TestValidator_Validate(t *testing.T) {
	loc := time.UTC
	v := validation.New(loc, false)

	// A fixed Tuesday morning inside working hours.
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	at := func(day, hour, minute int) time.Time {
		return time.Date(2026, 3, day, hour, minute, 0, 0, loc)
	}

	tests := []struct {
		name     string
		proposal validation.Proposal
		policy   policyModel.InstitutePolicy
		existing []bookingModel.Booking
		wantKind string
	}{
		{
			name: "valid booking passes every check",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 10, 0),
				End:         at(11, 12, 0),
			},
			policy: policyModel.Default(),
		},
		{
			name: "start equal to end is an invalid range",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 10, 0),
				End:         at(11, 10, 0),
			},
			policy:   policyModel.Default(),
			wantKind: validation.KindInvalidRange,
		},
		{
			name: "start after end is an invalid range",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 12, 0),
				End:         at(11, 10, 0),
			},
			policy:   policyModel.Default(),
			wantKind: validation.KindInvalidRange,
		},
		{
			name: "booking in the past is rejected",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(9, 10, 0),
				End:         at(9, 12, 0),
			},
			policy:   policyModel.Default(),
			wantKind: validation.KindPastBooking,
		},
		{
			name: "past booking passes when backdating is allowed",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(10, 8, 0),
				End:         at(10, 8, 50),
			},
			policy: func() policyModel.InstitutePolicy {
				p := policyModel.Default()
				p.AllowBackdatedBookings = true

				return p
			}(),
		},
		{
			name: "same-day booking before opening is outside working hours",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(10, 7, 0),
				End:         at(10, 8, 30),
			},
			policy: func() policyModel.InstitutePolicy {
				p := policyModel.Default()
				p.AllowBackdatedBookings = true

				return p
			}(),
			wantKind: validation.KindOutsideWorkingHours,
		},
		{
			name: "same-day booking past closing is outside working hours",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(10, 18, 0),
				End:         at(10, 19, 30),
			},
			policy:   policyModel.Default(),
			wantKind: validation.KindOutsideWorkingHours,
		},
		{
			name: "future booking outside working hours passes in lenient mode",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(12, 6, 0),
				End:         at(12, 7, 30),
			},
			policy: policyModel.Default(),
		},
		{
			name: "booking longer than the duration cap is rejected",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 9, 0),
				End:         at(11, 13, 30),
			},
			policy:   policyModel.Default(),
			wantKind: validation.KindDurationExceeded,
		},
		{
			name: "booking exactly at the duration cap passes",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 9, 0),
				End:         at(11, 13, 0),
			},
			policy: policyModel.Default(),
		},
		{
			name: "booking beyond the opening window is rejected",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       time.Date(2026, 4, 15, 10, 0, 0, 0, loc),
				End:         time.Date(2026, 4, 15, 12, 0, 0, 0, loc),
			},
			policy:   policyModel.Default(),
			wantKind: validation.KindTooFarInAdvance,
		},
		{
			name: "gap shorter than the policy minimum after a neighbour is rejected",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 12, 10),
				End:         at(11, 13, 10),
			},
			policy: policyModel.Default(),
			existing: []bookingModel.Booking{
				approved("b-1", "room-1", at(11, 10, 0), at(11, 12, 0)),
			},
			wantKind: validation.KindInsufficientGap,
		},
		{
			name: "gap shorter than the policy minimum before a neighbour is rejected",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 9, 0),
				End:         at(11, 9, 50),
			},
			policy: policyModel.Default(),
			existing: []bookingModel.Booking{
				approved("b-1", "room-1", at(11, 10, 0), at(11, 12, 0)),
			},
			wantKind: validation.KindInsufficientGap,
		},
		{
			name: "gap exactly at the policy minimum passes",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 12, 15),
				End:         at(11, 13, 15),
			},
			policy: policyModel.Default(),
			existing: []bookingModel.Booking{
				approved("b-1", "room-1", at(11, 10, 0), at(11, 12, 0)),
			},
		},
		{
			name: "overlap with an approved booking is a room conflict",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 11, 0),
				End:         at(11, 13, 0),
			},
			policy: policyModel.Default(),
			existing: []bookingModel.Booking{
				approved("b-1", "room-1", at(11, 10, 0), at(11, 12, 0)),
			},
			wantKind: validation.KindRoomConflict,
		},
		{
			name: "approved booking in another room never conflicts",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 11, 0),
				End:         at(11, 13, 0),
			},
			policy: policyModel.Default(),
			existing: []bookingModel.Booking{
				approved("b-1", "room-2", at(11, 10, 0), at(11, 12, 0)),
			},
		},
		{
			name: "candidate matching the exclude id is ignored",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 11, 0),
				End:         at(11, 13, 0),
				ExcludeID:   "b-1",
			},
			policy: policyModel.Default(),
			existing: []bookingModel.Booking{
				approved("b-1", "room-1", at(11, 10, 0), at(11, 12, 0)),
			},
		},
		{
			name: "requester's own overlapping pending request is a duplicate",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 10, 0),
				End:         at(11, 12, 0),
			},
			policy: policyModel.Default(),
			existing: []bookingModel.Booking{
				{
					ID:        "b-2",
					RoomID:    "room-1",
					UserID:    "user-1",
					StartTime: at(11, 11, 0),
					EndTime:   at(11, 13, 0),
					Status:    bookingModel.StatusPending,
				},
			},
			wantKind: validation.KindDuplicatePendingRequest,
		},
		{
			name: "another user's pending request does not block the proposal",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-1",
				Start:       at(11, 10, 0),
				End:         at(11, 12, 0),
			},
			policy: policyModel.Default(),
			existing: []bookingModel.Booking{
				{
					ID:        "b-2",
					RoomID:    "room-1",
					UserID:    "user-2",
					StartTime: at(11, 11, 0),
					EndTime:   at(11, 13, 0),
					Status:    bookingModel.StatusPending,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.proposal, tt.policy, tt.existing, now)

			if tt.wantKind == "" {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantKind, kindOf(t, err))
		})
	}
}

func TestValidator_CheckApproval(t *testing.T) {
	loc := time.UTC
	v := validation.New(loc, false)

	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 11, hour, minute, 0, 0, loc)
	}

	// An already-approved neighbour occupying 10:00-11:00.
	neighbour := approved("b-1", "room-1", at(10, 0), at(11, 0))

	tests := []struct {
		name     string
		proposal validation.Proposal
		existing []bookingModel.Booking
		wantKind string
	}{
		{
			name: "approving five minutes after an approved neighbour violates the gap",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-2",
				Start:       at(11, 5),
				End:         at(12, 5),
				ExcludeID:   "b-2",
			},
			existing: []bookingModel.Booking{neighbour},
			wantKind: validation.KindInsufficientGap,
		},
		{
			name: "approving over an approved neighbour is a room conflict",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-2",
				Start:       at(10, 30),
				End:         at(11, 30),
				ExcludeID:   "b-2",
			},
			existing: []bookingModel.Booking{neighbour},
			wantKind: validation.KindRoomConflict,
		},
		{
			name: "a full policy gap after the neighbour approves cleanly",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "user-2",
				Start:       at(11, 15),
				End:         at(12, 15),
				ExcludeID:   "b-2",
			},
			existing: []bookingModel.Booking{neighbour},
		},
		{
			name: "the booking's own row never blocks its approval",
			proposal: validation.Proposal{
				RoomID:      "room-1",
				RequesterID: "other-user",
				Start:       at(10, 0),
				End:         at(11, 0),
				ExcludeID:   "b-1",
			},
			existing: []bookingModel.Booking{neighbour},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.CheckApproval(tt.proposal, policyModel.Default(), tt.existing)

			if tt.wantKind == "" {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantKind, kindOf(t, err))
		})
	}
}

func TestValidator_StrictWorkingHours(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)

	proposal := validation.Proposal{
		RoomID:      "room-1",
		RequesterID: "user-1",
		Start:       time.Date(2026, 3, 12, 6, 0, 0, 0, loc),
		End:         time.Date(2026, 3, 12, 7, 30, 0, 0, loc),
	}

	lenient := validation.New(loc, false)
	assert.NoError(t, lenient.Validate(proposal, policyModel.Default(), nil, now))

	strict := validation.New(loc, true)
	err := strict.Validate(proposal, policyModel.Default(), nil, now)
	assert.Equal(t, validation.KindOutsideWorkingHours, kindOf(t, err))
}

func TestValidator_BackToBackBookings(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)

	// Zero gap lets bookings touch at the boundary without overlapping.
	pol := policyModel.Default()
	pol.MinGapBetweenBookingsMinutes = 0

	v := validation.New(loc, false)

	err := v.Validate(validation.Proposal{
		RoomID:      "room-1",
		RequesterID: "user-1",
		Start:       time.Date(2026, 3, 11, 12, 0, 0, 0, loc),
		End:         time.Date(2026, 3, 11, 14, 0, 0, 0, loc),
	}, pol, []bookingModel.Booking{
		approved("b-1", "room-1", time.Date(2026, 3, 11, 10, 0, 0, 0, loc), time.Date(2026, 3, 11, 12, 0, 0, 0, loc)),
	}, now)

	assert.NoError(t, err)
}

func TestValidator_FirstFailingCheckWins(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	v := validation.New(loc, false)

	// Both in the past and inverted; the range check runs first.
	err := v.Validate(validation.Proposal{
		RoomID:      "room-1",
		RequesterID: "user-1",
		Start:       time.Date(2026, 3, 9, 12, 0, 0, 0, loc),
		End:         time.Date(2026, 3, 9, 10, 0, 0, 0, loc),
	}, policyModel.Default(), nil, now)

	assert.Equal(t, validation.KindInvalidRange, kindOf(t, err))
}
