package state_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"plek/internal/domains/booking/model"
	"plek/internal/domains/booking/state"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		current model.Status
		action  state.Action
		want    model.Status
		wantErr bool
	}{
		{
			name:    "approve pending",
			current: model.StatusPending,
			action:  state.ActionApprove,
			want:    model.StatusApproved,
		},
		{
			name:    "reject pending",
			current: model.StatusPending,
			action:  state.ActionReject,
			want:    model.StatusRejected,
		},
		{
			name:    "cancel pending",
			current: model.StatusPending,
			action:  state.ActionCancel,
			want:    model.StatusCancelled,
		},
		{
			name:    "cancel approved",
			current: model.StatusApproved,
			action:  state.ActionCancel,
			want:    model.StatusCancelled,
		},
		{
			name:    "edit pending keeps status",
			current: model.StatusPending,
			action:  state.ActionEdit,
			want:    model.StatusPending,
		},
		{
			name:    "edit approved keeps status",
			current: model.StatusApproved,
			action:  state.ActionEdit,
			want:    model.StatusApproved,
		},
		{
			name:    "approve approved is invalid",
			current: model.StatusApproved,
			action:  state.ActionApprove,
			wantErr: true,
		},
		{
			name:    "approve cancelled is invalid",
			current: model.StatusCancelled,
			action:  state.ActionApprove,
			wantErr: true,
		},
		{
			name:    "reject approved is invalid",
			current: model.StatusApproved,
			action:  state.ActionReject,
			wantErr: true,
		},
		{
			name:    "cancel cancelled is invalid",
			current: model.StatusCancelled,
			action:  state.ActionCancel,
			wantErr: true,
		},
		{
			name:    "cancel rejected is invalid",
			current: model.StatusRejected,
			action:  state.ActionCancel,
			wantErr: true,
		},
		{
			name:    "edit cancelled is invalid",
			current: model.StatusCancelled,
			action:  state.ActionEdit,
			wantErr: true,
		},
		{
			name:    "edit rejected is invalid",
			current: model.StatusRejected,
			action:  state.ActionEdit,
			wantErr: true,
		},
		{
			name:    "unknown action is invalid",
			current: model.StatusPending,
			action:  state.Action("promote"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := state.Transition(tt.current, tt.action)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.current, next)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, next)
		})
	}
}

func TestSignificantChange(t *testing.T) {
	base := model.Booking{
		ID:           "b-1",
		RoomID:       "room-1",
		UserID:       "user-1",
		StartTime:    time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC),
		Status:       model.StatusApproved,
		Purpose:      "team sync",
		Participants: "alice, bob",
	}

	tests := []struct {
		name   string
		mutate func(b model.Booking) model.Booking
		want   bool
	}{
		{
			name:   "no change",
			mutate: func(b model.Booking) model.Booking { return b },
			want:   false,
		},
		{
			name: "start time moved",
			mutate: func(b model.Booking) model.Booking {
				b.StartTime = b.StartTime.Add(30 * time.Minute)

				return b
			},
			want: true,
		},
		{
			name: "end time moved",
			mutate: func(b model.Booking) model.Booking {
				b.EndTime = b.EndTime.Add(-30 * time.Minute)

				return b
			},
			want: true,
		},
		{
			name: "purpose changed",
			mutate: func(b model.Booking) model.Booking {
				b.Purpose = "retrospective"

				return b
			},
			want: true,
		},
		{
			name: "participants changed",
			mutate: func(b model.Booking) model.Booking {
				b.Participants = "alice, bob, carol"

				return b
			},
			want: true,
		},
		{
			name: "same instant in another zone is not a change",
			mutate: func(b model.Booking) model.Booking {
				b.StartTime = b.StartTime.In(time.FixedZone("IST", 5*3600+1800))

				return b
			},
			want: false,
		},
		{
			name: "status change alone is not significant",
			mutate: func(b model.Booking) model.Booking {
				b.Status = model.StatusPending

				return b
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, state.SignificantChange(base, tt.mutate(base)))
		})
	}
}
