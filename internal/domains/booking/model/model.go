package model

import (
	"time"

	"plek/shared/model"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID                 = "id"
	FieldRoomID             = "room_id"
	FieldUserID             = "user_id"
	FieldApprovedBy         = "approved_by"
	FieldStartTime          = "start_time"
	FieldEndTime            = "end_time"
	FieldStatus             = "status"
	FieldPurpose            = "purpose"
	FieldParticipants       = "participants"
	FieldCancellationReason = "cancellation_reason"
)

// Status is the booking lifecycle state. Transitions are governed by the
// state package; bookings are never hard-deleted, terminal statuses stay.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further non-override transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}

	return false
}

type Booking struct {
	ID                 string    `db:"id"`
	RoomID             string    `db:"room_id"`
	UserID             string    `db:"user_id"`
	ApprovedBy         *string   `db:"approved_by"`
	StartTime          time.Time `db:"start_time"`
	EndTime            time.Time `db:"end_time"`
	Status             Status    `db:"status"`
	Purpose            string    `db:"purpose"`
	Participants       string    `db:"participants"`
	CancellationReason *string   `db:"cancellation_reason"`
	model.Metadata
}
