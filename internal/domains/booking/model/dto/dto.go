package dto

import (
	"time"

	"plek/internal/domains/booking/model"
	"plek/shared"
	"plek/shared/constant"
	gDto "plek/shared/dto"
	gModel "plek/shared/model"
	"plek/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID       string `json:"room_id"      validate:"required,uuid"`
	StartTime    string `json:"start_time"   validate:"required"`
	EndTime      string `json:"end_time"     validate:"required"`
	Purpose      string `json:"purpose"      validate:"required,max=500"`
	Participants string `json:"participants" validate:"omitempty,max=1000"`
}

func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	startTime, err := timezone.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	endTime, err := timezone.Parse(time.RFC3339, c.EndTime)
	if err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	return model.Booking{
		ID:           uuid.NewString(),
		RoomID:       c.RoomID,
		UserID:       user,
		StartTime:    startTime,
		EndTime:      endTime,
		Status:       model.StatusPending,
		Purpose:      c.Purpose,
		Participants: c.Participants,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateBookingRequest struct {
	StartTime    string `json:"start_time"   validate:"omitempty"`
	EndTime      string `json:"end_time"     validate:"omitempty"`
	Purpose      string `json:"purpose"      validate:"omitempty,max=500"`
	Participants string `json:"participants" validate:"omitempty,max=1000"`

	// Status is honored only for editors with management scope over the
	// room; owners queue through the normal state machine instead.
	Status string `json:"status" validate:"omitempty,oneof=pending approved rejected cancelled"`
}

// Apply merges the request onto a copy of the current booking, parsing any
// replacement times in the institute timezone.
func (u *UpdateBookingRequest) Apply(current model.Booking) (model.Booking, error) {
	updated := current

	if u.StartTime != constant.Empty {
		startTime, err := timezone.Parse(time.RFC3339, u.StartTime)
		if err != nil {
			return model.Booking{}, err //nolint:wrapcheck
		}

		updated.StartTime = startTime
	}

	if u.EndTime != constant.Empty {
		endTime, err := timezone.Parse(time.RFC3339, u.EndTime)
		if err != nil {
			return model.Booking{}, err //nolint:wrapcheck
		}

		updated.EndTime = endTime
	}

	if u.Purpose != constant.Empty {
		updated.Purpose = u.Purpose
	}

	if u.Participants != constant.Empty {
		updated.Participants = u.Participants
	}

	return updated, nil
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type DecideBookingRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

type OverrideBookingRequest struct {
	Status       string `json:"status"       validate:"required,oneof=pending approved rejected cancelled"`
	Reason       string `json:"reason"       validate:"required,max=500"`
	StartTime    string `json:"start_time"   validate:"omitempty"`
	EndTime      string `json:"end_time"     validate:"omitempty"`
	Purpose      string `json:"purpose"      validate:"omitempty,max=500"`
	Participants string `json:"participants" validate:"omitempty,max=1000"`
}

// Apply merges the optional replacement fields onto a copy of the booking;
// the status is the service's to set.
func (o *OverrideBookingRequest) Apply(current model.Booking) (model.Booking, error) {
	u := UpdateBookingRequest{
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
		Purpose:      o.Purpose,
		Participants: o.Participants,
	}

	return u.Apply(current)
}

type BookingResponse struct {
	ID                 string  `json:"id"`
	RoomID             string  `json:"room_id"`
	UserID             string  `json:"user_id"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	StartTime          string  `json:"start_time"`
	EndTime            string  `json:"end_time"`
	Status             string  `json:"status"`
	Purpose            string  `json:"purpose"`
	Participants       string  `json:"participants"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.UserID = model.UserID
	r.ApprovedBy = model.ApprovedBy
	r.StartTime = timezone.Format(model.StartTime, time.RFC3339)
	r.EndTime = timezone.Format(model.EndTime, time.RFC3339)
	r.Status = string(model.Status)
	r.Purpose = model.Purpose
	r.Participants = model.Participants
	r.CancellationReason = model.CancellationReason
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
