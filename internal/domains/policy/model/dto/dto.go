package dto

import (
	"plek/internal/domains/policy/model"
	gDto "plek/shared/dto"
)

type UpdatePolicyRequest struct {
	BookingOpeningDays           *int    `db:"booking_opening_days"             json:"booking_opening_days"             validate:"omitempty,min=1,max=365"`
	MaxBookingDurationHours      *int    `db:"max_booking_duration_hours"       json:"max_booking_duration_hours"       validate:"omitempty,min=1,max=24"`
	MinGapBetweenBookingsMinutes *int    `db:"min_gap_between_bookings_minutes" json:"min_gap_between_bookings_minutes" validate:"omitempty,min=0,max=240"`
	WorkingHoursStart            *string `db:"working_hours_start"              json:"working_hours_start"              validate:"omitempty,len=5"`
	WorkingHoursEnd              *string `db:"working_hours_end"                json:"working_hours_end"                validate:"omitempty,len=5"`
	AllowBackdatedBookings       *bool   `db:"allow_backdated_bookings"         json:"allow_backdated_bookings"         validate:"omitempty"`
	EnableAutoApproval           *bool   `db:"enable_auto_approval"             json:"enable_auto_approval"             validate:"omitempty"`
	ApprovalWindowHours          *int    `db:"approval_window_hours"            json:"approval_window_hours"            validate:"omitempty,min=1,max=720"`
}

type PolicyResponse struct {
	BookingOpeningDays           int    `json:"booking_opening_days"`
	MaxBookingDurationHours      int    `json:"max_booking_duration_hours"`
	MinGapBetweenBookingsMinutes int    `json:"min_gap_between_bookings_minutes"`
	WorkingHoursStart            string `json:"working_hours_start"`
	WorkingHoursEnd              string `json:"working_hours_end"`
	AllowBackdatedBookings       bool   `json:"allow_backdated_bookings"`
	EnableAutoApproval           bool   `json:"enable_auto_approval"`
	ApprovalWindowHours          int    `json:"approval_window_hours"`
	gDto.Metadata
}

func (r *PolicyResponse) FromModel(model model.InstitutePolicy) {
	r.BookingOpeningDays = model.BookingOpeningDays
	r.MaxBookingDurationHours = model.MaxBookingDurationHours
	r.MinGapBetweenBookingsMinutes = model.MinGapBetweenBookingsMinutes
	r.WorkingHoursStart = model.WorkingHoursStart
	r.WorkingHoursEnd = model.WorkingHoursEnd
	r.AllowBackdatedBookings = model.AllowBackdatedBookings
	r.EnableAutoApproval = model.EnableAutoApproval
	r.ApprovalWindowHours = model.ApprovalWindowHours
	r.Metadata.FromModel(model.Metadata)
}
