package model

import (
	"fmt"
	"time"

	"plek/shared/model"
)

const (
	TableName  = "institute_policy"
	EntityName = "policy"

	FieldID                           = "id"
	FieldBookingOpeningDays           = "booking_opening_days"
	FieldMaxBookingDurationHours      = "max_booking_duration_hours"
	FieldMinGapBetweenBookingsMinutes = "min_gap_between_bookings_minutes"
	FieldWorkingHoursStart            = "working_hours_start"
	FieldWorkingHoursEnd              = "working_hours_end"
	FieldAllowBackdatedBookings       = "allow_backdated_bookings"
	FieldEnableAutoApproval           = "enable_auto_approval"
	FieldApprovalWindowHours          = "approval_window_hours"

	// SingletonID: exactly one active policy row exists at any time.
	SingletonID = 1
)

// InstitutePolicy is the institute-wide configuration bounding what bookings
// are legal. Working hours are stored as "HH:MM" wall-clock strings and
// interpreted in the application timezone.
type InstitutePolicy struct {
	ID                           int    `db:"id"`
	BookingOpeningDays           int    `db:"booking_opening_days"`
	MaxBookingDurationHours      int    `db:"max_booking_duration_hours"`
	MinGapBetweenBookingsMinutes int    `db:"min_gap_between_bookings_minutes"`
	WorkingHoursStart            string `db:"working_hours_start"`
	WorkingHoursEnd              string `db:"working_hours_end"`
	AllowBackdatedBookings       bool   `db:"allow_backdated_bookings"`
	EnableAutoApproval           bool   `db:"enable_auto_approval"`
	ApprovalWindowHours          int    `db:"approval_window_hours"`
	model.Metadata
}

// Default returns the policy created on first read when no row exists.
func Default() InstitutePolicy {
	return InstitutePolicy{
		ID:                           SingletonID,
		BookingOpeningDays:           30,
		MaxBookingDurationHours:      4,
		MinGapBetweenBookingsMinutes: 15,
		WorkingHoursStart:            "08:00",
		WorkingHoursEnd:              "19:00",
		AllowBackdatedBookings:       false,
		EnableAutoApproval:           false,
		ApprovalWindowHours:          48,
	}
}

// WorkingWindow anchors the policy working hours onto the date of day in the
// given location, returning the concrete open and close instants.
func (p InstitutePolicy) WorkingWindow(day time.Time, loc *time.Location) (time.Time, time.Time, error) {
	openHour, openMin, err := ParseClock(p.WorkingHoursStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid working_hours_start %q: %w", p.WorkingHoursStart, err)
	}

	closeHour, closeMin, err := ParseClock(p.WorkingHoursEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid working_hours_end %q: %w", p.WorkingHoursEnd, err)
	}

	local := day.In(loc)
	open := time.Date(local.Year(), local.Month(), local.Day(), openHour, openMin, 0, 0, loc)
	close := time.Date(local.Year(), local.Month(), local.Day(), closeHour, closeMin, 0, 0, loc)

	return open, close, nil
}

// ParseClock splits an "HH:MM" wall-clock string into hour and minute.
func ParseClock(value string) (int, int, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err //nolint:wrapcheck
	}

	return parsed.Hour(), parsed.Minute(), nil
}
