package validation

import (
	"fmt"
	"time"

	bookingModel "plek/internal/domains/booking/model"
	policyModel "plek/internal/domains/policy/model"
	"plek/shared/failure"
)

// Validation kinds, in the order the checks run. The first failing check
// wins; later checks are not evaluated.
const (
	KindInvalidRange            = "invalid_range"
	KindPastBooking             = "past_booking"
	KindOutsideWorkingHours     = "outside_working_hours"
	KindDurationExceeded        = "duration_exceeded"
	KindTooFarInAdvance         = "too_far_in_advance"
	KindInsufficientGap         = "insufficient_gap"
	KindRoomConflict            = "room_conflict"
	KindDuplicatePendingRequest = "duplicate_pending_request"
)

// Proposal is a booking request under validation. ExcludeID carries the
// booking's own id on modify so it never conflicts with itself.
type Proposal struct {
	RoomID      string
	RequesterID string
	Start       time.Time
	End         time.Time
	ExcludeID   string
}

// Validator runs the booking admission checks. It is pure: the caller loads
// the policy and the room's candidate bookings and supplies the clock, which
// keeps every check deterministic under test.
type Validator struct {
	// Location is the institute wall-clock timezone. Working hours and
	// same-day comparisons are evaluated in it.
	Location *time.Location

	// StrictWorkingHours applies the working-hours check to every booking
	// date. When false the check only guards bookings starting today, so a
	// policy tightened overnight does not invalidate future reservations.
	StrictWorkingHours bool
}

func New(loc *time.Location, strictWorkingHours bool) *Validator {
	return &Validator{Location: loc, StrictWorkingHours: strictWorkingHours}
}

// Validate runs every admission check in order against the proposal.
// existing must hold the room's approved and pending bookings around the
// proposed window plus the requester's pending bookings; rows whose id
// matches p.ExcludeID are ignored throughout.
func (v *Validator) Validate(p Proposal, pol policyModel.InstitutePolicy, existing []bookingModel.Booking, now time.Time) error {
	if err := v.CheckRange(p); err != nil {
		return err
	}

	if err := v.CheckNotPast(p, pol, now); err != nil {
		return err
	}

	if err := v.CheckWorkingHours(p, pol, now); err != nil {
		return err
	}

	if err := v.CheckDuration(p, pol); err != nil {
		return err
	}

	if err := v.CheckOpeningWindow(p, pol, now); err != nil {
		return err
	}

	if err := v.CheckMinimumGap(p, pol, existing); err != nil {
		return err
	}

	if err := v.CheckRoomConflict(p, existing); err != nil {
		return err
	}

	return v.CheckDuplicatePending(p, existing)
}

// CheckApproval re-runs the neighbour checks for a pending booking that is
// about to be approved: the minimum-gap buffer and the hard overlap against
// the room's approved bookings. The content checks already passed when the
// request was admitted and are not repeated; what can have changed since is
// which neighbours are approved.
func (v *Validator) CheckApproval(p Proposal, pol policyModel.InstitutePolicy, existing []bookingModel.Booking) error {
	if err := v.CheckMinimumGap(p, pol, existing); err != nil {
		return err
	}

	return v.CheckRoomConflict(p, existing)
}

// CheckRange requires the start to fall strictly before the end.
func (v *Validator) CheckRange(p Proposal) error {
	if !p.Start.Before(p.End) {
		return failure.NewValidation(KindInvalidRange, "end_time", "end time must be after start time")
	}

	return nil
}

// CheckNotPast rejects bookings starting before now unless the policy allows
// backdated bookings.
func (v *Validator) CheckNotPast(p Proposal, pol policyModel.InstitutePolicy, now time.Time) error {
	if pol.AllowBackdatedBookings {
		return nil
	}

	if p.Start.Before(now) {
		return failure.NewValidation(KindPastBooking, "start_time", "booking cannot start in the past")
	}

	return nil
}

// CheckWorkingHours requires the booking to sit inside the policy working
// window on its start date. By default only bookings starting today are
// held to it; StrictWorkingHours extends it to every date.
func (v *Validator) CheckWorkingHours(p Proposal, pol policyModel.InstitutePolicy, now time.Time) error {
	if !v.StrictWorkingHours && !sameDay(p.Start, now, v.Location) {
		return nil
	}

	open, close, err := pol.WorkingWindow(p.Start, v.Location)
	if err != nil {
		return err
	}

	if p.Start.Before(open) || p.End.After(close) {
		return failure.NewValidation(KindOutsideWorkingHours, "start_time",
			fmt.Sprintf("booking must fall within working hours %s-%s", pol.WorkingHoursStart, pol.WorkingHoursEnd))
	}

	return nil
}

// CheckDuration caps the booking length at the policy maximum.
func (v *Validator) CheckDuration(p Proposal, pol policyModel.InstitutePolicy) error {
	limit := time.Duration(pol.MaxBookingDurationHours) * time.Hour
	if p.End.Sub(p.Start) > limit {
		return failure.NewValidation(KindDurationExceeded, "end_time",
			fmt.Sprintf("booking cannot exceed %d hours", pol.MaxBookingDurationHours))
	}

	return nil
}

// CheckOpeningWindow caps how far ahead a booking may start, counted in
// whole days from now.
func (v *Validator) CheckOpeningWindow(p Proposal, pol policyModel.InstitutePolicy, now time.Time) error {
	horizon := now.AddDate(0, 0, pol.BookingOpeningDays)
	if p.Start.After(horizon) {
		return failure.NewValidation(KindTooFarInAdvance, "start_time",
			fmt.Sprintf("booking cannot be made more than %d days in advance", pol.BookingOpeningDays))
	}

	return nil
}

// CheckMinimumGap enforces the policy buffer between this booking and the
// room's approved bookings. Only non-overlapping neighbours count here; a
// true overlap is the conflict check's to report.
func (v *Validator) CheckMinimumGap(p Proposal, pol policyModel.InstitutePolicy, existing []bookingModel.Booking) error {
	gap := time.Duration(pol.MinGapBetweenBookingsMinutes) * time.Minute
	if gap <= 0 {
		return nil
	}

	for _, b := range existing {
		if b.ID == p.ExcludeID || b.RoomID != p.RoomID || b.Status != bookingModel.StatusApproved {
			continue
		}

		if overlaps(p.Start, p.End, b.StartTime, b.EndTime) {
			continue
		}

		// b ends before p starts, or b starts after p ends.
		if !b.EndTime.After(p.Start) && p.Start.Sub(b.EndTime) < gap {
			return failure.NewValidation(KindInsufficientGap, "start_time",
				fmt.Sprintf("booking must leave at least %d minutes after the previous booking", pol.MinGapBetweenBookingsMinutes))
		}

		if !b.StartTime.Before(p.End) && b.StartTime.Sub(p.End) < gap {
			return failure.NewValidation(KindInsufficientGap, "end_time",
				fmt.Sprintf("booking must leave at least %d minutes before the next booking", pol.MinGapBetweenBookingsMinutes))
		}
	}

	return nil
}

// CheckRoomConflict rejects the proposal when it overlaps an approved
// booking for the same room.
func (v *Validator) CheckRoomConflict(p Proposal, existing []bookingModel.Booking) error {
	for _, b := range existing {
		if b.ID == p.ExcludeID || b.RoomID != p.RoomID || b.Status != bookingModel.StatusApproved {
			continue
		}

		if overlaps(p.Start, p.End, b.StartTime, b.EndTime) {
			return failure.NewValidation(KindRoomConflict, "start_time",
				"room is already booked for the requested time")
		}
	}

	return nil
}

// CheckDuplicatePending rejects the proposal when the requester already has
// a pending request for the same room overlapping the same window.
func (v *Validator) CheckDuplicatePending(p Proposal, existing []bookingModel.Booking) error {
	for _, b := range existing {
		if b.ID == p.ExcludeID || b.RoomID != p.RoomID || b.UserID != p.RequesterID || b.Status != bookingModel.StatusPending {
			continue
		}

		if overlaps(p.Start, p.End, b.StartTime, b.EndTime) {
			return failure.NewValidation(KindDuplicatePendingRequest, "start_time",
				"you already have a pending request for this room at this time")
		}
	}

	return nil
}

// overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Back-to-back bookings sharing a boundary instant do not overlap.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return bStart.Before(aEnd) && bEnd.After(aStart)
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	al, bl := a.In(loc), b.In(loc)

	return al.Year() == bl.Year() && al.YearDay() == bl.YearDay()
}
