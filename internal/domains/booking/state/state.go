package state

import (
	"plek/internal/domains/booking/model"
	"plek/shared/failure"
)

// Action is a lifecycle operation on a booking. Every status change in the
// service funnels through Transition so the legal edges live in one place.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
	ActionEdit    Action = "edit"
)

// Transition returns the status a booking moves to when action is applied,
// or a failure when the edge is not permitted.
//
// Edges: Pending -> Approved | Rejected | Cancelled; Approved -> Cancelled.
// Rejected and Cancelled are terminal; only an override (which bypasses this
// table entirely) can leave them. Approving or rejecting a non-pending
// booking is an invalid transition rather than a silent no-op.
func Transition(current model.Status, action Action) (model.Status, error) {
	switch action {
	case ActionApprove:
		if current != model.StatusPending {
			return current, failure.InvalidTransition(string(current), string(ActionApprove))
		}

		return model.StatusApproved, nil

	case ActionReject:
		if current != model.StatusPending {
			return current, failure.InvalidTransition(string(current), string(ActionReject))
		}

		return model.StatusRejected, nil

	case ActionCancel:
		if current == model.StatusCancelled {
			return current, failure.AlreadyCancelled()
		}

		if current == model.StatusRejected {
			return current, failure.InvalidTransition(string(current), string(ActionCancel))
		}

		return model.StatusCancelled, nil

	case ActionEdit:
		if current.Terminal() {
			return current, failure.ImmutableTerminalState(string(current))
		}

		return current, nil
	}

	return current, failure.InvalidTransition(string(current), string(action))
}

// SignificantChange reports whether an edit touches the fields that force
// re-approval: the time range, purpose, and participants all count. An owner
// edit with a significant change resets the booking to Pending and clears
// the approver; privileged edits and overrides skip the reset.
func SignificantChange(current, updated model.Booking) bool {
	return !updated.StartTime.Equal(current.StartTime) ||
		!updated.EndTime.Equal(current.EndTime) ||
		updated.Purpose != current.Purpose ||
		updated.Participants != current.Participants
}
