package scheduling

import "errors"

// Error kinds raised by the availability and booking services. Handlers
// branch on these with errors.Is to pick the HTTP status, so every failure
// a caller can act on has its own sentinel.
var (
	// Not-found errors: terminal for the call.
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrSlotNotFound        = errors.New("slot not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// Validation errors: caller-correctable, surfaced verbatim.
	ErrDuplicateSlot     = errors.New("a slot already exists at this date and time")
	ErrPastSlot          = errors.New("cannot add slots in the past")
	ErrInvalidSlotTime   = errors.New("invalid slot date or time")
	ErrIllegalTransition = errors.New("unsupported appointment status transition")

	// Conflict errors: caller should refresh availability and retry the flow.
	ErrSlotAlreadyBooked = errors.New("slot already booked")
	ErrSlotInUse         = errors.New("slot has a booked appointment; cancel the appointment first")
	ErrDoctorBusy        = errors.New("another booking for this doctor is in progress, please retry")
)
