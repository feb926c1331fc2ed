package booking

import "github.com/hackgods/doctor-booking/internal/auth"

// transitions is the booking lifecycle. Statuses without an entry are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func (s Status) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// CanTransition reports whether the lifecycle has an edge from -> to.
func CanTransition(from, to Status) bool {
	return containsStatus(transitions[from], to)
}

type edge struct {
	from, to Status
}

// rolePermissions lists the edges a non-admin role may take on its own
// bookings. Admins may take any lifecycle edge on any booking.
var rolePermissions = map[auth.Role][]edge{
	auth.RolePatient: {
		{StatusPending, StatusCancelled},
	},
	auth.RoleDoctor: {
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusRejected},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusCancelled},
	},
}

// owns reports whether actor is the patient or doctor on b.
func owns(actor auth.Actor, b Booking) bool {
	switch actor.Role {
	case auth.RolePatient:
		return actor.Owns(b.PatientID)
	case auth.RoleDoctor:
		return actor.Owns(b.DoctorID)
	case auth.RoleAdmin:
		return true
	}
	return false
}

// authorizeTransition decides whether actor may move b to the target status.
// A terminal source is rejected first, whatever the role.
func authorizeTransition(actor auth.Actor, b Booking, to Status) error {
	if b.Status.Terminal() {
		return ErrTerminalStatus
	}

	if actor.Is(auth.RoleAdmin) {
		if !CanTransition(b.Status, to) {
			return ErrIllegalTransition
		}
		return nil
	}

	if !owns(actor, b) {
		return ErrTransitionForbidden
	}
	for _, e := range rolePermissions[actor.Role] {
		if e.from == b.Status && e.to == to {
			return nil
		}
	}
	return ErrTransitionForbidden
}

// AllowedTransitions lists the statuses actor could move b to right now.
func AllowedTransitions(actor auth.Actor, b Booking) []Status {
	var out []Status
	for _, to := range transitions[b.Status] {
		if authorizeTransition(actor, b, to) == nil {
			out = append(out, to)
		}
	}
	return out
}
