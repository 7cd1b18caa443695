package models

// Status is the registration lifecycle shared by choreographies,
// coaches, judges and support staff.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusSubmitted  Status = "SUBMITTED"
	StatusRegistered Status = "REGISTERED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusRegistered:
		return true
	}
	return false
}

// CanTransitionTo reports whether the normal API may move an entity
// from s to next. Forward only: PENDING -> SUBMITTED -> REGISTERED.
// A same-status update is a no-op and therefore allowed. Backward
// moves are never allowed here; fixing a REGISTERED row is a direct
// data correction, not an API call.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusSubmitted
	case StatusSubmitted:
		return next == StatusRegistered
	}
	return false
}
