package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

// Status values are stored verbatim; staff-facing screens read them directly.
type Status string

const (
	StatusPending   Status = "Chờ xác nhận"
	StatusConfirmed Status = "Đã xác nhận"
	StatusArrived   Status = "Đã đến"
	StatusNoShow    Status = "Không đến"
	StatusCancelled Status = "Đã hủy"
	StatusWalkIn    Status = "Đến đột xuất"
)

var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusArrived,
	StatusNoShow,
	StatusCancelled,
	StatusWalkIn,
}

// transitions lists the allowed targets of each state. Arrived and walk-in are
// terminal for status; check-out only stamps a time.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusArrived, StatusNoShow, StatusCancelled},
	StatusConfirmed: {StatusPending, StatusArrived, StatusNoShow, StatusCancelled},
	StatusNoShow:    {StatusArrived, StatusCancelled},
	StatusArrived:   {},
	StatusWalkIn:    {},
	StatusCancelled: {},
}

func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", httperr.ErrBadRequest("invalid_status", fmt.Sprintf("Trạng thái %q không hợp lệ.", s))
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Active appointments count against the same-day limit.
func (s Status) Active() bool {
	return s != StatusCancelled
}

func (s Status) CheckedIn() bool {
	return s == StatusArrived || s == StatusWalkIn
}

func AllowedTargets(from Status) []Status {
	out := make([]Status, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

// Decision is the outcome of consulting the transition table.
type Decision struct {
	Allowed bool
	Reason  string
}

func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return httperr.ErrBadRequest("invalid_transition", d.Reason)
}

func Transition(from, to Status) Decision {
	if !from.Valid() {
		return Decision{Reason: fmt.Sprintf("Trạng thái hiện tại %q không hợp lệ.", from)}
	}
	if !to.Valid() {
		return Decision{Reason: fmt.Sprintf("Trạng thái %q không hợp lệ.", to)}
	}
	if from == to {
		return Decision{Reason: fmt.Sprintf("Lịch hẹn đã ở trạng thái %q.", to)}
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return Decision{Allowed: true}
		}
	}
	return Decision{Reason: fmt.Sprintf("Không thể chuyển lịch hẹn từ %q sang %q.", from, to)}
}

// InitialStatus is the status of a booking created without an explicit one.
func InitialStatus() Status {
	return StatusPending
}

// CanCreateWith reports whether a booking may be created directly in s.
func CanCreateWith(s Status) error {
	if s == StatusPending || s == StatusConfirmed {
		return nil
	}
	return httperr.ErrBadRequest("invalid_status", "Lịch hẹn mới chỉ có thể ở trạng thái chờ xác nhận hoặc đã xác nhận.")
}
