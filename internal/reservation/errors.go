package reservation

import (
	"errors"
	"fmt"
)

// Rejection codes, surfaced verbatim to callers.
const (
	CodeInvalidReference         = "invalid_reference"
	CodeDateOutOfRange           = "date_out_of_range"
	CodeDailyLimitExceeded       = "daily_limit_exceeded"
	CodeConsecutiveLimitExceeded = "consecutive_limit_exceeded"
	CodeEquipmentUnavailable     = "equipment_unavailable"
	CodeConflict                 = "conflict"
)

var (
	// ErrConflict is the store's answer to a lost race: another transaction
	// claimed one of the candidate's (equipment, date, slot) tuples first.
	ErrConflict = errors.New("reservation conflicts with an existing slot claim")

	// ErrDailyCapExceeded is returned by the store when the in-transaction
	// re-check of the member's daily slot-unit count fails.
	ErrDailyCapExceeded = errors.New("daily reservation limit reached")

	ErrReservationNotFound = errors.New("reservation not found")
	ErrNotOwner            = errors.New("can only cancel own reservations")
)

// Rejection is a typed booking refusal: a machine-readable code plus enough
// detail (offending slot, date) for the caller to explain it to a user.
type Rejection struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	SlotID int    `json:"slot_id,omitempty"`
}

func (r *Rejection) Error() string {
	return r.Detail
}

func reject(code, format string, args ...interface{}) *Rejection {
	return &Rejection{Code: code, Detail: fmt.Sprintf(format, args...)}
}

func rejectSlot(code string, slotID int, format string, args ...interface{}) *Rejection {
	return &Rejection{Code: code, Detail: fmt.Sprintf(format, args...), SlotID: slotID}
}

// AsRejection unwraps err into a *Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
