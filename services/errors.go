package services

import (
	"errors"
	"time"
)

// ErrorKind membedakan setiap kegagalan pipeline supaya client bisa
// menampilkan panduan yang spesifik, bukan sekadar pesan generik.
type ErrorKind string

const (
	KindInvalidDate        ErrorKind = "INVALID_DATE"
	KindPastDate           ErrorKind = "PAST_DATE"
	KindWindowExceeded     ErrorKind = "WINDOW_EXCEEDED"
	KindDuplicateOrder     ErrorKind = "DUPLICATE_ORDER"
	KindHolidayBlocked     ErrorKind = "HOLIDAY_BLOCKED"
	KindShiftNotFound      ErrorKind = "SHIFT_NOT_FOUND"
	KindShiftInactive      ErrorKind = "SHIFT_INACTIVE"
	KindCutoffPassed       ErrorKind = "CUTOFF_PASSED"
	KindCapacityExceeded   ErrorKind = "CAPACITY_EXCEEDED"
	KindOrderNotFound      ErrorKind = "ORDER_NOT_FOUND"
	KindForbidden          ErrorKind = "FORBIDDEN"
	KindNotCancellable     ErrorKind = "NOT_CANCELLABLE"
	KindCancelCutoffPassed ErrorKind = "CANCEL_CUTOFF_PASSED"
	KindCheckinTooEarly    ErrorKind = "CHECKIN_TOO_EARLY"
	KindCheckinTooLate     ErrorKind = "CHECKIN_TOO_LATE"
	KindAlreadyCheckedIn   ErrorKind = "ALREADY_CHECKED_IN"
	KindAlreadyCancelled   ErrorKind = "ALREADY_CANCELLED"
)

// OrderError adalah error dengan kind plus batas waktu yang relevan untuk
// ditampilkan (mis. jam cutoff, awal jendela pickup).
type OrderError struct {
	Kind     ErrorKind
	Message  string
	Boundary *time.Time
}

func (e *OrderError) Error() string {
	return e.Message
}

func NewOrderError(kind ErrorKind, message string) *OrderError {
	return &OrderError{Kind: kind, Message: message}
}

func NewBoundaryError(kind ErrorKind, message string, boundary time.Time) *OrderError {
	return &OrderError{Kind: kind, Message: message, Boundary: &boundary}
}

// KindOf mengembalikan kind dari sebuah error, atau "" bila bukan OrderError.
func KindOf(err error) ErrorKind {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}

// AsOrderError unwraps an error into *OrderError when possible.
func AsOrderError(err error) (*OrderError, bool) {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}
