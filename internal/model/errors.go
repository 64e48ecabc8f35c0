package model

import (
	"errors"
	"fmt"
)

// Категории ошибок, по ним HTTP слой выбирает статус
var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("conflict")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("storage unavailable")
)

// Error ошибка предметной области с категорией и сообщением для клиента
type Error struct {
	Kind error
	Msg  string
	Err  error // исходная ошибка драйвера, может быть nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

var (
	ErrInvalidDate      = &Error{Kind: ErrValidation, Msg: "Bookings are only allowed on weekdays (Monday-Friday)"}
	ErrDuplicateBooking = &Error{Kind: ErrConflict, Msg: "Member already has a booking for this date"}
	ErrCapacityExceeded = &Error{Kind: ErrConflict, Msg: fmt.Sprintf("This date is fully booked (%d/%d slots)", MaxSlotsPerDay, MaxSlotsPerDay)}
	ErrBookingNotFound  = &Error{Kind: ErrNotFound, Msg: "Booking not found"}
)

// Validationf создаёт ошибку валидации
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// Unavailable оборачивает ошибку соединения с хранилищем
func Unavailable(err error) error {
	return &Error{Kind: ErrUnavailable, Msg: "storage unavailable", Err: err}
}

// Message возвращает сообщение для клиента, если ошибка из предметной области
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg, true
	}
	return "", false
}
