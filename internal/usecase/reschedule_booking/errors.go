package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда заявка не найдена
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrNotApproved возвращается, когда заявка не подтверждена
	ErrNotApproved = errors.New("reschedule_booking: only approved bookings can be rescheduled")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
