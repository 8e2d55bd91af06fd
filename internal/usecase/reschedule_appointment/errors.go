package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда запись принадлежит другому клиенту
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrCannotReschedule возвращается, когда запись уже отменена или завершена
	ErrCannotReschedule = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrDailyLimitExceeded возвращается, когда у клиента уже есть другая запись на новую дату
	ErrDailyLimitExceeded = errors.New("reschedule_appointment: customer already has an appointment on this date")

	// ErrTimeSlotTaken возвращается, когда новое время занято
	ErrTimeSlotTaken = errors.New("reschedule_appointment: time slot is already taken")

	// ErrCapacityExceeded возвращается, когда новая дата заполнена до лимита
	ErrCapacityExceeded = errors.New("reschedule_appointment: daily capacity exceeded")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
