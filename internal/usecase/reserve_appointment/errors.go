package reserve_appointment

import "errors"

var (
	// ErrDailyLimitExceeded возвращается, когда у клиента уже есть активная запись на эту дату
	ErrDailyLimitExceeded = errors.New("reserve_appointment: customer already has an appointment on this date")

	// ErrTimeSlotTaken возвращается, когда точное время на эту дату уже занято
	ErrTimeSlotTaken = errors.New("reserve_appointment: time slot is already taken")

	// ErrCapacityExceeded возвращается, когда день заполнен до лимита
	ErrCapacityExceeded = errors.New("reserve_appointment: daily capacity exceeded")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_appointment: internal error")
)
