package submit_booking

import "errors"

var (
	// ErrAgentNotFound возвращается, когда агент не найден в каталоге
	ErrAgentNotFound = errors.New("submit_booking: agent not found")

	// ErrAgentUnavailable возвращается, когда каталог агентов недоступен
	// Заявка без контекста агента не оценивается и не сохраняется
	ErrAgentUnavailable = errors.New("submit_booking: agent directory unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)
