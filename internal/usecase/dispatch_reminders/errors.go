package dispatch_reminders

import "errors"

var (
	// ErrPublish возвращается, когда очередь не приняла напоминания
	ErrPublish = errors.New("dispatch_reminders: publish failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("dispatch_reminders: internal error")
)
