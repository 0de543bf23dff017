package acknowledge_reminder

import "errors"

var (
	// ErrReminderNotFound возвращается, когда напоминание не найдено
	ErrReminderNotFound = errors.New("acknowledge_reminder: reminder not found")

	// ErrReminderNotPending возвращается, когда напоминание уже отправлено или отменено
	ErrReminderNotPending = errors.New("acknowledge_reminder: reminder is not pending")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("acknowledge_reminder: internal error")
)
