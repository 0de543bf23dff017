package acknowledge_reminder

import "github.com/m04kA/VideoBookingService/internal/domain"

// Request модель отчета диспетчера о доставке
// Failed=true означает сбой доставки: напоминание возвращается в очередь выгрузки
type Request struct {
	ReminderID string
	Failed     bool
	Reason     string
}

// Response модель ответа с напоминанием после подтверждения
type Response struct {
	Reminder *domain.ReminderEntry
}
