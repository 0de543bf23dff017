package submit_booking

import (
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/internal/service/approval"
)

// Request модель запроса на съемку
type Request struct {
	AgentID           string                   // ID агента из каталога
	PropertyValueTier domain.PropertyValueTier // Ценовая категория объекта
	ShootComplexity   domain.ShootComplexity   // Сложность съемки
	IsUrgent          bool
	PreferredDate     time.Time   // Желаемый день съемки (без времени)
	BackupDates       []time.Time // Запасные дни (опционально)
	IsFlexible        bool
	Address           string
	Coordinates       *domain.Coordinates // nil, если адрес ещё не геокодирован
}

// Response модель ответа с размещённой заявкой
type Response struct {
	Booking   *domain.BookingRequest
	Outcome   approval.Outcome
	Reminders []domain.ReminderEntry // Пусто, если заявка не одобрена автоматически
}
