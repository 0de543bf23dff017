package dispatch_reminders

// DefaultBatchSize размер пачки, если лимит не задан
const DefaultBatchSize = 100

// Request модель запроса выгрузки
type Request struct {
	Limit int // Максимум напоминаний за вызов; <= 0 - DefaultBatchSize
}

// Response модель ответа выгрузки
type Response struct {
	Dispatched int
}
