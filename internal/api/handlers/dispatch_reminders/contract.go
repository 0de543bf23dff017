package dispatch_reminders

import (
	"context"

	dispatchReminders "github.com/m04kA/VideoBookingService/internal/usecase/dispatch_reminders"
)

type DispatchRemindersUseCase interface {
	Execute(ctx context.Context, req *dispatchReminders.Request) (*dispatchReminders.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
