package acknowledge_reminder

import (
	"context"

	acknowledgeReminder "github.com/m04kA/VideoBookingService/internal/usecase/acknowledge_reminder"
)

type AcknowledgeReminderUseCase interface {
	Execute(ctx context.Context, req *acknowledgeReminder.Request) (*acknowledgeReminder.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
