package handlers

import (
	"errors"
	"fmt"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

const msgInvalidField = "некорректное поле %s: %s"

// ValidationMessage возвращает текст для клиента, если err - ошибка валидации
func ValidationMessage(err error) (string, bool) {
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		return "", false
	}
	return fmt.Sprintf(msgInvalidField, vErr.Field, vErr.Reason), true
}
