package submit_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Значения перечислений проверяет scorer
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.AgentID) == "" {
		return domain.NewMissingFieldError("agentId")
	}

	if req.PreferredDate.IsZero() {
		return domain.NewMissingFieldError("preferredDate")
	}

	if len(req.BackupDates) > domain.MaxBackupDates {
		return &domain.ValidationError{Field: "backupDates", Reason: fmt.Sprintf("must contain at most %d dates", domain.MaxBackupDates)}
	}
	for _, d := range req.BackupDates {
		if d.IsZero() {
			return &domain.ValidationError{Field: "backupDates", Reason: "must not contain empty dates"}
		}
	}

	if strings.TrimSpace(req.Address) == "" {
		return domain.NewMissingFieldError("address")
	}
	if len(req.Address) > domain.MaxAddressLength {
		return &domain.ValidationError{Field: "address", Reason: fmt.Sprintf("exceeds %d characters", domain.MaxAddressLength)}
	}

	// Координаты необязательны, но если есть - должны быть реальными
	if c := req.Coordinates; c != nil {
		if c.Lat < -90 || c.Lat > 90 {
			return &domain.ValidationError{Field: "coordinates.lat", Reason: "must be within [-90, 90]"}
		}
		if c.Lng < -180 || c.Lng > 180 {
			return &domain.ValidationError{Field: "coordinates.lng", Reason: "must be within [-180, 180]"}
		}
	}

	return nil
}

func dateOnlyAll(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, domain.DateOnly(d))
	}
	return out
}
