package list_day_bookings

import (
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(dateStr, statusStr string) (*models.GetDayBookingsRequest, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &models.GetDayBookingsRequest{Date: date}
	if statusStr != "" {
		req.Status = &statusStr
	}
	return req, nil
}
