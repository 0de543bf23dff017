package get_day_route

import (
	"strconv"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	optimizeRoute "github.com/m04kA/VideoBookingService/internal/usecase/optimize_route"
)

// DayRouteResponse HTTP response model
type DayRouteResponse struct {
	Date                 string    `json:"date"` // "2026-05-20"
	OptimizedOrder       []string  `json:"optimizedOrder"`
	TotalDistanceMeters  int       `json:"totalDistanceMeters"`
	TotalDurationSeconds int       `json:"totalDurationSeconds"`
	Excluded             []string  `json:"excluded"`
	Source               string    `json:"source"`
	ComputedAt           time.Time `json:"computedAt"`
	FromCache            bool      `json:"fromCache"`
}

// ToUseCaseRequest формирует запрос к use case из параметров пути и query
// refresh опционален, пустое значение - false
func ToUseCaseRequest(dateStr, refreshStr string) (*optimizeRoute.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	refresh := false
	if refreshStr != "" {
		refresh, err = strconv.ParseBool(refreshStr)
		if err != nil {
			return nil, err
		}
	}

	return &optimizeRoute.Request{Date: date, Refresh: refresh}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *optimizeRoute.Response) *DayRouteResponse {
	r := resp.Result

	order := r.OptimizedOrder
	if order == nil {
		order = []string{}
	}
	excluded := r.Excluded
	if excluded == nil {
		excluded = []string{}
	}

	return &DayRouteResponse{
		Date:                 r.Date.Format(domain.DateFormat),
		OptimizedOrder:       order,
		TotalDistanceMeters:  r.TotalDistanceMeters,
		TotalDurationSeconds: r.TotalDurationSeconds,
		Excluded:             excluded,
		Source:               string(r.Source),
		ComputedAt:           r.ComputedAt,
		FromCache:            resp.FromCache,
	}
}
