package get_day_route

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/VideoBookingService/internal/api/handlers"
)

const msgInvalidParams = "некорректные параметры: дата YYYY-MM-DD, refresh true/false"

type Handler struct {
	useCase OptimizeRouteUseCase
	logger  Logger
}

func NewHandler(useCase OptimizeRouteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/routes/{date}
// Query params: refresh (optional) - пересчитать маршрут, минуя кэш
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := mux.Vars(r)["date"]

	useCaseReq, err := ToUseCaseRequest(dateStr, r.URL.Query().Get("refresh"))
	if err != nil {
		h.logger.Warn("GET /routes/{date} - Invalid parameters: date=%q, error=%v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if msg, ok := handlers.ValidationMessage(err); ok {
			h.logger.Warn("GET /routes/{date} - Validation failed: date=%s, error=%v", dateStr, err)
			handlers.RespondBadRequest(w, msg)
			return
		}

		h.logger.Error("GET /routes/{date} - Failed to optimize route: date=%s, error=%v", dateStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /routes/{date} - Route ready: date=%s, stops=%d, excluded=%d, source=%s, from_cache=%t",
		dateStr, result.Result.StopCount(), len(result.Result.Excluded), result.Result.Source, result.FromCache)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
