package http

import (
	"context"
	"net/http"

	"github.com/autolab/registry/internal/domain"
	"github.com/autolab/registry/internal/infrastructure/countries"
	"github.com/autolab/registry/internal/pkg/logger"
)

// CountryService определяет интерфейс для справочника стран
type CountryService interface {
	GetCountries(ctx context.Context) ([]countries.Country, error)
}

// CountryHandler отдает справочник стран (используется формой
// создания автомобиля на стороне клиента)
type CountryHandler struct {
	countryService CountryService
	logger         logger.Logger
}

// NewCountryHandler создает новый handler
func NewCountryHandler(countryService CountryService, logger logger.Logger) *CountryHandler {
	return &CountryHandler{
		countryService: countryService,
		logger:         logger,
	}
}

// ListCountries возвращает список стран из внешнего справочника
// GET /api/v1/countries
func (h *CountryHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	list, err := h.countryService.GetCountries(r.Context())
	if err != nil {
		if domain.IsCountryLookupFailure(err) {
			respondError(w, http.StatusServiceUnavailable, "Country service is unavailable")
			return
		}
		h.logger.Error("Failed to get countries", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, list)
}
