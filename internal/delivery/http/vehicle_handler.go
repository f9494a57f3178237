package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/autolab/registry/internal/domain"
	"github.com/autolab/registry/internal/pkg/logger"
	"github.com/autolab/registry/internal/usecase/vehicle"
)

// VehicleService определяет интерфейс для сервиса реестра автомобилей
type VehicleService interface {
	CreateVehicle(ctx context.Context, req *vehicle.CreateVehicleRequest) (*domain.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, criteria domain.ListCriteria) ([]*domain.Vehicle, int, error)
	UpdateVehicle(ctx context.Context, id int64, req *vehicle.CreateVehicleRequest) error
	DeleteVehicle(ctx context.Context, id int64) error
	SearchVehicles(ctx context.Context, term, searchType string) ([]*domain.Vehicle, error)
}

// PaginatedResponse - страница списка с общим количеством записей
type PaginatedResponse struct {
	Items    []*domain.Vehicle `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// VehicleHandler обрабатывает запросы реестра автомобилей
type VehicleHandler struct {
	vehicleService VehicleService
	logger         logger.Logger
}

// NewVehicleHandler создает новый handler
func NewVehicleHandler(vehicleService VehicleService, logger logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

// ListVehicles возвращает страницу автомобилей с фильтрами
// GET /api/v1/vehicles
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid page")
		return
	}
	pageSize, err := intQuery(r, "pageSize", 10)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid page size")
		return
	}
	year, err := optionalIntQuery(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	yearFrom, err := optionalIntQuery(r, "yearFrom")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid yearFrom")
		return
	}
	yearTo, err := optionalIntQuery(r, "yearTo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid yearTo")
		return
	}

	q := r.URL.Query()
	criteria := domain.ListCriteria{
		Country:      q.Get("country"),
		Brand:        q.Get("brand"),
		Model:        q.Get("model"),
		LicensePlate: q.Get("licensePlate"),
		VinCode:      q.Get("vinCode"),
		Year:         year,
		YearFrom:     yearFrom,
		YearTo:       yearTo,
		OrderBy:      domain.OrderBy(q.Get("orderBy")),
		Page:         page,
		PageSize:     pageSize,
	}

	vehicles, total, err := h.vehicleService.ListVehicles(r.Context(), criteria)
	if err != nil {
		h.respondDomainError(w, err, "Failed to list vehicles")
		return
	}

	if vehicles == nil {
		vehicles = []*domain.Vehicle{}
	}
	respondJSON(w, http.StatusOK, PaginatedResponse{
		Items:    vehicles,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetVehicle возвращает автомобиль по ID
// GET /api/v1/vehicles/{id}
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	v, err := h.vehicleService.GetVehicle(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err, "Failed to get vehicle")
		return
	}

	respondJSON(w, http.StatusOK, v)
}

// CreateVehicle создает новый автомобиль
// POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicle.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, err := h.vehicleService.CreateVehicle(r.Context(), &req)
	if err != nil {
		h.respondDomainError(w, err, "Failed to create vehicle")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/vehicles/%d", v.ID))
	respondJSON(w, http.StatusCreated, v)
}

// UpdateVehicle полностью заменяет автомобиль
// PUT /api/v1/vehicles/{id}
func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	var req vehicle.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.vehicleService.UpdateVehicle(r.Context(), id, &req); err != nil {
		h.respondDomainError(w, err, "Failed to update vehicle")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteVehicle удаляет автомобиль
// DELETE /api/v1/vehicles/{id}
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	if err := h.vehicleService.DeleteVehicle(r.Context(), id); err != nil {
		h.respondDomainError(w, err, "Failed to delete vehicle")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchVehicles ищет автомобили по номеру или VIN коду
// GET /api/v1/vehicles/search?term=...&type=licensePlate|vinCode
func (h *VehicleHandler) SearchVehicles(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	searchType := r.URL.Query().Get("type")

	vehicles, err := h.vehicleService.SearchVehicles(r.Context(), term, searchType)
	if err != nil {
		h.respondDomainError(w, err, "Failed to search vehicles")
		return
	}

	if vehicles == nil {
		vehicles = []*domain.Vehicle{}
	}
	respondJSON(w, http.StatusOK, vehicles)
}

// respondDomainError отображает доменную ошибку в HTTP статус.
// Неклассифицированные ошибки логируются и возвращаются как 500
// без деталей.
func (h *VehicleHandler) respondDomainError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		respondError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrConcurrentModification):
		respondError(w, http.StatusConflict, err.Error())

	case domain.IsCountryLookupFailure(err):
		respondError(w, http.StatusServiceUnavailable, "Country service is unavailable")

	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidCharacters),
		errors.Is(err, domain.ErrFieldTooLong),
		errors.Is(err, domain.ErrInvalidPlateFormat),
		errors.Is(err, domain.ErrFutureYear),
		errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidPagination),
		errors.Is(err, domain.ErrInvalidSearch),
		errors.Is(err, domain.ErrDuplicateVin),
		errors.Is(err, domain.ErrDuplicatePlate),
		errors.Is(err, domain.ErrCountryNotValid):
		respondError(w, http.StatusBadRequest, err.Error())

	default:
		h.logger.Error(logMsg, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
