package vehicle

import (
	"context"
	"fmt"
	"strings"

	"github.com/autolab/registry/internal/domain"
	"github.com/autolab/registry/internal/infrastructure/countries"
	"github.com/autolab/registry/internal/pkg/logger"
	"github.com/autolab/registry/internal/repository"
)

// Типы поиска для SearchVehicles
const (
	SearchByLicensePlate = "licensePlate"
	SearchByVinCode      = "vinCode"
)

// Фиксированный размер страницы поиска
const searchPageSize = 100

// CreateVehicleRequest - запрос на создание или полную замену автомобиля
type CreateVehicleRequest struct {
	Country      string `json:"country"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"licensePlate"`
	VinCode      string `json:"vinCode"`
}

func (r *CreateVehicleRequest) input() domain.VehicleInput {
	return domain.VehicleInput{
		Country:      r.Country,
		Brand:        r.Brand,
		Model:        r.Model,
		Year:         r.Year,
		LicensePlate: r.LicensePlate,
		VinCode:      r.VinCode,
	}
}

// Service содержит бизнес-логику реестра автомобилей
type Service struct {
	vehicleRepo repository.VehicleRepository
	countries   countries.Validator
	rules       *domain.Rules
	logger      logger.Logger
}

// NewService создает новый экземпляр VehicleService
func NewService(
	vehicleRepo repository.VehicleRepository,
	countries countries.Validator,
	rules *domain.Rules,
	logger logger.Logger,
) *Service {
	return &Service{
		vehicleRepo: vehicleRepo,
		countries:   countries,
		rules:       rules,
		logger:      logger,
	}
}

// CreateVehicle создает новый автомобиль
func (s *Service) CreateVehicle(ctx context.Context, req *CreateVehicleRequest) (*domain.Vehicle, error) {
	s.logger.Info("Creating new vehicle", map[string]interface{}{
		"license_plate": req.LicensePlate,
		"vin_code":      req.VinCode,
	})

	// Предварительная проверка номера: уникальность гарантирует
	// индекс в БД, но ранняя проверка дает понятную ошибку
	existing, err := s.vehicleRepo.GetByLicensePlate(ctx, req.LicensePlate)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing vehicle: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Vehicle already exists", map[string]interface{}{
			"license_plate": req.LicensePlate,
		})
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicatePlate, req.LicensePlate)
	}

	// Полная валидация кандидата
	if err := s.rules.Validate(req.input()); err != nil {
		return nil, err
	}

	// Страна проверяется по внешнему справочнику. Сбой самого
	// справочника пробрасывается отдельной категорией, а не
	// маскируется под ошибку валидации.
	if err := s.countries.ValidateCountry(ctx, req.Country); err != nil {
		if domain.IsCountryLookupFailure(err) {
			s.logger.Error("Country service failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil, err
	}

	vehicle, err := domain.NewVehicle(s.rules, req.input())
	if err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Vehicle created successfully", map[string]interface{}{
		"vehicle_id": vehicle.ID,
	})

	return vehicle, nil
}

// GetVehicle возвращает автомобиль по ID
func (s *Service) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidID, id)
	}
	return s.vehicleRepo.GetByID(ctx, id)
}

// ListVehicles возвращает страницу автомобилей по критериям
// и общее количество подходящих записей
func (s *Service) ListVehicles(ctx context.Context, criteria domain.ListCriteria) ([]*domain.Vehicle, int, error) {
	if criteria.Page <= 0 {
		return nil, 0, fmt.Errorf("%w: page must be greater than 0", domain.ErrInvalidPagination)
	}
	if criteria.PageSize < domain.MinPageSize || criteria.PageSize > domain.MaxPageSize {
		return nil, 0, fmt.Errorf("%w: page size must be between %d and %d",
			domain.ErrInvalidPagination, domain.MinPageSize, domain.MaxPageSize)
	}
	if !criteria.OrderBy.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown order key %q", domain.ErrOutOfRange, criteria.OrderBy)
	}

	return s.vehicleRepo.List(ctx, criteria.Trimmed())
}

// UpdateVehicle полностью заменяет автомобиль с указанным ID
func (s *Service) UpdateVehicle(ctx context.Context, id int64, req *CreateVehicleRequest) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidID, id)
	}

	existing, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.rules.Validate(req.input()); err != nil {
		return err
	}

	vehicle, err := domain.NewVehicle(s.rules, req.input())
	if err != nil {
		return err
	}

	// Замена наследует идентичность и версию прочитанной записи
	vehicle.ID = existing.ID
	vehicle.Version = existing.Version
	vehicle.CreatedAt = existing.CreatedAt

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		s.logger.Error("Failed to update vehicle", map[string]interface{}{
			"vehicle_id": id,
			"error":      err.Error(),
		})
		return err
	}

	s.logger.Info("Vehicle updated successfully", map[string]interface{}{
		"vehicle_id": id,
	})

	return nil
}

// DeleteVehicle удаляет автомобиль по ID
func (s *Service) DeleteVehicle(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidID, id)
	}
	return s.vehicleRepo.Delete(ctx, id)
}

// SearchVehicles ищет автомобили по номеру или VIN коду
func (s *Service) SearchVehicles(ctx context.Context, term, searchType string) ([]*domain.Vehicle, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", domain.ErrInvalidSearch)
	}

	criteria := domain.ListCriteria{
		Page:     1,
		PageSize: searchPageSize,
	}

	switch searchType {
	case SearchByLicensePlate:
		criteria.LicensePlate = term
	case SearchByVinCode:
		criteria.VinCode = term
	default:
		return nil, fmt.Errorf("%w: search type must be %q or %q",
			domain.ErrInvalidSearch, SearchByLicensePlate, SearchByVinCode)
	}

	vehicles, _, err := s.vehicleRepo.List(ctx, criteria)
	return vehicles, err
}
