package repository

import (
	"context"

	"github.com/autolab/registry/internal/domain"
)

// VehicleRepository определяет методы для работы с автомобилями
type VehicleRepository interface {
	// Create сохраняет новый автомобиль и присваивает ему ID.
	// Возвращает ErrDuplicateVin / ErrDuplicatePlate при нарушении
	// уникальности VIN или номера.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID возвращает автомобиль по ID или ErrVehicleNotFound
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)

	// GetByLicensePlate возвращает автомобиль по номеру.
	// Отсутствие записи не является ошибкой: возвращается (nil, nil).
	GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error)

	// List возвращает страницу автомобилей по критериям и общее
	// количество записей, удовлетворяющих фильтрам
	List(ctx context.Context, criteria domain.ListCriteria) ([]*domain.Vehicle, int, error)

	// Update полностью заменяет запись с тем же ID.
	// Возвращает ErrVehicleNotFound, ErrDuplicateVin / ErrDuplicatePlate
	// или ErrConcurrentModification при конфликте версий.
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// Delete удаляет автомобиль или возвращает ErrVehicleNotFound
	Delete(ctx context.Context, id int64) error
}
