package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения.
// Категория ошибки определяется через errors.Is, текст с контекстом
// добавляется через fmt.Errorf("...: %w", err) на месте возникновения.

// Ошибки валидации входных данных (HTTP 400)
var (
	ErrMissingField       = errors.New("required field is missing")
	ErrInvalidCharacters  = errors.New("field contains invalid characters")
	ErrFieldTooLong       = errors.New("field exceeds maximum length")
	ErrInvalidPlateFormat = errors.New("license plate format is invalid")
	ErrFutureYear         = errors.New("year cannot be in the future")
	ErrOutOfRange         = errors.New("value is out of allowed range")
	ErrInvalidID          = errors.New("vehicle id must be positive")
	ErrInvalidPagination  = errors.New("invalid pagination parameters")
	ErrInvalidSearch      = errors.New("invalid search parameters")
)

// Ошибки хранилища
var (
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrDuplicateVin           = errors.New("vehicle with this VIN already exists")
	ErrDuplicatePlate         = errors.New("vehicle with this license plate already exists")
	ErrConcurrentModification = errors.New("vehicle was modified by another request")
)

// Ошибки внешнего сервиса стран.
// ErrCountryNotValid - страна не прошла проверку (ошибка клиента).
// Остальные - недоступность зависимости, на границе HTTP они
// отображаются в 503, а не смешиваются с ошибками валидации.
var (
	ErrCountryNotValid    = errors.New("country is not valid")
	ErrCountryUnavailable = errors.New("country service is unavailable")
	ErrCountryTimeout     = errors.New("country service timed out")
	ErrCountryParse       = errors.New("country service returned malformed response")
)

// IsCountryLookupFailure сообщает, является ли ошибка сбоем самого
// сервиса стран (в отличие от невалидной страны).
func IsCountryLookupFailure(err error) bool {
	return errors.Is(err, ErrCountryUnavailable) ||
		errors.Is(err, ErrCountryTimeout) ||
		errors.Is(err, ErrCountryParse)
}
