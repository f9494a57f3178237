package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxFieldLength - общий потолок длины для всех текстовых полей
	MaxFieldLength = 500

	// MinYear - минимально допустимый год выпуска
	MinYear = 1900

	minPlateLength = 6
	maxPlateLength = 8

	minCountryLength = 3
)

// Акцентированные символы, разрешенные в текстовых полях
// помимо латинских букв, цифр и пробелов
const accentedLetters = "ñÑáéíóúÁÉÍÓÚ"

// VINPolicy задает допустимую длину VIN кода.
// Исторически правила расходились (ровно 17 против 14-17),
// поэтому диапазон вынесен в конфигурацию.
type VINPolicy struct {
	MinLength int
	MaxLength int
}

// DefaultVINPolicy - диапазон 14-17 символов
func DefaultVINPolicy() VINPolicy {
	return VINPolicy{MinLength: 14, MaxLength: 17}
}

// StrictVINPolicy - ровно 17 символов (стандартная длина VIN)
func StrictVINPolicy() VINPolicy {
	return VINPolicy{MinLength: 17, MaxLength: 17}
}

// VehicleInput - кандидат на создание/обновление автомобиля
// до каких-либо проверок
type VehicleInput struct {
	Country      string
	Brand        string
	Model        string
	Year         int
	LicensePlate string
	VinCode      string
}

// Rules - единый набор правил валидации автомобиля.
// Используется и DTO-слоем, и конструктором сущности, чтобы правила
// не расходились между точками входа. Часы инжектируются для
// детерминизма в тестах.
type Rules struct {
	VIN VINPolicy
	Now func() time.Time
}

// NewRules создает набор правил. Если now == nil, используется time.Now.
func NewRules(vin VINPolicy, now func() time.Time) *Rules {
	if now == nil {
		now = time.Now
	}
	return &Rules{VIN: vin, Now: now}
}

// Validate проверяет кандидата и возвращает первую нарушенную
// категорию. Порядок проверок фиксирован: от него зависят сообщения
// об ошибках, которые видит клиент.
func (r *Rules) Validate(in VehicleInput) error {
	// 1. Обязательность полей
	for _, f := range []struct {
		name  string
		value string
	}{
		{"country", in.Country},
		{"brand", in.Brand},
		{"model", in.Model},
		{"licensePlate", in.LicensePlate},
		{"vinCode", in.VinCode},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	// 2. Допустимые символы в текстовых полях
	for _, f := range []struct {
		name  string
		value string
	}{
		{"country", in.Country},
		{"brand", in.Brand},
		{"model", in.Model},
	} {
		if err := validateCharset(f.value); err != nil {
			return fmt.Errorf("%w: %s", err, f.name)
		}
	}

	// 3. Максимальная длина
	for _, f := range []struct {
		name  string
		value string
	}{
		{"country", in.Country},
		{"brand", in.Brand},
		{"model", in.Model},
		{"licensePlate", in.LicensePlate},
		{"vinCode", in.VinCode},
	} {
		if utf8.RuneCountInString(f.value) > MaxFieldLength {
			return fmt.Errorf("%w: %s", ErrFieldTooLong, f.name)
		}
	}

	// 4. Формат номера: только заглавные латинские буквы и цифры
	for _, c := range in.LicensePlate {
		if !isUpperAlphanumeric(c) {
			return fmt.Errorf("%w: %q", ErrInvalidPlateFormat, in.LicensePlate)
		}
	}

	// 5. Год не в будущем
	if in.Year > r.Now().Year() {
		return fmt.Errorf("%w: %d", ErrFutureYear, in.Year)
	}

	// 6. Диапазоны
	if utf8.RuneCountInString(in.Country) < minCountryLength {
		return fmt.Errorf("%w: country must be at least %d characters", ErrOutOfRange, minCountryLength)
	}
	if in.Year < MinYear {
		return fmt.Errorf("%w: year must be %d or later", ErrOutOfRange, MinYear)
	}
	if n := utf8.RuneCountInString(in.LicensePlate); n < minPlateLength || n > maxPlateLength {
		return fmt.Errorf("%w: license plate must be %d to %d characters", ErrOutOfRange, minPlateLength, maxPlateLength)
	}
	if n := utf8.RuneCountInString(in.VinCode); n < r.VIN.MinLength || n > r.VIN.MaxLength {
		if r.VIN.MinLength == r.VIN.MaxLength {
			return fmt.Errorf("%w: VIN must be exactly %d characters", ErrOutOfRange, r.VIN.MinLength)
		}
		return fmt.Errorf("%w: VIN must be %d to %d characters", ErrOutOfRange, r.VIN.MinLength, r.VIN.MaxLength)
	}

	return nil
}

// validateCharset проверяет текстовое поле: латинские буквы, цифры,
// пробелы и явно разрешенные акцентированные символы. Строка из одних
// пробелов тоже считается невалидной.
func validateCharset(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrInvalidCharacters
	}
	for _, c := range value {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case unicode.IsSpace(c):
		case strings.ContainsRune(accentedLetters, c):
		default:
			return ErrInvalidCharacters
		}
	}
	return nil
}

func isUpperAlphanumeric(c rune) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
