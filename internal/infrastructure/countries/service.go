package countries

import (
	"context"
	"fmt"
	"strings"

	"github.com/autolab/registry/internal/domain"
)

// Validator проверяет, что страна существует в справочнике
type Validator interface {
	ValidateCountry(ctx context.Context, name string) error
}

// Жестко заданные синонимы: пользователи вводят сокращенные названия,
// которых нет в справочнике
var countryAliases = map[string]string{
	"united states": "united states of america",
	"uk":            "united kingdom",
}

// Service реализует проверку стран поверх Client
type Service struct {
	client Client
}

// NewService создает сервис проверки стран
func NewService(client Client) *Service {
	return &Service{client: client}
}

// GetCountries возвращает список стран из справочника
func (s *Service) GetCountries(ctx context.Context) ([]Country, error) {
	return s.client.GetCountries(ctx)
}

// ValidateCountry проверяет страну по справочнику.
// Сравнение case-insensitive, подстрока в любую сторону: "Spain"
// совпадает со "spain", "United States" - с "United States of America".
func (s *Service) ValidateCountry(ctx context.Context, name string) error {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return fmt.Errorf("%w: empty name", domain.ErrCountryNotValid)
	}

	if alias, ok := countryAliases[normalized]; ok {
		normalized = alias
	}

	countries, err := s.client.GetCountries(ctx)
	if err != nil {
		return err
	}

	for _, country := range countries {
		candidate := strings.ToLower(country.Name)
		if strings.Contains(candidate, normalized) || strings.Contains(normalized, candidate) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", domain.ErrCountryNotValid, name)
}
