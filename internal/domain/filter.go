package domain

import "strings"

// OrderBy - фиксированный набор ключей сортировки списка
type OrderBy string

const (
	OrderNone      OrderBy = ""
	OrderYearDesc  OrderBy = "year_desc"
	OrderYearAsc   OrderBy = "year_asc"
	OrderBrandDesc OrderBy = "brand_desc"
	OrderBrandAsc  OrderBy = "brand_asc"
)

// Valid сообщает, входит ли ключ в допустимый набор
func (o OrderBy) Valid() bool {
	switch o {
	case OrderNone, OrderYearDesc, OrderYearAsc, OrderBrandDesc, OrderBrandAsc:
		return true
	}
	return false
}

// Пределы пагинации, проверяются сервисным слоем
const (
	MinPageSize = 1
	MaxPageSize = 100
)

// ListCriteria - набор опциональных фильтров списка автомобилей.
// Все активные фильтры применяются конъюнктивно (AND). Строковые
// фильтры - case-sensitive поиск подстроки. Пустое значение
// означает "фильтр не задан".
type ListCriteria struct {
	Country      string
	Brand        string
	Model        string
	LicensePlate string
	VinCode      string

	// Year - точное совпадение года; YearFrom/YearTo - независимые
	// границы диапазона, комбинируются с Year по AND
	Year     *int
	YearFrom *int
	YearTo   *int

	// LicensePlates - явный набор номеров (проверка вхождения)
	LicensePlates []string

	OrderBy  OrderBy
	Page     int
	PageSize int
}

// Trimmed возвращает копию критериев с обрезанными пробелами
// в строковых фильтрах
func (c ListCriteria) Trimmed() ListCriteria {
	c.Country = strings.TrimSpace(c.Country)
	c.Brand = strings.TrimSpace(c.Brand)
	c.Model = strings.TrimSpace(c.Model)
	c.LicensePlate = strings.TrimSpace(c.LicensePlate)
	c.VinCode = strings.TrimSpace(c.VinCode)
	return c
}
