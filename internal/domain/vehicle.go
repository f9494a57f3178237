package domain

import "time"

// Vehicle - зарегистрированный автомобиль.
// Создается только через NewVehicle, поэтому невалидного Vehicle
// в памяти существовать не может. ID и Version присваивает хранилище.
type Vehicle struct {
	ID           int64     `json:"id"`
	Country      string    `json:"country"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	LicensePlate string    `json:"licensePlate"`
	VinCode      string    `json:"vinCode"`
	Version      int64     `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewVehicle создает автомобиль, прогоняя кандидата через полный
// набор правил. Возвращает ошибку первой нарушенной категории.
func NewVehicle(rules *Rules, in VehicleInput) (*Vehicle, error) {
	if err := rules.Validate(in); err != nil {
		return nil, err
	}

	return &Vehicle{
		Country:      in.Country,
		Brand:        in.Brand,
		Model:        in.Model,
		Year:         in.Year,
		LicensePlate: in.LicensePlate,
		VinCode:      in.VinCode,
	}, nil
}
