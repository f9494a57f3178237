package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/autolab/registry/internal/domain"
	"github.com/autolab/registry/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Имена уникальных индексов из миграции 0001_create_vehicles.sql.
// По ним нарушение уникальности распознается как VIN или номер.
const (
	vinConstraint   = "vehicles_vin_code_key"
	plateConstraint = "vehicles_license_plate_key"
)

const vehicleColumns = "id, country, brand, model, year, license_plate, vin_code, version, created_at, updated_at"

type vehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (country, brand, model, year, license_plate, vin_code, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	vehicle.Version = 1
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt

	err := r.db.QueryRow(ctx, query,
		vehicle.Country,
		vehicle.Brand,
		vehicle.Model,
		vehicle.Year,
		vehicle.LicensePlate,
		vehicle.VinCode,
		vehicle.Version,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	).Scan(&vehicle.ID)

	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return err
	}

	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	vehicle, err := scanVehicle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *vehicleRepository) GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE license_plate = $1`

	vehicle, err := scanVehicle(r.db.QueryRow(ctx, query, licensePlate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *vehicleRepository) List(ctx context.Context, criteria domain.ListCriteria) ([]*domain.Vehicle, int, error) {
	// Сервисный слой уже проверил границы, но хранилище
	// перепроверяет на случай прямого вызова
	if criteria.Page <= 0 || criteria.PageSize <= 0 {
		return nil, 0, domain.ErrInvalidPagination
	}

	where, args := listConditions(criteria)

	countQuery := "SELECT count(*) FROM vehicles" + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM vehicles%s%s LIMIT $%d OFFSET $%d",
		vehicleColumns,
		where,
		orderClause(criteria.OrderBy),
		len(args)+1,
		len(args)+2,
	)
	args = append(args, criteria.PageSize, (criteria.Page-1)*criteria.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	// Оптимистичная блокировка: запись обновляется только если
	// версия не изменилась с момента чтения
	query := `
		UPDATE vehicles
		SET country = $3, brand = $4, model = $5, year = $6, license_plate = $7, vin_code = $8,
		    version = version + 1, updated_at = $9
		WHERE id = $1 AND version = $2
	`

	vehicle.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.Version,
		vehicle.Country,
		vehicle.Brand,
		vehicle.Model,
		vehicle.Year,
		vehicle.LicensePlate,
		vehicle.VinCode,
		vehicle.UpdatedAt,
	)

	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return err
	}

	if result.RowsAffected() == 0 {
		// Либо записи нет, либо ее успел изменить другой запрос
		if _, err := r.GetByID(ctx, vehicle.ID); err != nil {
			return err
		}
		return domain.ErrConcurrentModification
	}

	vehicle.Version++
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

// listConditions собирает WHERE из активных фильтров.
// Все фильтры комбинируются по AND, порядок добавления не влияет
// на результат.
func listConditions(c domain.ListCriteria) (string, []any) {
	var conds []string
	var args []any

	addContains := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, containsPattern(value))
		conds = append(conds, fmt.Sprintf("%s LIKE $%d", column, len(args)))
	}

	addContains("country", c.Country)
	addContains("brand", c.Brand)
	addContains("model", c.Model)
	addContains("license_plate", c.LicensePlate)
	addContains("vin_code", c.VinCode)

	if c.Year != nil {
		args = append(args, *c.Year)
		conds = append(conds, fmt.Sprintf("year = $%d", len(args)))
	}
	if c.YearFrom != nil {
		args = append(args, *c.YearFrom)
		conds = append(conds, fmt.Sprintf("year >= $%d", len(args)))
	}
	if c.YearTo != nil {
		args = append(args, *c.YearTo)
		conds = append(conds, fmt.Sprintf("year <= $%d", len(args)))
	}

	if len(c.LicensePlates) > 0 {
		args = append(args, c.LicensePlates)
		conds = append(conds, fmt.Sprintf("license_plate = ANY($%d)", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause возвращает ORDER BY для ключа сортировки.
// Без явного ключа порядок - по возрастанию ID (порядок вставки).
func orderClause(orderBy domain.OrderBy) string {
	switch orderBy {
	case domain.OrderYearDesc:
		return " ORDER BY year DESC, id"
	case domain.OrderYearAsc:
		return " ORDER BY year ASC, id"
	case domain.OrderBrandDesc:
		return " ORDER BY brand DESC, id"
	case domain.OrderBrandAsc:
		return " ORDER BY brand ASC, id"
	default:
		return " ORDER BY id"
	}
}

// containsPattern экранирует спецсимволы LIKE и оборачивает значение
// в %...%. Поиск case-sensitive.
func containsPattern(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
	return "%" + escaped + "%"
}

// mapUniqueViolation переводит нарушение уникального индекса в
// доменную ошибку. Возвращает nil, если ошибка не о дубликате.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	switch pgErr.ConstraintName {
	case vinConstraint:
		return domain.ErrDuplicateVin
	case plateConstraint:
		return domain.ErrDuplicatePlate
	default:
		return nil
	}
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	err := row.Scan(
		&vehicle.ID,
		&vehicle.Country,
		&vehicle.Brand,
		&vehicle.Model,
		&vehicle.Year,
		&vehicle.LicensePlate,
		&vehicle.VinCode,
		&vehicle.Version,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}
