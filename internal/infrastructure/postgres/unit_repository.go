package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo implementación de UnitRepository (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// Create persiste una nueva unidad.
func (r *UnitRepo) Create(ctx context.Context, unit *entity.Unit) error {
	query := `
		INSERT INTO units (id, company_id, code, type, address, area_m2, base_rent, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		unit.ID, unit.CompanyID, unit.Code, unit.Type, unit.Address,
		unit.AreaM2, unit.BaseRent, unit.Notes,
		unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID.
func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	query := `
		SELECT id, company_id, code, type, address, area_m2, base_rent, notes, created_at, updated_at
		FROM units WHERE id = $1`
	var u entity.Unit
	err := r.q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.CompanyID, &u.Code, &u.Type, &u.Address,
		&u.AreaM2, &u.BaseRent, &u.Notes, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

// GetByCompanyAndCode obtiene una unidad por empresa y código interno.
func (r *UnitRepo) GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Unit, error) {
	query := `
		SELECT id, company_id, code, type, address, area_m2, base_rent, notes, created_at, updated_at
		FROM units WHERE company_id = $1 AND code = $2`
	var u entity.Unit
	err := r.q.QueryRow(ctx, query, companyID, code).Scan(
		&u.ID, &u.CompanyID, &u.Code, &u.Type, &u.Address,
		&u.AreaM2, &u.BaseRent, &u.Notes, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit by code: %w", err)
	}
	return &u, nil
}

// ListByCompany lista unidades de la empresa con paginación.
func (r *UnitRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Unit, error) {
	query := `
		SELECT id, company_id, code, type, address, area_m2, base_rent, notes, created_at, updated_at
		FROM units WHERE company_id = $1 ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Code, &u.Type, &u.Address, &u.AreaM2, &u.BaseRent, &u.Notes, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Update actualiza una unidad.
func (r *UnitRepo) Update(ctx context.Context, unit *entity.Unit) error {
	query := `
		UPDATE units SET code = $2, type = $3, address = $4, area_m2 = $5, base_rent = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		unit.ID, unit.Code, unit.Type, unit.Address, unit.AreaM2, unit.BaseRent, unit.Notes, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

// IsOccupied informa si la unidad tiene un contrato ACTIVE cuya vigencia incluye la fecha.
func (r *UnitRepo) IsOccupied(ctx context.Context, unitID string, asOf time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM leases
			 WHERE unit_id = $1
			   AND status  = 'ACTIVE'
			   AND start_date <= $2
			   AND end_date   >= $2
		)`
	var occupied bool
	if err := r.q.QueryRow(ctx, query, unitID, asOf).Scan(&occupied); err != nil {
		return false, fmt.Errorf("check unit occupancy: %w", err)
	}
	return occupied, nil
}
