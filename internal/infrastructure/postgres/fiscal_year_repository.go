package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

var _ repository.FiscalYearRepository = (*FiscalYearRepo)(nil)

// FiscalYearRepo implementación de FiscalYearRepository (usable con pool o tx).
type FiscalYearRepo struct {
	q Querier
}

// NewFiscalYearRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFiscalYearRepository(q Querier) *FiscalYearRepo {
	return &FiscalYearRepo{q: q}
}

const fiscalYearColumns = `id, company_id, label, start_date, end_date, status, closed_at, created_at, updated_at`

// Create persiste un nuevo año fiscal.
func (r *FiscalYearRepo) Create(ctx context.Context, fy *entity.FiscalYear) error {
	query := `
		INSERT INTO fiscal_years (id, company_id, label, start_date, end_date, status, closed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		fy.ID, fy.CompanyID, fy.Label, fy.StartDate, fy.EndDate,
		fy.Status, fy.ClosedAt, fy.CreatedAt, fy.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert fiscal year: %w", err)
	}
	return nil
}

// GetByID obtiene un año fiscal por ID.
func (r *FiscalYearRepo) GetByID(ctx context.Context, id string) (*entity.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE id = $1`
	var fy entity.FiscalYear
	err := r.q.QueryRow(ctx, query, id).Scan(
		&fy.ID, &fy.CompanyID, &fy.Label, &fy.StartDate, &fy.EndDate,
		&fy.Status, &fy.ClosedAt, &fy.CreatedAt, &fy.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal year: %w", err)
	}
	return &fy, nil
}

// ListByCompany lista los años fiscales de la empresa, del más reciente al más antiguo.
func (r *FiscalYearRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + `
		FROM fiscal_years WHERE company_id = $1 ORDER BY start_date DESC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list fiscal years: %w", err)
	}
	defer rows.Close()
	var list []*entity.FiscalYear
	for rows.Next() {
		var fy entity.FiscalYear
		if err := rows.Scan(&fy.ID, &fy.CompanyID, &fy.Label, &fy.StartDate, &fy.EndDate, &fy.Status, &fy.ClosedAt, &fy.CreatedAt, &fy.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan fiscal year: %w", err)
		}
		list = append(list, &fy)
	}
	return list, rows.Err()
}

// Update actualiza un año fiscal (cierre).
func (r *FiscalYearRepo) Update(ctx context.Context, fy *entity.FiscalYear) error {
	query := `
		UPDATE fiscal_years SET label = $2, start_date = $3, end_date = $4, status = $5, closed_at = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		fy.ID, fy.Label, fy.StartDate, fy.EndDate, fy.Status, fy.ClosedAt, fy.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update fiscal year: %w", err)
	}
	return nil
}

// HasOverlapping informa si algún año fiscal de la empresa se solapa con [start, end]
// (rangos inclusivos).
func (r *FiscalYearRepo) HasOverlapping(ctx context.Context, companyID string, start, end time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM fiscal_years
			 WHERE company_id = $1
			   AND start_date <= $3
			   AND end_date   >= $2
		)`
	var overlaps bool
	if err := r.q.QueryRow(ctx, query, companyID, start, end).Scan(&overlaps); err != nil {
		return false, fmt.Errorf("check fiscal year overlap: %w", err)
	}
	return overlaps, nil
}

// GetOpenByDate devuelve el año fiscal OPEN que cubre la fecha, o nil si no hay.
func (r *FiscalYearRepo) GetOpenByDate(ctx context.Context, companyID string, date time.Time) (*entity.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE company_id = $1 AND status = 'OPEN' AND start_date <= $2 AND end_date >= $2`
	var fy entity.FiscalYear
	err := r.q.QueryRow(ctx, query, companyID, date).Scan(
		&fy.ID, &fy.CompanyID, &fy.Label, &fy.StartDate, &fy.EndDate,
		&fy.Status, &fy.ClosedAt, &fy.CreatedAt, &fy.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open fiscal year: %w", err)
	}
	return &fy, nil
}
