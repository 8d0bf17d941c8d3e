package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/arriendo-pro/internal/domain"
	"github.com/tu-usuario/arriendo-pro/internal/domain/entity"
	"github.com/tu-usuario/arriendo-pro/internal/domain/repository"
)

var _ repository.LeaseRepository = (*LeaseRepo)(nil)

// LeaseRepo implementación de LeaseRepository (usable con pool o tx).
type LeaseRepo struct {
	q Querier
}

// NewLeaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeaseRepository(q Querier) *LeaseRepo {
	return &LeaseRepo{q: q}
}

const leaseColumns = `id, company_id, unit_id, customer_id, contract_number,
	start_date, end_date, monthly_rent, deposit, status, terminated_at, created_at, updated_at`

// Create persiste un nuevo contrato.
func (r *LeaseRepo) Create(ctx context.Context, lease *entity.Lease) error {
	query := `
		INSERT INTO leases (id, company_id, unit_id, customer_id, contract_number,
			start_date, end_date, monthly_rent, deposit, status, terminated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		lease.ID, lease.CompanyID, lease.UnitID, lease.CustomerID, lease.ContractNumber,
		lease.StartDate, lease.EndDate, lease.MonthlyRent, lease.Deposit,
		lease.Status, lease.TerminatedAt, lease.CreatedAt, lease.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lease: %w", err)
	}
	return nil
}

// GetByID obtiene un contrato por ID.
func (r *LeaseRepo) GetByID(ctx context.Context, id string) (*entity.Lease, error) {
	query := `SELECT ` + leaseColumns + ` FROM leases WHERE id = $1`
	var l entity.Lease
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.CompanyID, &l.UnitID, &l.CustomerID, &l.ContractNumber,
		&l.StartDate, &l.EndDate, &l.MonthlyRent, &l.Deposit,
		&l.Status, &l.TerminatedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lease: %w", err)
	}
	return &l, nil
}

// ListByCompany lista contratos de la empresa, con filtro opcional por estado.
func (r *LeaseRepo) ListByCompany(ctx context.Context, companyID, status string, limit, offset int) ([]*entity.Lease, error) {
	query := `SELECT ` + leaseColumns + `
		FROM leases
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY start_date DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list leases: %w", err)
	}
	defer rows.Close()
	return scanLeases(rows)
}

// ListActiveByCompany devuelve todos los contratos ACTIVE (entrada de la corrida de facturación).
func (r *LeaseRepo) ListActiveByCompany(ctx context.Context, companyID string) ([]*entity.Lease, error) {
	query := `SELECT ` + leaseColumns + `
		FROM leases WHERE company_id = $1 AND status = 'ACTIVE' ORDER BY contract_number`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list active leases: %w", err)
	}
	defer rows.Close()
	return scanLeases(rows)
}

func scanLeases(rows pgx.Rows) ([]*entity.Lease, error) {
	var list []*entity.Lease
	for rows.Next() {
		var l entity.Lease
		if err := rows.Scan(
			&l.ID, &l.CompanyID, &l.UnitID, &l.CustomerID, &l.ContractNumber,
			&l.StartDate, &l.EndDate, &l.MonthlyRent, &l.Deposit,
			&l.Status, &l.TerminatedAt, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lease: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Update actualiza un contrato (cambios de estado, terminación anticipada).
func (r *LeaseRepo) Update(ctx context.Context, lease *entity.Lease) error {
	query := `
		UPDATE leases SET contract_number = $2, start_date = $3, end_date = $4,
			monthly_rent = $5, deposit = $6, status = $7, terminated_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		lease.ID, lease.ContractNumber, lease.StartDate, lease.EndDate,
		lease.MonthlyRent, lease.Deposit, lease.Status, lease.TerminatedAt, lease.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lease: %w", err)
	}
	return nil
}

// HasOverlappingActive informa si existe otro contrato ACTIVE sobre la unidad
// cuya vigencia se solapa con [start, end] (rangos inclusivos). Un
// excludeLeaseID vacío no excluye nada; se compara como texto para que el
// valor vacío no rompa el cast a uuid.
func (r *LeaseRepo) HasOverlappingActive(ctx context.Context, unitID string, start, end time.Time, excludeLeaseID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM leases
			 WHERE unit_id = $1
			   AND status  = 'ACTIVE'
			   AND ($4 = '' OR id::text <> $4)
			   AND start_date <= $3
			   AND end_date   >= $2
		)`
	var overlaps bool
	if err := r.q.QueryRow(ctx, query, unitID, start, end, excludeLeaseID).Scan(&overlaps); err != nil {
		return false, fmt.Errorf("check lease overlap: %w", err)
	}
	return overlaps, nil
}

// CreateCharge persiste un concepto de cobro del contrato.
func (r *LeaseRepo) CreateCharge(ctx context.Context, charge *entity.LeaseCharge) error {
	query := `
		INSERT INTO lease_charges (id, lease_id, concept, description, amount, taxed, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		charge.ID, charge.LeaseID, charge.Concept, charge.Description,
		charge.Amount, charge.Taxed, charge.Active,
		charge.CreatedAt, charge.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lease charge: %w", err)
	}
	return nil
}

// ListChargesByLease lista los conceptos de cobro del contrato.
func (r *LeaseRepo) ListChargesByLease(ctx context.Context, leaseID string) ([]*entity.LeaseCharge, error) {
	query := `
		SELECT id, lease_id, concept, description, amount, taxed, active, created_at, updated_at
		FROM lease_charges WHERE lease_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, leaseID)
	if err != nil {
		return nil, fmt.Errorf("list lease charges: %w", err)
	}
	defer rows.Close()
	var list []*entity.LeaseCharge
	for rows.Next() {
		var c entity.LeaseCharge
		if err := rows.Scan(&c.ID, &c.LeaseID, &c.Concept, &c.Description, &c.Amount, &c.Taxed, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lease charge: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// UpdateCharge actualiza un concepto de cobro (activación/desactivación, tarifa).
func (r *LeaseRepo) UpdateCharge(ctx context.Context, charge *entity.LeaseCharge) error {
	query := `
		UPDATE lease_charges SET concept = $2, description = $3, amount = $4, taxed = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		charge.ID, charge.Concept, charge.Description, charge.Amount, charge.Taxed, charge.Active, charge.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lease charge: %w", err)
	}
	return nil
}
