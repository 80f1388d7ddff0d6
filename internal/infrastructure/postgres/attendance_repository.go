package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

var _ repository.AttendanceRepository = (*AttendanceRepo)(nil)

// AttendanceRepo implementación del puerto AttendanceRepository sobre PostgreSQL.
type AttendanceRepo struct {
	db Querier
}

// NewAttendanceRepository construye el adaptador de persistencia para asistencia.
func NewAttendanceRepository(db Querier) *AttendanceRepo {
	return &AttendanceRepo{db: db}
}

const attendanceColumns = `id, company_id, COALESCE(client_company_id::text, ''), COALESCE(site_id::text, ''),
	user_id, check_in_at, check_out_at, latitude, longitude, notes, created_at`

func scanAttendance(row interface{ Scan(...any) error }) (*entity.AttendanceRecord, error) {
	var a entity.AttendanceRecord
	err := row.Scan(&a.ID, &a.CompanyID, &a.ClientCompanyID, &a.SiteID,
		&a.UserID, &a.CheckInAt, &a.CheckOutAt, &a.Latitude, &a.Longitude, &a.Notes, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste una entrada. El índice único parcial rechaza una segunda entrada abierta.
func (r *AttendanceRepo) Create(ctx context.Context, a *entity.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (id, company_id, client_company_id, site_id, user_id, check_in_at, check_out_at,
		                                latitude, longitude, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.CompanyID, nullable(a.ClientCompanyID), nullable(a.SiteID), a.UserID, a.CheckInAt, a.CheckOutAt,
		a.Latitude, a.Longitude, a.Notes, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("el usuario ya tiene una entrada abierta", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// Update registra la salida y notas.
func (r *AttendanceRepo) Update(ctx context.Context, a *entity.AttendanceRecord) error {
	query := `UPDATE attendance_records SET check_out_at = $2, notes = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, a.ID, a.CheckOutAt, a.Notes); err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return nil
}

// GetOpenByUser devuelve la entrada abierta del usuario.
func (r *AttendanceRepo) GetOpenByUser(ctx context.Context, userID string) (*entity.AttendanceRecord, error) {
	a, err := scanAttendance(r.db.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendance_records WHERE user_id = $1 AND check_out_at IS NULL`, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open attendance: %w", err)
	}
	return a, nil
}

// List lista registros visibles con filtros opcionales.
func (r *AttendanceRepo) List(ctx context.Context, scope access.Scope, f repository.AttendanceFilter, limit, offset int) ([]*entity.AttendanceRecord, error) {
	var w where
	w.scope(scope, defaultTenant)
	if f.UserID != "" {
		w.eq("user_id", f.UserID)
	}
	if f.From != nil {
		w.raw("check_in_at >= " + w.arg(*f.From))
	}
	if f.To != nil {
		w.raw("check_in_at < " + w.arg(*f.To))
	}
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records` + w.sql() + ` ORDER BY check_in_at DESC` + w.page(limit, offset)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()
	var list []*entity.AttendanceRecord
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
