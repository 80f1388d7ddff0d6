package repository

import (
	"context"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
)

// AttendanceRepository define el puerto de persistencia para registros de asistencia.
type AttendanceRepository interface {
	Create(ctx context.Context, rec *entity.AttendanceRecord) error
	Update(ctx context.Context, rec *entity.AttendanceRecord) error
	// GetOpenByUser devuelve la entrada sin salida del usuario o (nil, nil).
	GetOpenByUser(ctx context.Context, userID string) (*entity.AttendanceRecord, error)
	List(ctx context.Context, scope access.Scope, f AttendanceFilter, limit, offset int) ([]*entity.AttendanceRecord, error)
}
