package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// AttendanceUseCase registra entradas y salidas del usuario de la sesión.
type AttendanceUseCase struct {
	repo   repository.AttendanceRepository
	placer placer
	guard  *access.Guard
}

// NewAttendanceUseCase construye el caso de uso.
func NewAttendanceUseCase(repo repository.AttendanceRepository, clientRepo repository.ClientRepository, guard *access.Guard) *AttendanceUseCase {
	return &AttendanceUseCase{repo: repo, placer: placer{clients: clientRepo}, guard: guard}
}

// CheckIn abre una entrada. Un usuario con entrada abierta recibe Conflict.
func (uc *AttendanceUseCase) CheckIn(ctx context.Context, id access.Identity, in dto.CheckInRequest) (*dto.AttendanceResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermAttendanceRegister)
	if err != nil {
		return nil, err
	}
	if scope.IsGlobal() {
		return nil, domain.Forbidden("los usuarios globales no registran asistencia")
	}
	open, err := uc.repo.GetOpenByUser(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.Conflict("el usuario ya tiene una entrada abierta", domain.ErrDuplicate)
	}
	siteID := in.SiteID
	if scope.SiteID != "" {
		siteID = scope.SiteID
	}
	t, err := uc.placer.place(ctx, scope, "", "", siteID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	rec := &entity.AttendanceRecord{
		ID:              uuid.New().String(),
		CompanyID:       t.CompanyID,
		ClientCompanyID: t.ClientCompanyID,
		SiteID:          t.SiteID,
		UserID:          id.UserID,
		CheckInAt:       now,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return toAttendanceResponse(rec), nil
}

// CheckOut cierra la entrada abierta del usuario.
func (uc *AttendanceUseCase) CheckOut(ctx context.Context, id access.Identity, in dto.CheckOutRequest) (*dto.AttendanceResponse, error) {
	if _, err := uc.guard.Authorize(id, access.PermAttendanceRegister); err != nil {
		return nil, err
	}
	rec, err := uc.repo.GetOpenByUser(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.Conflict("el usuario no tiene una entrada abierta", domain.ErrConflict)
	}
	now := time.Now()
	rec.CheckOutAt = &now
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		if rec.Notes != "" {
			rec.Notes += "\n"
		}
		rec.Notes += notes
	}
	if err := uc.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return toAttendanceResponse(rec), nil
}

// List lista registros del alcance.
func (uc *AttendanceUseCase) List(ctx context.Context, id access.Identity, q dto.AttendanceQuery) (*dto.ListResponse[dto.AttendanceResponse], error) {
	scope, err := uc.guard.Authorize(id, access.PermAttendanceView)
	if err != nil {
		return nil, err
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, domain.InvalidInput("rango de fechas inválido", map[string]string{"to": "gtefield=from"})
	}
	q.DefaultPage()
	list, err := uc.repo.List(ctx, scope, repository.AttendanceFilter{UserID: q.UserID, From: q.From, To: q.To}, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AttendanceResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toAttendanceResponse(r))
	}
	out := dto.NewList(items, q.PageRequest)
	return &out, nil
}

func toAttendanceResponse(r *entity.AttendanceRecord) *dto.AttendanceResponse {
	out := &dto.AttendanceResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		CompanyID:       r.CompanyID,
		ClientCompanyID: r.ClientCompanyID,
		SiteID:          r.SiteID,
		CheckInAt:       r.CheckInAt,
		CheckOutAt:      r.CheckOutAt,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		Notes:           r.Notes,
	}
	if r.CheckOutAt != nil {
		out.WorkedMinutes = int(r.CheckOutAt.Sub(r.CheckInAt) / time.Minute)
	}
	return out
}
