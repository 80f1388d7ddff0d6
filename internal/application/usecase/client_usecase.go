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
	"github.com/jhoicas/Mantenimiento-api/pkg/textutil"
)

// ClientUseCase administra las empresas cliente y sus sedes.
type ClientUseCase struct {
	repo  repository.ClientRepository
	guard *access.Guard
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, guard *access.Guard) *ClientUseCase {
	return &ClientUseCase{repo: repo, guard: guard}
}

// CreateClient registra una empresa cliente de la empresa del alcance.
func (uc *ClientUseCase) CreateClient(ctx context.Context, id access.Identity, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermClientsManage)
	if err != nil {
		return nil, err
	}
	companyID, err := scope.CompanyFor(in.CompanyID)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsCompany(companyID) {
		return nil, domain.Forbidden("un usuario de cliente no puede crear clientes")
	}
	now := time.Now()
	client := &entity.ClientCompany{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      textutil.Title(in.Name),
		NIT:       strings.TrimSpace(in.NIT),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.CreateClient(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetClient obtiene una empresa cliente visible en el alcance.
func (uc *ClientUseCase) GetClient(ctx context.Context, id access.Identity, clientID string) (*dto.ClientResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermClientsView)
	if err != nil {
		return nil, err
	}
	client, err := uc.repo.GetClient(ctx, scope, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("empresa cliente no encontrada")
	}
	return toClientResponse(client), nil
}

// ListClients lista las empresas cliente del alcance.
func (uc *ClientUseCase) ListClients(ctx context.Context, id access.Identity, page dto.PageRequest) (*dto.ListResponse[dto.ClientResponse], error) {
	scope, err := uc.guard.Authorize(id, access.PermClientsView)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.ListClients(ctx, scope, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toClientResponse(c))
	}
	out := dto.NewList(items, page)
	return &out, nil
}

// CreateSite registra una sede de una empresa cliente visible en el alcance.
func (uc *ClientUseCase) CreateSite(ctx context.Context, id access.Identity, clientID string, in dto.CreateSiteRequest) (*dto.SiteResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermClientsManage)
	if err != nil {
		return nil, err
	}
	client, err := uc.repo.GetClient(ctx, scope, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("empresa cliente no encontrada")
	}
	now := time.Now()
	site := &entity.Site{
		ID:              uuid.New().String(),
		CompanyID:       client.CompanyID,
		ClientCompanyID: client.ID,
		Name:            textutil.Title(in.Name),
		Address:         strings.TrimSpace(in.Address),
		City:            textutil.Title(in.City),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.CreateSite(ctx, site); err != nil {
		return nil, err
	}
	return toSiteResponse(site), nil
}

// ListSites lista las sedes visibles de una empresa cliente.
func (uc *ClientUseCase) ListSites(ctx context.Context, id access.Identity, clientID string) ([]dto.SiteResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermClientsView)
	if err != nil {
		return nil, err
	}
	client, err := uc.repo.GetClient(ctx, scope, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("empresa cliente no encontrada")
	}
	sites, err := uc.repo.ListSites(ctx, scope, client.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SiteResponse, 0, len(sites))
	for _, s := range sites {
		out = append(out, *toSiteResponse(s))
	}
	return out, nil
}

func toClientResponse(c *entity.ClientCompany) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		NIT:       c.NIT,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}

func toSiteResponse(s *entity.Site) *dto.SiteResponse {
	return &dto.SiteResponse{
		ID:              s.ID,
		CompanyID:       s.CompanyID,
		ClientCompanyID: s.ClientCompanyID,
		Name:            s.Name,
		Address:         s.Address,
		City:            s.City,
		CreatedAt:       s.CreatedAt,
	}
}
