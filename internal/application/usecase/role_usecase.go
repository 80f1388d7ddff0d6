package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// RoleInvalidator descarta un rol personalizado de la caché de sesiones.
type RoleInvalidator interface {
	Invalidate(roleID string)
}

// RoleUseCase administra los roles personalizados de una empresa.
type RoleUseCase struct {
	repo     repository.CustomRoleRepository
	userRepo repository.UserRepository
	cache    RoleInvalidator
	guard    *access.Guard
}

// NewRoleUseCase construye el caso de uso. cache puede ser nil.
func NewRoleUseCase(repo repository.CustomRoleRepository, userRepo repository.UserRepository, cache RoleInvalidator, guard *access.Guard) *RoleUseCase {
	return &RoleUseCase{repo: repo, userRepo: userRepo, cache: cache, guard: guard}
}

// Catalog devuelve el catálogo de permisos asignables.
func (uc *RoleUseCase) Catalog(id access.Identity) ([]string, error) {
	if err := uc.guard.Require(id, access.PermRolesManage); err != nil {
		return nil, err
	}
	perms := uc.guard.Table().Permissions()
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out, nil
}

// List lista los roles de la empresa. Los roles globales indican la empresa.
func (uc *RoleUseCase) List(ctx context.Context, id access.Identity, companyID string) ([]dto.CustomRoleResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermRolesManage)
	if err != nil {
		return nil, err
	}
	if companyID, err = scope.CompanyFor(companyID); err != nil {
		return nil, err
	}
	if !scope.AllowsCompany(companyID) {
		return nil, domain.Forbidden("los roles son de nivel empresa")
	}
	roles, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomRoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return out, nil
}

// Create registra un rol personalizado con permisos del catálogo.
func (uc *RoleUseCase) Create(ctx context.Context, id access.Identity, in dto.CustomRoleRequest) (*dto.CustomRoleResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermRolesManage)
	if err != nil {
		return nil, err
	}
	companyID, err := scope.CompanyFor(in.CompanyID)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsCompany(companyID) {
		return nil, domain.Forbidden("los roles son de nivel empresa")
	}
	perms, err := uc.validPermissions(id, scope, in.Permissions)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	role := &entity.CustomRole{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	out := toRoleResponse(role)
	return &out, nil
}

// Update reemplaza nombre y permisos del rol e invalida la caché de sesiones.
func (uc *RoleUseCase) Update(ctx context.Context, id access.Identity, roleID string, in dto.CustomRoleRequest) (*dto.CustomRoleResponse, error) {
	role, scope, err := uc.load(ctx, id, roleID)
	if err != nil {
		return nil, err
	}
	perms, err := uc.validPermissions(id, scope, in.Permissions)
	if err != nil {
		return nil, err
	}
	role.Name = strings.TrimSpace(in.Name)
	role.Description = in.Description
	role.Permissions = perms
	role.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	uc.invalidate(role.ID)
	out := toRoleResponse(role)
	return &out, nil
}

// Delete borra un rol sin usuarios asignados.
func (uc *RoleUseCase) Delete(ctx context.Context, id access.Identity, roleID string) error {
	role, _, err := uc.load(ctx, id, roleID)
	if err != nil {
		return err
	}
	n, err := uc.userRepo.CountByCustomRole(ctx, role.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflict("el rol tiene usuarios asignados", domain.ErrConflict)
	}
	if err := uc.repo.Delete(ctx, role.ID); err != nil {
		return err
	}
	uc.invalidate(role.ID)
	return nil
}

func (uc *RoleUseCase) load(ctx context.Context, id access.Identity, roleID string) (*entity.CustomRole, access.Scope, error) {
	scope, err := uc.guard.Authorize(id, access.PermRolesManage)
	if err != nil {
		return nil, access.Scope{}, err
	}
	role, err := uc.repo.GetByID(ctx, roleID)
	if err != nil {
		return nil, access.Scope{}, err
	}
	if role == nil || !scope.AllowsCompany(role.CompanyID) {
		return nil, access.Scope{}, domain.NotFound("rol no encontrado")
	}
	return role, scope, nil
}

// validPermissions exige claves del catálogo que el propio usuario tenga; los permisos
// de plataforma solo se delegan desde un alcance global. Devuelve el conjunto ordenado
// y sin duplicados.
func (uc *RoleUseCase) validPermissions(id access.Identity, scope access.Scope, in []string) ([]string, error) {
	table := uc.guard.Table()
	seen := make(map[string]bool, len(in))
	var unknown, denied []string
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		perm := access.Permission(p)
		if !table.Known(perm) {
			unknown = append(unknown, p)
			continue
		}
		if !table.HasPermission(id, perm) || (perm.Platform() && !scope.IsGlobal()) {
			denied = append(denied, p)
			continue
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	if len(unknown) > 0 {
		return nil, domain.InvalidInput("permisos desconocidos", map[string][]string{"permissions": unknown})
	}
	if len(denied) > 0 {
		return nil, domain.Forbidden("no puede delegar permisos que no tiene: " + strings.Join(denied, ", "))
	}
	if len(out) == 0 {
		return nil, domain.InvalidInput("el rol debe tener al menos un permiso", map[string]string{"permissions": "min=1"})
	}
	sort.Strings(out)
	return out, nil
}

func (uc *RoleUseCase) invalidate(roleID string) {
	if uc.cache != nil {
		uc.cache.Invalidate(roleID)
	}
}

func toRoleResponse(r *entity.CustomRole) dto.CustomRoleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return dto.CustomRoleResponse{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
