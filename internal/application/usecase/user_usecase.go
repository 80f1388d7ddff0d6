package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
)

// UserInvalidator descarta un usuario de la caché de sesiones.
type UserInvalidator interface {
	Invalidate(userID string)
}

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo       repository.UserRepository
	roleRepo   repository.CustomRoleRepository
	clientRepo repository.ClientRepository
	planRepo   repository.PlanRepository
	cache      UserInvalidator
	guard      *access.Guard
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia. cache puede
// ser nil.
func NewUserUseCase(
	repo repository.UserRepository,
	roleRepo repository.CustomRoleRepository,
	clientRepo repository.ClientRepository,
	planRepo repository.PlanRepository,
	cache UserInvalidator,
	guard *access.Guard,
) *UserUseCase {
	return &UserUseCase{repo: repo, roleRepo: roleRepo, clientRepo: clientRepo, planRepo: planRepo, cache: cache, guard: guard}
}

// GetByID obtiene un usuario visible en el alcance.
func (uc *UserUseCase) GetByID(ctx context.Context, id access.Identity, userID string) (*dto.UserResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermUsersView)
	if err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, scope, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("usuario no encontrado")
	}
	return auth.ToUserResponse(user), nil
}

// List lista usuarios del alcance.
func (uc *UserUseCase) List(ctx context.Context, id access.Identity, page dto.PageRequest) (*dto.ListResponse[dto.UserResponse], error) {
	scope, err := uc.guard.Authorize(id, access.PermUsersView)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, scope, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	out := dto.NewList(items, page)
	return &out, nil
}

// Create crea un usuario: valida rol y ubicación, respeta el límite del plan y
// hashea el password con bcrypt.
func (uc *UserUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermUsersManage)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:              uuid.New().String(),
		ClientCompanyID: in.ClientCompanyID,
		SiteID:          in.SiteID,
		Email:           strings.ToLower(strings.TrimSpace(in.Email)),
		Name:            strings.TrimSpace(in.Name),
		Role:            in.Role,
		CustomRoleID:    in.CustomRoleID,
		Status:          entity.UserStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if key, ok := access.ParseRoleKey(in.Role); ok && (key == access.RoleSuperAdmin || key == access.RoleAdminGrupo) {
		if !scope.IsGlobal() {
			return nil, domain.Forbidden("solo un administrador global puede crear usuarios globales")
		}
	} else {
		if user.CompanyID, err = scope.CompanyFor(in.CompanyID); err != nil {
			return nil, err
		}
	}
	if err := uc.checkPlacement(ctx, scope, user); err != nil {
		return nil, err
	}
	if err := uc.checkUserLimit(ctx, user.CompanyID); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Update modifica nombre, rol, ubicación o estado de un usuario del alcance.
func (uc *UserUseCase) Update(ctx context.Context, id access.Identity, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	scope, err := uc.guard.Authorize(id, access.PermUsersManage)
	if err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, scope, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("usuario no encontrado")
	}
	wasActive := user.IsActive()
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		user.Role = *in.Role
		user.CustomRoleID = ""
	}
	if in.CustomRoleID != nil {
		user.CustomRoleID = *in.CustomRoleID
		user.Role = ""
	}
	if in.ClientCompanyID != nil {
		user.ClientCompanyID = *in.ClientCompanyID
	}
	if in.SiteID != nil {
		user.SiteID = *in.SiteID
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	if key, ok := access.ParseRoleKey(user.Role); ok && (key == access.RoleSuperAdmin || key == access.RoleAdminGrupo) && !scope.IsGlobal() {
		return nil, domain.Forbidden("solo un administrador global puede asignar roles globales")
	}
	if err := uc.checkPlacement(ctx, scope, user); err != nil {
		return nil, err
	}
	if !wasActive && user.IsActive() {
		if err := uc.checkUserLimit(ctx, user.CompanyID); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(user.ID)
	}
	return auth.ToUserResponse(user), nil
}

// checkPlacement valida que el rol exista y que el usuario tenga los IDs que su rol
// exige para calcular un alcance.
func (uc *UserUseCase) checkPlacement(ctx context.Context, scope access.Scope, user *entity.User) error {
	switch {
	case user.Role != "" && user.CustomRoleID != "":
		return domain.InvalidInput("indique role o custom_role_id, no ambos", nil)
	case user.CustomRoleID != "":
		role, err := uc.roleRepo.GetByID(ctx, user.CustomRoleID)
		if err != nil {
			return err
		}
		if role == nil || role.CompanyID != user.CompanyID {
			return domain.InvalidInput("rol personalizado no encontrado en la empresa", map[string]string{"custom_role_id": user.CustomRoleID})
		}
	default:
		key, ok := access.ParseRoleKey(user.Role)
		if !ok {
			return domain.InvalidInput("rol desconocido", map[string]string{"role": user.Role})
		}
		if key == access.RoleSuperAdmin || key == access.RoleAdminGrupo {
			user.CompanyID, user.ClientCompanyID, user.SiteID = "", "", ""
			return nil
		}
		if key.IsClient() && user.ClientCompanyID == "" && (user.SiteID == "" || key == access.RoleClienteAdminGeneral) {
			return domain.InvalidInput("el rol requiere empresa cliente", map[string]string{"client_company_id": "required"})
		}
		if (key == access.RoleClienteAdminSede || key == access.RoleClienteOperario) && user.SiteID == "" {
			return domain.InvalidInput("el rol requiere sede", map[string]string{"site_id": "required"})
		}
		if !key.IsClient() {
			user.ClientCompanyID, user.SiteID = "", ""
		}
		if key == access.RoleClienteAdminGeneral {
			user.SiteID = ""
		}
	}
	if user.SiteID != "" {
		site, err := uc.clientRepo.GetSite(ctx, scope, user.SiteID)
		if err != nil {
			return err
		}
		if site == nil || site.CompanyID != user.CompanyID {
			return domain.InvalidInput("sede no encontrada", map[string]string{"site_id": user.SiteID})
		}
		if user.ClientCompanyID == "" {
			user.ClientCompanyID = site.ClientCompanyID
		}
		if site.ClientCompanyID != user.ClientCompanyID {
			return domain.InvalidInput("la sede no pertenece a la empresa cliente", map[string]string{"site_id": user.SiteID})
		}
	}
	if user.ClientCompanyID != "" {
		client, err := uc.clientRepo.GetClient(ctx, scope, user.ClientCompanyID)
		if err != nil {
			return err
		}
		if client == nil || client.CompanyID != user.CompanyID {
			return domain.InvalidInput("empresa cliente no encontrada", map[string]string{"client_company_id": user.ClientCompanyID})
		}
		return nil
	}
	if !scope.AllowsCompany(user.CompanyID) {
		return domain.Forbidden("un usuario de cliente no puede administrar usuarios de la empresa")
	}
	return nil
}

func (uc *UserUseCase) checkUserLimit(ctx context.Context, companyID string) error {
	if companyID == "" {
		return nil
	}
	plan, err := uc.planRepo.GetByCompany(ctx, companyID)
	if err != nil || plan == nil || plan.MaxUsers == 0 {
		return err
	}
	n, err := uc.repo.CountActiveByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if plan.UsersLimitReached(n) {
		return domain.Conflict("el plan alcanzó el máximo de usuarios", domain.ErrPlanLimitReached)
	}
	return nil
}
