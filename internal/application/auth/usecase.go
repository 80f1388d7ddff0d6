package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login y datos de la sesión actual.
type AuthUseCase struct {
	userRepo repository.UserRepository
	table    *access.Table
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, table *access.Table, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, table: table, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto responden igual (401); usuario inactivo → 403.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthenticated("credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.Unauthenticated("credenciales inválidas")
	}
	if !user.IsActive() {
		return nil, domain.Forbidden("el usuario está inactivo")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Session{
		UserID:          user.ID,
		CompanyID:       user.CompanyID,
		ClientCompanyID: user.ClientCompanyID,
		SiteID:          user.SiteID,
		Role:            user.Role,
		CustomRoleID:    user.CustomRoleID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      *ToUserResponse(user),
	}, nil
}

// Me describe la identidad de la sesión: alcance y permisos efectivos.
func (uc *AuthUseCase) Me(id access.Identity) (*dto.MeResponse, error) {
	scope, err := access.ScopeFor(id)
	if err != nil {
		return nil, err
	}
	_, fixed := id.FixedKey()
	perms := uc.table.Effective(id)
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return &dto.MeResponse{
		UserID:          id.UserID,
		Role:            id.RoleName(),
		Custom:          !fixed,
		CompanyID:       id.CompanyID,
		ClientCompanyID: id.ClientCompanyID,
		SiteID:          id.SiteID,
		Scope:           scope.Level.String(),
		Permissions:     out,
	}, nil
}

// Navigation devuelve el menú visible para la identidad.
func (uc *AuthUseCase) Navigation(id access.Identity) ([]dto.NavItemResponse, error) {
	if !id.Authenticated() {
		return nil, domain.Unauthenticated("sesión requerida")
	}
	items := uc.table.Navigation(id)
	out := make([]dto.NavItemResponse, len(items))
	for i, it := range items {
		out[i] = dto.NavItemResponse{Key: it.Key, Label: it.Label, Path: it.Path, Permission: string(it.Permission)}
	}
	return out, nil
}

// ToUserResponse convierte la entidad a DTO sin el hash del password.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:              u.ID,
		CompanyID:       u.CompanyID,
		ClientCompanyID: u.ClientCompanyID,
		SiteID:          u.SiteID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		CustomRoleID:    u.CustomRoleID,
		Status:          u.Status,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
