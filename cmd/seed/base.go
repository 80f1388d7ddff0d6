package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/postgres"
)

const (
	databaseURLFlag   = "database-url"
	planNameFlag      = "plan-name"
	adminEmailFlag    = "admin-email"
	adminPasswordFlag = "admin-password"
	adminNameFlag     = "admin-name"
)

var baseFlags = map[string]cobraflags.Flag{
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: "DSN de PostgreSQL; vacío usa DATABASE_URL / DB_* del entorno",
	},
	planNameFlag: &cobraflags.StringFlag{
		Name:  planNameFlag,
		Value: "Completo",
		Usage: "Nombre del plan con todos los módulos",
	},
	adminEmailFlag: &cobraflags.StringFlag{
		Name:  adminEmailFlag,
		Value: "",
		Usage: "Email del super administrador (requerido)",
	},
	adminPasswordFlag: &cobraflags.StringFlag{
		Name:  adminPasswordFlag,
		Value: "",
		Usage: "Contraseña inicial del super administrador (mínimo 8 caracteres)",
	},
	adminNameFlag: &cobraflags.StringFlag{
		Name:  adminNameFlag,
		Value: "Super Administrador",
		Usage: "Nombre visible del super administrador",
	},
}

func newBaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base",
		Short: "Crea el plan completo y el super administrador",
		Long: `Crea, si no existen, un plan de suscripción con todos los módulos
y un usuario SUPER_ADMIN. Es idempotente: puede ejecutarse varias veces.`,
		RunE: baseCommand,
	}
	cobraflags.RegisterMap(cmd, baseFlags)
	return cmd
}

func baseCommand(cmd *cobra.Command, _ []string) error {
	email := strings.TrimSpace(baseFlags[adminEmailFlag].GetString())
	password := baseFlags[adminPasswordFlag].GetString()
	if email == "" {
		return fmt.Errorf("--%s es requerido", adminEmailFlag)
	}
	if len(password) < 8 {
		return fmt.Errorf("--%s debe tener al menos 8 caracteres", adminPasswordFlag)
	}

	ctx := cmd.Context()
	pool, err := openPool(ctx, baseFlags[databaseURLFlag].GetString())
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	now := time.Now().UTC()
	if err := seedPlan(ctx, postgres.NewPlanRepository(pool), baseFlags[planNameFlag].GetString(), now); err != nil {
		return err
	}
	return seedSuperAdmin(ctx, postgres.NewUserRepository(pool), email, password, baseFlags[adminNameFlag].GetString(), now)
}

func seedPlan(ctx context.Context, plans repository.PlanRepository, name string, now time.Time) error {
	existing, err := plans.List(ctx)
	if err != nil {
		return fmt.Errorf("listar planes: %w", err)
	}
	for _, p := range existing {
		if strings.EqualFold(p.Name, name) {
			log.Info().Str("plan_id", p.ID).Str("name", p.Name).Msg("plan ya existe")
			return nil
		}
	}
	plan := &entity.SubscriptionPlan{
		ID:           uuid.New().String(),
		Name:         name,
		Modules:      entity.Modules(),
		PriceMonthly: decimal.Zero,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := plans.Create(ctx, plan); err != nil {
		return fmt.Errorf("crear plan: %w", err)
	}
	log.Info().Str("plan_id", plan.ID).Strs("modules", plan.Modules).Msg("plan creado")
	return nil
}

func seedSuperAdmin(ctx context.Context, users repository.UserRepository, email, password, name string, now time.Time) error {
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("buscar usuario: %w", err)
	}
	if existing != nil {
		log.Info().Str("user_id", existing.ID).Str("email", email).Msg("super administrador ya existe")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash de contraseña: %w", err)
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         string(access.RoleSuperAdmin),
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("crear super administrador: %w", err)
	}
	log.Info().Str("user_id", user.ID).Str("email", email).Msg("super administrador creado")
	return nil
}
