// seed carga datos iniciales en la base: plan completo, super administrador
// e importación de activos desde CSV exportado por Excel.
//
// Uso:
//
//	go run ./cmd/seed base --admin-email admin@empresa.co --admin-password ...
//	go run ./cmd/seed assets --file equipos.csv --company-id ... [--site-id ...]
package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Mantenimiento-api/pkg/config"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

var log = logger.New(logger.Config{Env: "development", Level: "info", Service: "seed"})

func main() {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Carga datos iniciales de Mantenimiento API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBaseCommand())
	root.AddCommand(newAssetsCommand())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("seed")
		os.Exit(1)
	}
}

// openPool usa el DSN explícito o, si está vacío, la configuración de entorno de la API.
func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn != "" {
		return postgres.NewPoolFromDSN(ctx, dsn)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return postgres.NewPool(ctx, cfg.DB)
}
