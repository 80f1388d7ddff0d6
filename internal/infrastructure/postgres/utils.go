package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// writeErr traduce errores de escritura: único → Conflict, FK → InvalidInput, resto envuelto.
func writeErr(op string, err error, duplicateMsg string) error {
	switch {
	case isUniqueViolation(err):
		return domain.Conflict(duplicateMsg, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return domain.InvalidInput(op+": referencia inexistente", nil)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullable convierte "" en NULL para columnas uuid/texto opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
