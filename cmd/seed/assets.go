package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-extras/cobraflags"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Mantenimiento-api/pkg/textutil"
)

const (
	fileFlag      = "file"
	companyIDFlag = "company-id"
	siteIDFlag    = "site-id"
	encodingFlag  = "encoding"
	delimiterFlag = "delimiter"
)

var assetFlags = map[string]cobraflags.Flag{
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: "DSN de PostgreSQL; vacío usa DATABASE_URL / DB_* del entorno",
	},
	fileFlag: &cobraflags.StringFlag{
		Name:  fileFlag,
		Value: "",
		Usage: "Ruta del CSV con columnas codigo;nombre;categoria;fabricante;modelo;serie;ubicacion;criticidad",
	},
	companyIDFlag: &cobraflags.StringFlag{
		Name:  companyIDFlag,
		Value: "",
		Usage: "Empresa dueña de los activos (requerido)",
	},
	siteIDFlag: &cobraflags.StringFlag{
		Name:  siteIDFlag,
		Value: "",
		Usage: "Sede del cliente donde están los activos; vacío = activos propios de la empresa",
	},
	encodingFlag: &cobraflags.StringFlag{
		Name:  encodingFlag,
		Value: "latin1",
		Usage: "Codificación del archivo (latin1, utf8)",
	},
	delimiterFlag: &cobraflags.StringFlag{
		Name:  delimiterFlag,
		Value: ";",
		Usage: "Separador de columnas",
	},
}

func newAssetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Importa activos desde un CSV",
		Long: `Importa activos desde un CSV exportado por Excel (por defecto ISO-8859-1 y ';').
Los códigos se normalizan; los que ya existen en la empresa se omiten.`,
		RunE: assetsCommand,
	}
	cobraflags.RegisterMap(cmd, assetFlags)
	return cmd
}

func assetsCommand(cmd *cobra.Command, _ []string) error {
	path := assetFlags[fileFlag].GetString()
	companyID := assetFlags[companyIDFlag].GetString()
	if path == "" || companyID == "" {
		return fmt.Errorf("--%s y --%s son requeridos", fileFlag, companyIDFlag)
	}
	delim, size := utf8.DecodeRuneInString(assetFlags[delimiterFlag].GetString())
	if size == 0 {
		return fmt.Errorf("--%s vacío", delimiterFlag)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir CSV: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(assetFlags[encodingFlag].GetString()) {
	case "latin1", "iso-8859-1":
		r = textutil.Latin1Reader(f)
	case "utf8", "utf-8":
	default:
		return fmt.Errorf("--%s no soportado: %s", encodingFlag, assetFlags[encodingFlag].GetString())
	}

	rows, err := parseAssetsCSV(r, delim)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := openPool(ctx, assetFlags[databaseURLFlag].GetString())
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	var site *entity.Site
	if id := assetFlags[siteIDFlag].GetString(); id != "" {
		site, err = postgres.NewClientRepository(pool).GetSite(ctx, access.GlobalScope(), id)
		if err != nil {
			return fmt.Errorf("sede %s: %w", id, err)
		}
		if site.CompanyID != companyID {
			return fmt.Errorf("la sede %s no pertenece a la empresa %s", id, companyID)
		}
	}

	created, skipped, err := importAssets(ctx, postgres.NewAssetRepository(pool), companyID, site, rows, time.Now().UTC())
	if err != nil {
		return err
	}
	log.Info().Int("created", created).Int("skipped", skipped).Str("company_id", companyID).Msg("importación de activos")
	return nil
}

// assetRow es una fila ya normalizada del CSV.
type assetRow struct {
	line         int
	code         string
	name         string
	category     string
	manufacturer string
	model        string
	serial       string
	location     string
	criticality  string
}

var assetColumns = []string{"codigo", "nombre", "categoria", "fabricante", "modelo", "serie", "ubicacion", "criticidad"}

// parseAssetsCSV lee el encabezado por nombre (sin importar orden ni tildes) y
// valida cada fila. Solo codigo y nombre son obligatorios.
func parseAssetsCSV(r io.Reader, delim rune) ([]assetRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[textutil.SearchKey(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range assetColumns[:2] {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}
	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []assetRow
	var errs []error
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row := assetRow{
			line:         line,
			code:         textutil.NormalizeCode(field(rec, "codigo")),
			name:         field(rec, "nombre"),
			category:     textutil.Title(field(rec, "categoria")),
			manufacturer: field(rec, "fabricante"),
			model:        field(rec, "modelo"),
			serial:       field(rec, "serie"),
			location:     field(rec, "ubicacion"),
			criticality:  normalizeCriticality(field(rec, "criticidad")),
		}
		switch {
		case row.code == "" && row.name == "":
			continue
		case row.code == "" || row.name == "":
			errs = append(errs, fmt.Errorf("línea %d: codigo y nombre son obligatorios", line))
		case row.criticality == "":
			errs = append(errs, fmt.Errorf("línea %d: criticidad %q no válida", line, field(rec, "criticidad")))
		default:
			rows = append(rows, row)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rows, nil
}

// normalizeCriticality acepta BAJA/MEDIA/ALTA en cualquier forma; vacío = MEDIA.
func normalizeCriticality(s string) string {
	switch textutil.NormalizeCode(s) {
	case "":
		return entity.CriticalityMedium
	case entity.CriticalityLow:
		return entity.CriticalityLow
	case entity.CriticalityMedium:
		return entity.CriticalityMedium
	case entity.CriticalityHigh:
		return entity.CriticalityHigh
	}
	return ""
}

func importAssets(ctx context.Context, assets repository.AssetRepository, companyID string, site *entity.Site, rows []assetRow, now time.Time) (created, skipped int, err error) {
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if seen[row.code] {
			log.Warn().Int("line", row.line).Str("code", row.code).Msg("código repetido en el archivo")
			skipped++
			continue
		}
		seen[row.code] = true

		existing, err := assets.GetByCode(ctx, companyID, row.code)
		if err != nil {
			return created, skipped, fmt.Errorf("línea %d: %w", row.line, err)
		}
		if existing != nil {
			skipped++
			continue
		}
		a := &entity.Asset{
			ID:           uuid.New().String(),
			CompanyID:    companyID,
			Code:         row.code,
			Name:         row.name,
			Category:     row.category,
			Manufacturer: row.manufacturer,
			Model:        row.model,
			SerialNumber: row.serial,
			Location:     row.location,
			Status:       entity.AssetStatusOperational,
			Criticality:  row.criticality,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if site != nil {
			a.SiteID = site.ID
			a.ClientCompanyID = site.ClientCompanyID
		}
		if err := assets.Create(ctx, a); err != nil {
			return created, skipped, fmt.Errorf("línea %d: %w", row.line, err)
		}
		created++
	}
	return created, skipped, nil
}
