package storage_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/application/ports"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/storage"
	"github.com/jhoicas/Mantenimiento-api/pkg/config"
)

func minioConfig() config.StorageConfig {
	return config.StorageConfig{
		Bucket:        "adjuntos",
		Region:        "us-east-1",
		Endpoint:      "http://localhost:9000",
		AccessKey:     "minio",
		SecretKey:     "minio123",
		URLTTLSeconds: 600,
	}
}

func TestNewS3Presigner_SinBucket(t *testing.T) {
	_, err := storage.NewS3Presigner(context.Background(), config.StorageConfig{})
	assert.ErrorIs(t, err, ports.ErrStorageDisabled)
}

// La firma es local (no hay llamada de red), así que se puede probar sin MinIO.
func TestPresignUpload_URLConFirma(t *testing.T) {
	p, err := storage.NewS3Presigner(context.Background(), minioConfig())
	require.NoError(t, err)

	got, err := p.PresignUpload(context.Background(), "companies/c1/documents/d1/x-informe.pdf", "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "application/pdf", got.Headers["Content-Type"])
	u, err := url.Parse(got.URL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/adjuntos/companies/c1/documents/d1/"), u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestPresignDownload_NombreDeArchivo(t *testing.T) {
	p, err := storage.NewS3Presigner(context.Background(), minioConfig())
	require.NoError(t, err)

	got, err := p.PresignDownload(context.Background(), "companies/c1/documents/d1/x-informe.pdf", "informe.pdf")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, got.Method)
	u, err := url.Parse(got.URL)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("response-content-disposition"), "informe.pdf")
}
