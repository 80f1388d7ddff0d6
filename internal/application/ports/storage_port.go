package ports

import (
	"context"
	"errors"
	"time"
)

// ErrStorageDisabled se devuelve cuando no hay bucket configurado.
var ErrStorageDisabled = errors.New("almacenamiento de archivos no configurado")

// PresignedURL es una URL firmada de un solo objeto. Headers lista los encabezados que
// el cliente debe enviar tal cual (p. ej. Content-Type en la subida).
type PresignedURL struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ObjectStorage define el puerto de salida hacia el almacenamiento de objetos. La API
// nunca recibe los bytes: entrega URLs firmadas para subir y descargar.
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedURL, error)
	PresignDownload(ctx context.Context, key, fileName string) (*PresignedURL, error)
}
