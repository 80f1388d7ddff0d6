// Package storage implementa el almacenamiento de adjuntos sobre S3 o un servicio
// compatible (MinIO, R2) mediante URLs firmadas.
package storage

import (
	"context"
	"fmt"
	"mime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/Mantenimiento-api/internal/application/ports"
	"github.com/jhoicas/Mantenimiento-api/pkg/config"
)

var _ ports.ObjectStorage = (*S3Presigner)(nil)

// S3Presigner firma URLs de subida y descarga para un bucket.
type S3Presigner struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
	now     func() time.Time
}

// NewS3Presigner construye el cliente. Con AccessKey y SecretKey usa credenciales
// estáticas; si no, la cadena por defecto del SDK (variables AWS_*, rol IAM).
func NewS3Presigner(ctx context.Context, cfg config.StorageConfig) (*S3Presigner, error) {
	if !cfg.Enabled() {
		return nil, ports.ErrStorageDisabled
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: cargar configuración AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Presigner{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		ttl:     cfg.URLTTL(),
		now:     time.Now,
	}, nil
}

// PresignUpload firma un PUT para la clave indicada.
func (p *S3Presigner) PresignUpload(ctx context.Context, key, contentType string) (*ports.PresignedURL, error) {
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return nil, fmt.Errorf("storage: firmar subida %s: %w", key, err)
	}
	return &ports.PresignedURL{
		URL:       req.URL,
		Method:    req.Method,
		Headers:   map[string]string{"Content-Type": contentType},
		ExpiresAt: p.now().Add(p.ttl),
	}, nil
}

// PresignDownload firma un GET que fuerza la descarga con el nombre original.
func (p *S3Presigner) PresignDownload(ctx context.Context, key, fileName string) (*ports.PresignedURL, error) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(p.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(disposition),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return nil, fmt.Errorf("storage: firmar descarga %s: %w", key, err)
	}
	return &ports.PresignedURL{
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: p.now().Add(p.ttl),
	}, nil
}
