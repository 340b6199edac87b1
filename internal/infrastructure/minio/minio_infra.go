package minio

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hermes-labs/catalog-service/internal/cfg"
	"github.com/hermes-labs/catalog-service/internal/infrastructure"
	"github.com/hermes-labs/catalog-service/internal/usecase"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/jitter"
	"github.com/hermes-labs/catalog-service/pkg/logger"

	"github.com/google/uuid"
)

// ObjectRepository — хранилище файлов изображений (MinIO).
type ObjectRepository interface {
	Upload(ctx context.Context, objectKey string, data []byte, size int64, mimeType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// MinioInfrastructure управляет загрузкой и очисткой изображений в MinIO.
type MinioInfrastructure struct {
	objectRepo  ObjectRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
}

func NewMinioInfrastructure(objectRepo ObjectRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		objectRepo:  objectRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
	}
}

// UploadImage сохраняет файл изображения в MinIO и возвращает ключ объекта
// и публичный URL. Ключ включает uuid, коллизии имен исключены.
func (m *MinioInfrastructure) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadImageRes, error) {
	const op = "MinioInfrastructure.UploadImage"

	ext, err := infrastructure.GetExtensionFromMIME(req.MimeType)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("invalid mime type %s for %s: %w", req.MimeType, req.Name, err))
	}

	baseName := strings.TrimSuffix(req.Name, "."+ext)
	objectKey := fmt.Sprintf("images/%s-%s.%s", baseName, uuid.NewString(), ext)

	key, err := m.objectRepo.Upload(ctx, objectKey, req.Data, req.Size, req.MimeType)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("upload %s failed: %w", req.Name, err))
	}

	publicURL := fmt.Sprintf("%s/%s/%s",
		strings.TrimSuffix(m.cfg.PublicBaseURL, "/"), m.cfg.BucketName, key)

	return usecase.NewUploadImageRes(key, publicURL), nil
}

// CleanupObjects запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupObjects(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет указанные объекты из MinIO с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done() // сигнализируем завершение компенсации
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: Cleaning up uploaded keys", op)

	// Контекст с таймаутом на основе shutdownCtx
	ctx, cancel := context.WithTimeout(m.shutdownCtx, 30*time.Second)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < 3; attempt++ {
			if err := m.objectRepo.Delete(ctx, key); err == nil {
				break
			}

			select {
			case <-ctx.Done():
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			default:
			}

			if attempt < 2 {
				sleepTime := jitter.ExponentialBackoff(time.Second, 10*time.Second, attempt, jitter.DefaultJitter)

				select {
				case <-time.After(sleepTime):
				case <-ctx.Done():
					m.logger.Warnf("cleanup interrupted by shutdown during backoff, key=%v", key)
					return
				}
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
