package minio

import (
	"bytes"
	"context"

	"github.com/hermes-labs/catalog-service/internal/cfg"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ObjectRepo реализует хранилище файлов изображений поверх MinIO.
type ObjectRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewObjectRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ObjectRepo {
	return &ObjectRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает файл в MinIO и возвращает ключ объекта.
func (o *ObjectRepo) Upload(ctx context.Context, objectKey string, data []byte, size int64, mimeType string) (string, error) {
	reader := bytes.NewReader(data)

	info, err := o.mc.PutObject(ctx, o.cfg.BucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (o *ObjectRepo) Delete(ctx context.Context, key string) error {
	if err := o.mc.RemoveObject(ctx, o.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
