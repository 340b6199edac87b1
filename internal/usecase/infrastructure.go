package usecase

import "context"

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// ObjectStorageInfra сохраняет байты загруженных изображений в объектное
// хранилище и возвращает публичный URL объекта.
type ObjectStorageInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
	CleanupObjects(keys []string)
}
