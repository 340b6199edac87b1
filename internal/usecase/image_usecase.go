package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hermes-labs/catalog-service/internal/domain"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ImageUseCase реализует бизнес-логику работы с изображениями товаров.
type ImageUseCase struct {
	imageRepo     ImageRepository
	outboxRepo    OutboxRepository
	objectStorage ObjectStorageInfra
	dbPool        transaction.Transactional
	logger        logger.Logger
}

func NewImageUC(
	imageRepo ImageRepository,
	outboxRepo OutboxRepository,
	objectStorage ObjectStorageInfra,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *ImageUseCase {
	return &ImageUseCase{
		imageRepo:     imageRepo,
		outboxRepo:    outboxRepo,
		objectStorage: objectStorage,
		dbPool:        dbPool,
		logger:        logger,
	}
}

func (i *ImageUseCase) ListImages(ctx context.Context) ([]domain.Image, error) {
	const op = "ImageUseCase.ListImages"

	images, err := i.imageRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return images, nil
}

func (i *ImageUseCase) GetImage(ctx context.Context, id int64) (*domain.Image, error) {
	const op = "ImageUseCase.GetImage"

	image, err := i.imageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return image, nil
}

func (i *ImageUseCase) ImagesByProduct(ctx context.Context, productID int64) ([]domain.Image, error) {
	const op = "ImageUseCase.ImagesByProduct"

	images, err := i.imageRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return images, nil
}

// CreateImage создает запись изображения. ImageData принимается как есть:
// base64-строка или абсолютный URL, различение делается по префиксу при чтении.
func (i *ImageUseCase) CreateImage(ctx context.Context, req *CreateImageReq) (*domain.Image, error) {
	const op = "ImageUseCase.CreateImage"

	var err error
	if strings.TrimSpace(req.ImageData) == "" {
		return nil, e.Wrap(op, e.ErrNotAnImage)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, i.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	image := &domain.Image{
		WorkspaceID: req.WorkspaceID,
		ProductID:   req.ProductID,
		ImageData:   req.ImageData,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := i.imageRepo.Create(ctx, image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = i.createOutboxEvent(ctx, ImageCreated, created.ID); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

func (i *ImageUseCase) DeleteImage(ctx context.Context, id int64) error {
	const op = "ImageUseCase.DeleteImage"

	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, i.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = i.imageRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = i.createOutboxEvent(ctx, ImageDeleted, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (i *ImageUseCase) AssignImageToProduct(ctx context.Context, imageID, productID int64) error {
	const op = "ImageUseCase.AssignImageToProduct"

	if err := i.imageRepo.AssignProduct(ctx, imageID, productID); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// GetImageData возвращает изображение с явными признаками isUrl/isBase64.
func (i *ImageUseCase) GetImageData(ctx context.Context, id int64) (*ImageData, error) {
	const op = "ImageUseCase.GetImageData"

	image, err := i.imageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewImageData(image), nil
}

// UploadImage сохраняет файл в объектное хранилище и создает запись изображения
// с публичным URL. При ошибке записи в базу загруженный объект удаляется.
func (i *ImageUseCase) UploadImage(ctx context.Context, req *UploadImageReq) (*domain.Image, error) {
	const op = "ImageUseCase.UploadImage"

	if !strings.HasPrefix(req.MimeType, "image/") {
		return nil, e.Wrap(op, e.ErrNotAnImage)
	}

	uploaded, err := i.objectStorage.UploadImage(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := i.CreateImage(ctx, &CreateImageReq{
		ProductID: req.ProductID,
		ImageData: uploaded.PublicURL,
	})
	if err != nil {
		// Компенсация: запись не создана, объект в хранилище осиротел
		i.objectStorage.CleanupObjects([]string{uploaded.ObjectKey})
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

func (i *ImageUseCase) createOutboxEvent(ctx context.Context, eventType OutboxEventType, entityID int64) error {
	eventID := uuid.NewString()
	payload, err := json.Marshal(eventPayload{
		EventID:    eventID,
		EventType:  eventType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	_, err = i.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		EntityID:  entityID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	})

	return err
}
