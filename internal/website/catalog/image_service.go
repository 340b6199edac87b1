package catalog

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/hermes-labs/catalog-service/internal/imagecodec"
	"github.com/hermes-labs/catalog-service/internal/website/gateway"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
)

const imagesResource = "api/images"

// ImageService — клиент изображений каталога для витрины.
type ImageService struct {
	gw     *gateway.Client
	codec  *imagecodec.Codec
	logger logger.Logger
}

func NewImageService(gw *gateway.Client, codec *imagecodec.Codec, logger logger.Logger) *ImageService {
	return &ImageService{
		gw:     gw,
		codec:  codec,
		logger: logger,
	}
}

// GetAll возвращает все изображения; при ошибке — пустой срез.
func (s *ImageService) GetAll(ctx context.Context) []Image {
	images, err := gateway.GetArray[Image](ctx, s.gw, imagesResource)
	if err != nil {
		s.logger.Warnf("image list unavailable: %v", err)
		return []Image{}
	}

	return images
}

func (s *ImageService) GetByID(ctx context.Context, id int64) (*Image, error) {
	const op = "ImageService.GetByID"

	image, err := gateway.GetByID[Image](ctx, s.gw, imagesResource, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return image, nil
}

// GetData возвращает изображение с явными признаками isUrl/isBase64.
func (s *ImageService) GetData(ctx context.Context, id int64) (*ImageData, error) {
	const op = "ImageService.GetData"

	data, err := gateway.GetItem[ImageData](ctx, s.gw, fmt.Sprintf("%s/%d/data", imagesResource, id))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return data, nil
}

// ByProduct возвращает изображения товара; при ошибке — пустой срез.
func (s *ImageService) ByProduct(ctx context.Context, productID int64) []Image {
	images, err := gateway.GetArray[Image](ctx, s.gw, fmt.Sprintf("%s/product/%d", imagesResource, productID))
	if err != nil {
		s.logger.Warnf("product images unavailable: %v", err)
		return []Image{}
	}

	return images
}

// AssignToProduct привязывает изображение к товару.
func (s *ImageService) AssignToProduct(ctx context.Context, imageID, productID int64) error {
	const op = "ImageService.AssignToProduct"

	if err := s.gw.Put(ctx, fmt.Sprintf("%s/%d/product/%d", imagesResource, imageID, productID), nil); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// DisplayURL превращает строку изображения в значение для атрибута src.
func (s *ImageService) DisplayURL(image *Image) string {
	if image == nil {
		return ""
	}

	return imagecodec.DisplayURL(image.ImageData)
}

// Create создает запись изображения из готовой строки (base64 или URL).
func (s *ImageService) Create(ctx context.Context, productID *int64, imageData string) (*Image, error) {
	const op = "ImageService.Create"

	created, err := gateway.CreateAndReturn[Image](ctx, s.gw, imagesResource, &CreateImageReq{
		ProductID: productID,
		ImageData: imageData,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

// CreateImages создает несколько записей из готовых строк изображений.
// Останавливается на первой ошибке и возвращает уже созданные записи.
func (s *ImageService) CreateImages(ctx context.Context, productID *int64, imageData []string) ([]Image, error) {
	const op = "ImageService.CreateImages"

	created := make([]Image, 0, len(imageData))
	for _, data := range imageData {
		img, err := s.Create(ctx, productID, data)
		if err != nil {
			return created, e.Wrap(op, err)
		}
		created = append(created, *img)
	}

	return created, nil
}

// CreateFromUpload кодирует загруженный файл в base64 и создает запись.
func (s *ImageService) CreateFromUpload(ctx context.Context, productID *int64, fh *multipart.FileHeader) (*Image, error) {
	const op = "ImageService.CreateFromUpload"

	encoded, err := s.codec.EncodeUpload(fh)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return s.Create(ctx, productID, encoded)
}

// CreateFromURL скачивает изображение по внешнему URL, кодирует и создает запись.
func (s *ImageService) CreateFromURL(ctx context.Context, productID *int64, rawURL string) (*Image, error) {
	const op = "ImageService.CreateFromURL"

	encoded, err := s.codec.FetchAndEncode(ctx, rawURL)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return s.Create(ctx, productID, encoded)
}

func (s *ImageService) Delete(ctx context.Context, id int64) error {
	const op = "ImageService.Delete"

	if err := s.gw.Delete(ctx, imagesResource, id); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
