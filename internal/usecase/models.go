package usecase

import (
	"time"

	"github.com/hermes-labs/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара. Идентификатор и навигационные
// объекты, присланные клиентом, сюда не попадают: их назначает сервер.
type CreateProductReq struct {
	WorkspaceID int64
	Name        string
	Description *string
	Price       decimal.Decimal
	IsPublished bool

	ImageID    *int64
	PlasticID  *int64
	CategoryID *int64
	TagID      *int64
	StockID    *int64
	SeoID      *int64
}

// UpdateProductReq — запрос на обновление скалярных полей и внешних ключей товара.
type UpdateProductReq struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	IsPublished bool

	ImageID    *int64
	PlasticID  *int64
	CategoryID *int64
	TagID      *int64
	StockID    *int64
	SeoID      *int64
}

// ProductDetails — товар с развёрнутыми связями; отсутствующие связи равны nil.
type ProductDetails struct {
	Product  domain.Product
	Image    *domain.Image
	Category *domain.Category
	Seo      *domain.Seo
}

// IMAGE USECASE

// CreateImageReq — запрос на создание записи изображения.
// ImageData — base64-строка либо абсолютный URL.
type CreateImageReq struct {
	WorkspaceID int64
	ProductID   *int64
	ImageData   string
}

// ImageData — изображение с явным признаком типа хранения.
type ImageData struct {
	ID        int64
	ImageData string
	IsURL     bool
	IsBase64  bool
	ProductID *int64
	CreatedAt time.Time
}

// UploadImageReq — изображение, загруженное через multipart/form-data.
type UploadImageReq struct {
	Data      []byte // байты изображения
	MimeType  string // Content-Type из multipart (image/jpeg)
	Size      int64  // фактический размер в байтах
	Name      string // оригинальное имя файла (для логов и ключа объекта)
	ProductID *int64
}

// UploadImageRes — результат сохранения в объектное хранилище.
type UploadImageRes struct {
	ObjectKey string
	PublicURL string
}

// MAPPERS

func NewCreateImageReq(workspaceID int64, productID *int64, imageData string) *CreateImageReq {
	return &CreateImageReq{
		WorkspaceID: workspaceID,
		ProductID:   productID,
		ImageData:   imageData,
	}
}

func NewUploadImageRes(objectKey, publicURL string) *UploadImageRes {
	return &UploadImageRes{
		ObjectKey: objectKey,
		PublicURL: publicURL,
	}
}

func NewImageData(img *domain.Image) *ImageData {
	isURL := img.IsURL()
	return &ImageData{
		ID:        img.ID,
		ImageData: img.ImageData,
		IsURL:     isURL,
		IsBase64:  !isURL,
		ProductID: img.ProductID,
		CreatedAt: img.CreatedAt,
	}
}
