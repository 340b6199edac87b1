package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product — товар каталога в представлении витрины.
// Поля повторяют JSON API каталога.
type Product struct {
	ID          int64           `json:"id"`
	WorkspaceID int64           `json:"workspaceId"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsPublished bool            `json:"isPublished"`
	CreatedAt   time.Time       `json:"createdAt"`
	ImageID     *int64          `json:"imageId,omitempty"`
	PlasticID   *int64          `json:"plasticId,omitempty"`
	CategoryID  *int64          `json:"categoryId,omitempty"`
	TagID       *int64          `json:"tagId,omitempty"`
	StockID     *int64          `json:"stockId,omitempty"`
	SeoID       *int64          `json:"seoId,omitempty"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Seo struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ProductDetails — товар с развернутыми связями.
type ProductDetails struct {
	Product
	Image    *Image    `json:"image,omitempty"`
	Category *Category `json:"category,omitempty"`
	Seo      *Seo      `json:"seo,omitempty"`
}

type Image struct {
	ID        int64     `json:"id"`
	ProductID *int64    `json:"productId,omitempty"`
	ImageData string    `json:"imageData"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImageData — изображение с явными признаками типа хранения.
type ImageData struct {
	ID        int64     `json:"id"`
	ImageData string    `json:"imageData"`
	IsURL     bool      `json:"isUrl"`
	IsBase64  bool      `json:"isBase64"`
	ProductID *int64    `json:"productId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateImageReq — тело запроса на создание изображения.
type CreateImageReq struct {
	ProductID *int64 `json:"productId"`
	ImageData string `json:"imageData"`
}

// Stats — сводка по каталогу, считается на стороне витрины.
type Stats struct {
	Total        int
	Published    int
	Unpublished  int
	AveragePrice decimal.Decimal
	MinPrice     decimal.Decimal
	MaxPrice     decimal.Decimal
}
