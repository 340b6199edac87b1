package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога. Внешние ключи опциональны:
// товар может существовать без изображения, категории и прочих связей.
type Product struct {
	ID          int64
	WorkspaceID int64
	Name        string
	Description *string
	Price       decimal.Decimal
	IsPublished bool
	CreatedAt   time.Time

	ImageID    *int64
	PlasticID  *int64
	CategoryID *int64
	TagID      *int64
	StockID    *int64
	SeoID      *int64
}

func NewProduct(name string, description *string, price decimal.Decimal) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
	}
}
