package converter

import "time"

// ProductRedisModel — JSON-представление товара в кэше.
// Цена хранится строкой, чтобы не терять точность decimal.
type ProductRedisModel struct {
	ID          int64     `json:"id"`
	WorkspaceID int64     `json:"workspaceId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       string    `json:"price"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	ImageID     *int64    `json:"imageId,omitempty"`
	PlasticID   *int64    `json:"plasticId,omitempty"`
	CategoryID  *int64    `json:"categoryId,omitempty"`
	TagID       *int64    `json:"tagId,omitempty"`
	StockID     *int64    `json:"stockId,omitempty"`
	SeoID       *int64    `json:"seoId,omitempty"`
}
