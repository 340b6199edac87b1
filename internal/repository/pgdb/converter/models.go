package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
// Price хранится текстом: NUMERIC читается как text и парсится в decimal.
type ProductModel struct {
	ID          int64      `db:"id"`
	WorkspaceID int64      `db:"workspace_id"`
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	Price       string     `db:"price"`
	IsPublished bool       `db:"is_published"`
	CreatedAt   time.Time  `db:"created_at"`
	ImageID     *int64     `db:"image_id"`
	PlasticID   *int64     `db:"plastic_id"`
	CategoryID  *int64     `db:"category_id"`
	TagID       *int64     `db:"tag_id"`
	StockID     *int64     `db:"stock_id"`
	SeoID       *int64     `db:"seo_id"`
}

// ImageModel представляет запись таблицы images в PostgreSQL.
type ImageModel struct {
	ID          int64     `db:"id"`
	WorkspaceID int64     `db:"workspace_id"`
	ProductID   *int64    `db:"product_id"`
	ImageData   string    `db:"image_data"`
	CreatedAt   time.Time `db:"created_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID          int64  `db:"id"`
	WorkspaceID int64  `db:"workspace_id"`
	Name        string `db:"name"`
}

// SeoModel представляет запись таблицы seos в PostgreSQL.
type SeoModel struct {
	ID          int64   `db:"id"`
	WorkspaceID int64   `db:"workspace_id"`
	ProductID   *int64  `db:"product_id"`
	Title       string  `db:"title"`
	Description *string `db:"description"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	EntityID    int64      `db:"entity_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
