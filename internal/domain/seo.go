package domain

// Seo описывает SEO-метаданные товара
type Seo struct {
	ID          int64
	WorkspaceID int64
	ProductID   *int64
	Title       string
	Description *string
}
