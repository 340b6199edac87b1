package usecase

import (
	"context"

	"github.com/hermes-labs/catalog-service/internal/domain"
)

// Методы записи выполняются внутри транзакции из контекста (pkg/tr),
// методы чтения работают напрямую через пул.

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	SetPublished(ctx context.Context, id int64, published bool) error
}

type ImageRepository interface {
	List(ctx context.Context) ([]domain.Image, error)
	GetByID(ctx context.Context, id int64) (*domain.Image, error)
	ListByProduct(ctx context.Context, productID int64) ([]domain.Image, error)
	Create(ctx context.Context, image *domain.Image) (*domain.Image, error)
	Delete(ctx context.Context, id int64) error
	AssignProduct(ctx context.Context, imageID, productID int64) error
}

// LookupRepository читает справочные сущности для развёртки деталей товара.
type LookupRepository interface {
	CategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	SeoByID(ctx context.Context, id int64) (*domain.Seo, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	// GetProduct возвращает (nil, nil) при промахе кэша.
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}
