package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hermes-labs/catalog-service/internal/website/gateway"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
	"github.com/shopspring/decimal"
)

const productsResource = "api/products"

// ProductService — клиент товаров каталога для витрины.
// Коллекционные методы деградируют мягко: при любой ошибке API возвращается
// пустой срез, витрина продолжает рендериться. Точечные методы возвращают
// типизированную ошибку вызывающему.
type ProductService struct {
	gw     *gateway.Client
	logger logger.Logger
}

func NewProductService(gw *gateway.Client, logger logger.Logger) *ProductService {
	return &ProductService{
		gw:     gw,
		logger: logger,
	}
}

// GetAll возвращает все товары; при ошибке — пустой срез.
func (s *ProductService) GetAll(ctx context.Context) []Product {
	products, err := gateway.GetArray[Product](ctx, s.gw, productsResource)
	if err != nil {
		s.logger.Warnf("product list unavailable: %v", err)
		return []Product{}
	}

	return products
}

// Count возвращает количество товаров; при ошибке — ноль.
func (s *ProductService) Count(ctx context.Context) int64 {
	count, err := s.gw.GetCount(ctx, productsResource)
	if err != nil {
		s.logger.Warnf("product count unavailable: %v", err)
		return 0
	}

	return count
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*Product, error) {
	const op = "ProductService.GetByID"

	product, err := gateway.GetByID[Product](ctx, s.gw, productsResource, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

func (s *ProductService) GetWithDetails(ctx context.Context, id int64) (*ProductDetails, error) {
	const op = "ProductService.GetWithDetails"

	details, err := gateway.GetItem[ProductDetails](ctx, s.gw, fmt.Sprintf("%s/%d/details", productsResource, id))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return details, nil
}

// Create создает товар; сервер назначает id и createdAt.
func (s *ProductService) Create(ctx context.Context, product *Product) (*Product, error) {
	const op = "ProductService.Create"

	created, err := gateway.CreateAndReturn[Product](ctx, s.gw, productsResource, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

func (s *ProductService) Update(ctx context.Context, product *Product) error {
	const op = "ProductService.Update"

	if err := s.gw.Update(ctx, productsResource, product.ID, product); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	const op = "ProductService.Delete"

	if err := s.gw.Delete(ctx, productsResource, id); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (s *ProductService) Publish(ctx context.Context, id int64) error {
	const op = "ProductService.Publish"

	if err := s.gw.Put(ctx, fmt.Sprintf("%s/%d/publish", productsResource, id), nil); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (s *ProductService) Unpublish(ctx context.Context, id int64) error {
	const op = "ProductService.Unpublish"

	if err := s.gw.Put(ctx, fmt.Sprintf("%s/%d/unpublish", productsResource, id), nil); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// SearchByName фильтрует товары по подстроке имени без учета регистра.
func (s *ProductService) SearchByName(ctx context.Context, query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.GetAll(ctx)
	}

	result := make([]Product, 0)
	for _, p := range s.GetAll(ctx) {
		if strings.Contains(strings.ToLower(p.Name), query) {
			result = append(result, p)
		}
	}

	return result
}

// ByPublished возвращает товары с заданным флагом публикации.
func (s *ProductService) ByPublished(ctx context.Context, published bool) []Product {
	result := make([]Product, 0)
	for _, p := range s.GetAll(ctx) {
		if p.IsPublished == published {
			result = append(result, p)
		}
	}

	return result
}

// ByCategory возвращает товары указанной категории.
func (s *ProductService) ByCategory(ctx context.Context, categoryID int64) []Product {
	result := make([]Product, 0)
	for _, p := range s.GetAll(ctx) {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			result = append(result, p)
		}
	}

	return result
}

// Recent возвращает не более limit товаров, новые первыми.
func (s *ProductService) Recent(ctx context.Context, limit int) []Product {
	products := s.GetAll(ctx)
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}

	return products
}

// Statistics считает сводку по каталогу на стороне витрины.
func (s *ProductService) Statistics(ctx context.Context) Stats {
	products := s.GetAll(ctx)

	stats := Stats{Total: len(products)}
	sum := decimal.Zero
	for i, p := range products {
		if p.IsPublished {
			stats.Published++
		} else {
			stats.Unpublished++
		}
		sum = sum.Add(p.Price)

		if i == 0 || p.Price.LessThan(stats.MinPrice) {
			stats.MinPrice = p.Price
		}
		if i == 0 || p.Price.GreaterThan(stats.MaxPrice) {
			stats.MaxPrice = p.Price
		}
	}

	if stats.Total > 0 {
		stats.AveragePrice = sum.Div(decimal.NewFromInt(int64(stats.Total)))
	}

	return stats
}
