package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/hermes-labs/catalog-service/internal/domain"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductUseCase реализует бизнес-логику управления товарами каталога.
type ProductUseCase struct {
	productRepo ProductRepository
	imageRepo   ImageRepository
	lookupRepo  LookupRepository
	outboxRepo  OutboxRepository
	dbPool      transaction.Transactional
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	imageRepo ImageRepository,
	lookupRepo LookupRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		imageRepo:   imageRepo,
		lookupRepo:  lookupRepo,
		outboxRepo:  outboxRepo,
		dbPool:      dbPool,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// ListProducts возвращает все товары без развёртки связей.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

func (p *ProductUseCase) CountProducts(ctx context.Context) (int64, error) {
	const op = "ProductUseCase.CountProducts"

	count, err := p.productRepo.Count(ctx)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	return count, nil
}

// GetProduct возвращает товар по идентификатору, читая через кэш.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	cached, err := p.cacheRepo.GetProduct(ctx, id)
	if err != nil {
		p.logger.Warnf("cache read failed for product %d: %v", id, err)
	} else if cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, product); err != nil {
			p.logger.Warnf("failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// GetProductDetails возвращает товар с развёрнутыми изображением, категорией и SEO.
// Отсутствующие или битые связи не считаются ошибкой: соответствующее поле остаётся nil.
func (p *ProductUseCase) GetProductDetails(ctx context.Context, id int64) (*ProductDetails, error) {
	const op = "ProductUseCase.GetProductDetails"

	product, err := p.GetProduct(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	details := &ProductDetails{Product: *product}

	if product.ImageID != nil {
		image, err := p.imageRepo.GetByID(ctx, *product.ImageID)
		if err != nil && !errors.Is(err, e.ErrImageNotFound) {
			return nil, e.Wrap(op, err)
		}
		details.Image = image
	}

	if product.CategoryID != nil {
		category, err := p.lookupRepo.CategoryByID(ctx, *product.CategoryID)
		if err != nil && !errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, err)
		}
		details.Category = category
	}

	if product.SeoID != nil {
		seo, err := p.lookupRepo.SeoByID(ctx, *product.SeoID)
		if err != nil && !errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, err)
		}
		details.Seo = seo
	}

	return details, nil
}

// CreateProduct создает товар, игнорируя присланный клиентом идентификатор.
// CreatedAt назначается сервером; событие product_created пишется в outbox
// в той же транзакции.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	var err error
	if err = p.validateProduct(req.Name, req.Price); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product := &domain.Product{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsPublished: req.IsPublished,
		CreatedAt:   time.Now().UTC(),
		ImageID:     req.ImageID,
		PlasticID:   req.PlasticID,
		CategoryID:  req.CategoryID,
		TagID:       req.TagID,
		StockID:     req.StockID,
		SeoID:       req.SeoID,
	}

	created, err := p.productRepo.Create(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, errors.Join(e.ErrPersistenceFailed, err))
	}

	if err = p.createOutboxEvent(ctx, ProductCreated, created.ID, created); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateCache(ctx, created.ID)

	return created, nil
}

// UpdateProduct обновляет скалярные поля и внешние ключи существующего товара.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) error {
	const op = "ProductUseCase.UpdateProduct"

	var err error
	if err = p.validateProduct(req.Name, req.Price); err != nil {
		return e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	existing, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.IsPublished = req.IsPublished
	existing.ImageID = req.ImageID
	existing.PlasticID = req.PlasticID
	existing.CategoryID = req.CategoryID
	existing.TagID = req.TagID
	existing.StockID = req.StockID
	existing.SeoID = req.SeoID

	if err = p.productRepo.Update(ctx, existing); err != nil {
		return e.Wrap(op, err)
	}

	if err = p.createOutboxEvent(ctx, ProductUpdated, id, existing); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCache(ctx, id)

	return nil
}

func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = p.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = p.createOutboxEvent(ctx, ProductDeleted, id, nil); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCache(ctx, id)

	return nil
}

// SetPublished переключает флаг публикации товара.
func (p *ProductUseCase) SetPublished(ctx context.Context, id int64, published bool) error {
	const op = "ProductUseCase.SetPublished"

	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = p.productRepo.SetPublished(ctx, id, published); err != nil {
		return e.Wrap(op, err)
	}

	eventType := ProductPublished
	if !published {
		eventType = ProductUnpublished
	}
	if err = p.createOutboxEvent(ctx, eventType, id, nil); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCache(ctx, id)

	return nil
}

// eventPayload — JSON-представление события для Kafka.
type eventPayload struct {
	EventID    string          `json:"eventId"`
	EventType  OutboxEventType `json:"eventType"`
	EntityID   int64           `json:"entityId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Product    *domain.Product `json:"product,omitempty"`
}

// createOutboxEvent пишет событие изменения каталога в outbox внутри текущей транзакции.
func (p *ProductUseCase) createOutboxEvent(ctx context.Context, eventType OutboxEventType, entityID int64, product *domain.Product) error {
	eventID := uuid.NewString()
	payload, err := json.Marshal(eventPayload{
		EventID:    eventID,
		EventType:  eventType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Product:    product,
	})
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		EntityID:  entityID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	})

	return err
}

// invalidateCache удаляет товар из кэша; ошибка кэша не считается фатальной.
func (p *ProductUseCase) invalidateCache(ctx context.Context, id int64) {
	if err := p.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		p.logger.Warnf("failed to invalidate product cache: %v", err)
	}
}

// validateProduct проверяет корректность входных данных товара.
func (p *ProductUseCase) validateProduct(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return e.ErrProductNameRequired
	}

	if !price.IsPositive() {
		return e.ErrPriceMustBePositive
	}

	return nil
}
