package converter

import (
	"github.com/hermes-labs/catalog-service/internal/domain"
	"github.com/hermes-labs/catalog-service/internal/usecase"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []domain.Product
}

// ImageConverter преобразует сущности Image между domain и моделью PostgreSQL.
type ImageConverter interface {
	ToModel(entity *domain.Image) *ImageModel
	ToEntity(model *ImageModel) *domain.Image
	ToArrEntity(models []*ImageModel) []domain.Image
}

// LookupConverter преобразует справочные сущности между domain и моделями PostgreSQL.
type LookupConverter interface {
	CategoryToEntity(model *CategoryModel) *domain.Category
	SeoToEntity(model *SeoModel) *domain.Seo
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func NewProductConverter() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
		ID:          entity.ID,
		WorkspaceID: entity.WorkspaceID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price.String(),
		IsPublished: entity.IsPublished,
		CreatedAt:   entity.CreatedAt,
		ImageID:     entity.ImageID,
		PlasticID:   entity.PlasticID,
		CategoryID:  entity.CategoryID,
		TagID:       entity.TagID,
		StockID:     entity.StockID,
		SeoID:       entity.SeoID,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	// NUMERIC из базы всегда корректен, ошибка парсинга невозможна
	price, _ := decimal.NewFromString(model.Price)

	return &domain.Product{
		ID:          model.ID,
		WorkspaceID: model.WorkspaceID,
		Name:        model.Name,
		Description: model.Description,
		Price:       price,
		IsPublished: model.IsPublished,
		CreatedAt:   model.CreatedAt,
		ImageID:     model.ImageID,
		PlasticID:   model.PlasticID,
		CategoryID:  model.CategoryID,
		TagID:       model.TagID,
		StockID:     model.StockID,
		SeoID:       model.SeoID,
	}
}

func (c *ProductConverterImpl) ToArrEntity(models []*ProductModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for _, model := range models {
		result = append(result, *c.ToEntity(model))
	}

	return result
}

type ImageConverterImpl struct{}

func NewImageConverter() *ImageConverterImpl {
	return &ImageConverterImpl{}
}

func (c *ImageConverterImpl) ToModel(entity *domain.Image) *ImageModel {
	if entity == nil {
		return nil
	}

	return &ImageModel{
		ID:          entity.ID,
		WorkspaceID: entity.WorkspaceID,
		ProductID:   entity.ProductID,
		ImageData:   entity.ImageData,
		CreatedAt:   entity.CreatedAt,
	}
}

func (c *ImageConverterImpl) ToEntity(model *ImageModel) *domain.Image {
	if model == nil {
		return nil
	}

	return &domain.Image{
		ID:          model.ID,
		WorkspaceID: model.WorkspaceID,
		ProductID:   model.ProductID,
		ImageData:   model.ImageData,
		CreatedAt:   model.CreatedAt,
	}
}

func (c *ImageConverterImpl) ToArrEntity(models []*ImageModel) []domain.Image {
	result := make([]domain.Image, 0, len(models))
	for _, model := range models {
		result = append(result, *c.ToEntity(model))
	}

	return result
}

type LookupConverterImpl struct{}

func NewLookupConverter() *LookupConverterImpl {
	return &LookupConverterImpl{}
}

func (c *LookupConverterImpl) CategoryToEntity(model *CategoryModel) *domain.Category {
	if model == nil {
		return nil
	}

	return &domain.Category{
		ID:          model.ID,
		WorkspaceID: model.WorkspaceID,
		Name:        model.Name,
	}
}

func (c *LookupConverterImpl) SeoToEntity(model *SeoModel) *domain.Seo {
	if model == nil {
		return nil
	}

	return &domain.Seo{
		ID:          model.ID,
		WorkspaceID: model.WorkspaceID,
		ProductID:   model.ProductID,
		Title:       model.Title,
		Description: model.Description,
	}
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverter() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (c *OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		EntityID:    entity.EntityID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}

	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		EntityID:    model.EntityID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}
