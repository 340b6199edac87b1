package converter

import (
	"github.com/hermes-labs/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует товары между domain и Redis-моделью.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
}

type ProductConverterImpl struct{}

func NewProductConverter() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}

	return &ProductRedisModel{
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

func (c *ProductConverterImpl) ToEntity(model *ProductRedisModel) *domain.Product {
	if model == nil {
		return nil
	}

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
