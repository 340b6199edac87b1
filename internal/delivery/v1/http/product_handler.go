package http

import (
	"encoding/json"
	"net/http"

	"github.com/hermes-labs/catalog-service/internal/usecase"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	imageUsecase   usecase.ImageUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, imageUsecase usecase.ImageUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, imageUsecase: imageUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает все товары каталога без развёртки связей
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}		ProductDTO
//	@Failure		500	{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductDTOs(products))
}

// countProducts
//
//	@Summary	Количество товаров
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	CountResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/products/count [get]
func (p *ProductHandler) countProducts(w http.ResponseWriter, r *http.Request) {
	count, err := p.productUsecase.CountProducts(r.Context())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, CountResponse{Count: count})
}

// getProduct
//
//	@Summary	Товар по идентификатору
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	ProductDTO
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductDTO(product))
}

// getProductDetails
//
//	@Summary		Товар с развёрнутыми связями
//	@Description	Возвращает товар вместе с изображением, категорией и SEO-метаданными
//	@Tags			products
//	@Produce		json
//	@Param			id	path		int	true	"ID товара"
//	@Success		200	{object}	ProductDetailsDTO
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id}/details [get]
func (p *ProductHandler) getProductDetails(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	details, err := p.productUsecase.GetProductDetails(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductDetailsDTO(details))
}

// listProductImages
//
//	@Summary	Изображения товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{array}		ImageDTO
//	@Failure	400	{object}	ErrorResponse
//	@Router		/products/{id}/images [get]
func (p *ProductHandler) listProductImages(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	images, err := p.imageUsecase.ImagesByProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toImageDTOs(images))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создает товар; id и createdAt назначаются сервером, присланные значения игнорируются
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductReq	true	"Товар"
//	@Success		201		{object}	ProductDTO
//	@Failure		400		{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		p.logger.Warnf("%d bad request body: %s", http.StatusBadRequest, err.Error())
		WriteError(w, e.ErrInvalidRequestBody)
		return
	}

	created, err := p.productUsecase.CreateProduct(r.Context(), &usecase.CreateProductReq{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsPublished: req.IsPublished,
		ImageID:     req.ImageID,
		PlasticID:   req.PlasticID,
		CategoryID:  req.CategoryID,
		TagID:       req.TagID,
		StockID:     req.StockID,
		SeoID:       req.SeoID,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductDTO(created))
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Обновляет скалярные поля и внешние ключи; id в теле должен совпадать с id в пути
//	@Tags			products
//	@Accept			json
//	@Param			id		path	int			true	"ID товара"
//	@Param			product	body	ProductReq	true	"Товар"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req ProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		p.logger.Warnf("%d bad request body: %s", http.StatusBadRequest, err.Error())
		WriteError(w, e.ErrInvalidRequestBody)
		return
	}

	if req.ID != 0 && req.ID != id {
		WriteError(w, e.ErrIDMismatch)
		return
	}

	err = p.productUsecase.UpdateProduct(r.Context(), id, &usecase.UpdateProductReq{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsPublished: req.IsPublished,
		ImageID:     req.ImageID,
		PlasticID:   req.PlasticID,
		CategoryID:  req.CategoryID,
		TagID:       req.TagID,
		StockID:     req.StockID,
		SeoID:       req.SeoID,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Param		id	path	int	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}

// publishProduct
//
//	@Summary	Публикация товара
//	@Tags		products
//	@Param		id	path	int	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id}/publish [put]
func (p *ProductHandler) publishProduct(w http.ResponseWriter, r *http.Request) {
	p.setPublished(w, r, true)
}

// unpublishProduct
//
//	@Summary	Снятие товара с публикации
//	@Tags		products
//	@Param		id	path	int	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id}/unpublish [put]
func (p *ProductHandler) unpublishProduct(w http.ResponseWriter, r *http.Request) {
	p.setPublished(w, r, false)
}

func (p *ProductHandler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.SetPublished(r.Context(), id, published); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}
