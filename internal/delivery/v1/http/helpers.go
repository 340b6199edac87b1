package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hermes-labs/catalog-service/internal/domain"
	"github.com/hermes-labs/catalog-service/internal/usecase"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ProductDTO — товар на проводе. Имена полей — lowerCamelCase,
// их же ждет клиент каталога.
type ProductDTO struct {
	ID          int64           `json:"id"`
	WorkspaceID int64           `json:"workspaceId"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsPublished bool            `json:"isPublished"`
	CreatedAt   time.Time       `json:"createdAt"`
	ImageID     *int64          `json:"imageId,omitempty"`
	PlasticID   *int64          `json:"plasticId,omitempty"`
	CategoryID  *int64          `json:"categoryId,omitempty"`
	TagID       *int64          `json:"tagId,omitempty"`
	StockID     *int64          `json:"stockId,omitempty"`
	SeoID       *int64          `json:"seoId,omitempty"`
}

// ProductReq — тело POST/PUT товара. Вложенные навигационные объекты,
// присланные клиентом, сюда не декодируются и отбрасываются.
type ProductReq struct {
	ID          int64           `json:"id"`
	WorkspaceID int64           `json:"workspaceId"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsPublished bool            `json:"isPublished"`
	ImageID     *int64          `json:"imageId"`
	PlasticID   *int64          `json:"plasticId"`
	CategoryID  *int64          `json:"categoryId"`
	TagID       *int64          `json:"tagId"`
	StockID     *int64          `json:"stockId"`
	SeoID       *int64          `json:"seoId"`
}

type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SeoDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ProductDetailsDTO — товар с развернутыми связями.
type ProductDetailsDTO struct {
	ProductDTO
	Image    *ImageDTO    `json:"image,omitempty"`
	Category *CategoryDTO `json:"category,omitempty"`
	Seo      *SeoDTO      `json:"seo,omitempty"`
}

type ImageDTO struct {
	ID        int64     `json:"id"`
	ProductID *int64    `json:"productId,omitempty"`
	ImageData string    `json:"imageData"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImageDataDTO — изображение с явными признаками типа хранения.
type ImageDataDTO struct {
	ID        int64     `json:"id"`
	ImageData string    `json:"imageData"`
	IsURL     bool      `json:"isUrl"`
	IsBase64  bool      `json:"isBase64"`
	ProductID *int64    `json:"productId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateImageReq struct {
	ProductID *int64 `json:"productId"`
	ImageData string `json:"imageData"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

func toProductDTO(p *domain.Product) *ProductDTO {
	return &ProductDTO{
		ID:          p.ID,
		WorkspaceID: p.WorkspaceID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
		ImageID:     p.ImageID,
		PlasticID:   p.PlasticID,
		CategoryID:  p.CategoryID,
		TagID:       p.TagID,
		StockID:     p.StockID,
		SeoID:       p.SeoID,
	}
}

func toProductDTOs(products []domain.Product) []ProductDTO {
	result := make([]ProductDTO, 0, len(products))
	for i := range products {
		result = append(result, *toProductDTO(&products[i]))
	}

	return result
}

func toImageDTO(img *domain.Image) *ImageDTO {
	return &ImageDTO{
		ID:        img.ID,
		ProductID: img.ProductID,
		ImageData: img.ImageData,
		CreatedAt: img.CreatedAt,
	}
}

func toImageDTOs(images []domain.Image) []ImageDTO {
	result := make([]ImageDTO, 0, len(images))
	for i := range images {
		result = append(result, *toImageDTO(&images[i]))
	}

	return result
}

func toImageDataDTO(data *usecase.ImageData) *ImageDataDTO {
	return &ImageDataDTO{
		ID:        data.ID,
		ImageData: data.ImageData,
		IsURL:     data.IsURL,
		IsBase64:  data.IsBase64,
		ProductID: data.ProductID,
		CreatedAt: data.CreatedAt,
	}
}

func toProductDetailsDTO(details *usecase.ProductDetails) *ProductDetailsDTO {
	dto := &ProductDetailsDTO{ProductDTO: *toProductDTO(&details.Product)}

	if details.Image != nil {
		dto.Image = toImageDTO(details.Image)
	}
	if details.Category != nil {
		dto.Category = &CategoryDTO{ID: details.Category.ID, Name: details.Category.Name}
	}
	if details.Seo != nil {
		dto.Seo = &SeoDTO{ID: details.Seo.ID, Title: details.Seo.Title, Description: details.Seo.Description}
	}

	return dto
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrImageNotFound):
		return http.StatusNotFound, e.ErrImageNotFound.Error()
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrNotFound.Error()
	case errors.Is(err, e.ErrInvalidRequestBody):
		return http.StatusBadRequest, e.ErrInvalidRequestBody.Error()
	case errors.Is(err, e.ErrProductNameRequired):
		return http.StatusBadRequest, e.ErrProductNameRequired.Error()
	case errors.Is(err, e.ErrPriceMustBePositive):
		return http.StatusBadRequest, e.ErrPriceMustBePositive.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrInvalidID):
		return http.StatusBadRequest, e.ErrInvalidID.Error()
	case errors.Is(err, e.ErrIDMismatch):
		return http.StatusBadRequest, e.ErrIDMismatch.Error()
	case errors.Is(err, e.ErrPersistenceFailed):
		return http.StatusBadRequest, e.ErrPersistenceFailed.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrNoFile):
		return http.StatusBadRequest, e.ErrNoFile.Error()
	case errors.Is(err, e.ErrNotAnImage):
		return http.StatusBadRequest, e.ErrNotAnImage.Error()
	case errors.Is(err, e.ErrImageTooLarge):
		return http.StatusBadRequest, e.ErrImageTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	if status == http.StatusNoContent || data == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseFormID читает положительный идентификатор из строки формы.
func parseFormID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrInvalidID
	}

	return id, nil
}

// parseIDParam читает целочисленный path-параметр chi.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrInvalidID
	}

	return id, nil
}
