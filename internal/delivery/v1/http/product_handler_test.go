package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hermes-labs/catalog-service/internal/domain"
	"github.com/hermes-labs/catalog-service/internal/usecase"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductUC — реализация ProductUC в памяти для тестов хендлеров.
type fakeProductUC struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newFakeProductUC() *fakeProductUC {
	return &fakeProductUC{products: make(map[int64]*domain.Product), nextID: 1}
}

func (f *fakeProductUC) ListProducts(_ context.Context) ([]domain.Product, error) {
	result := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		result = append(result, *p)
	}
	return result, nil
}

func (f *fakeProductUC) CountProducts(_ context.Context) (int64, error) {
	return int64(len(f.products)), nil
}

func (f *fakeProductUC) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductUC) GetProductDetails(_ context.Context, id int64) (*usecase.ProductDetails, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &usecase.ProductDetails{Product: *p}, nil
}

func (f *fakeProductUC) CreateProduct(_ context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, e.ErrProductNameRequired
	}
	if !req.Price.IsPositive() {
		return nil, e.ErrPriceMustBePositive
	}

	p := &domain.Product{
		ID:          f.nextID,
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsPublished: req.IsPublished,
		CreatedAt:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CategoryID:  req.CategoryID,
	}
	f.products[p.ID] = p
	f.nextID++
	return p, nil
}

func (f *fakeProductUC) UpdateProduct(_ context.Context, id int64, req *usecase.UpdateProductReq) error {
	p, ok := f.products[id]
	if !ok {
		return e.ErrProductNotFound
	}
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}
	p.Name = req.Name
	p.Price = req.Price
	p.IsPublished = req.IsPublished
	return nil
}

func (f *fakeProductUC) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductUC) SetPublished(_ context.Context, id int64, published bool) error {
	p, ok := f.products[id]
	if !ok {
		return e.ErrProductNotFound
	}
	p.IsPublished = published
	return nil
}

// fakeImageUC покрывает только то, что нужно продуктовым маршрутам.
type fakeImageUC struct {
	byProduct map[int64][]domain.Image
}

func (f *fakeImageUC) ListImages(_ context.Context) ([]domain.Image, error) { return nil, nil }
func (f *fakeImageUC) GetImage(_ context.Context, _ int64) (*domain.Image, error) {
	return nil, e.ErrImageNotFound
}
func (f *fakeImageUC) ImagesByProduct(_ context.Context, productID int64) ([]domain.Image, error) {
	return f.byProduct[productID], nil
}
func (f *fakeImageUC) CreateImage(_ context.Context, _ *usecase.CreateImageReq) (*domain.Image, error) {
	return nil, nil
}
func (f *fakeImageUC) DeleteImage(_ context.Context, _ int64) error                 { return nil }
func (f *fakeImageUC) AssignImageToProduct(_ context.Context, _, _ int64) error     { return nil }
func (f *fakeImageUC) GetImageData(_ context.Context, _ int64) (*usecase.ImageData, error) {
	return nil, e.ErrImageNotFound
}
func (f *fakeImageUC) UploadImage(_ context.Context, _ *usecase.UploadImageReq) (*domain.Image, error) {
	return nil, nil
}

func newProductRouter(t *testing.T) (chi.Router, *fakeProductUC) {
	t.Helper()

	fake := newFakeProductUC()
	router := chi.NewRouter()
	handler := NewProductHandler(fake, &fakeImageUC{byProduct: map[int64][]domain.Image{}}, logger.NewSlogLogger())
	registerProductRoutes(router, handler)

	return router, fake
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("server assigns id", func(t *testing.T) {
		router, _ := newProductRouter(t)

		// Клиент прислал свой id, он игнорируется
		rec := doJSON(t, router, http.MethodPost, "/products", map[string]any{
			"id":    999,
			"name":  "Vase",
			"price": "10.50",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var created ProductDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "Vase", created.Name)
		assert.True(t, created.Price.Equal(decimal.RequireFromString("10.50")))
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("missing name rejected", func(t *testing.T) {
		router, _ := newProductRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/products", map[string]any{
			"name":  "  ",
			"price": "10",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("non-positive price rejected", func(t *testing.T) {
		router, _ := newProductRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/products", map[string]any{
			"name":  "Vase",
			"price": "0",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		router, _ := newProductRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown nested fields ignored", func(t *testing.T) {
		router, _ := newProductRouter(t)

		// Клиент прислал развернутые навигационные объекты, они отбрасываются
		rec := doJSON(t, router, http.MethodPost, "/products", map[string]any{
			"name":     "Vase",
			"price":    "10",
			"category": map[string]any{"id": 5, "name": "Decor"},
			"image":    map[string]any{"id": 7},
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestProductHandler_GetAndList(t *testing.T) {
	router, fake := newProductRouter(t)
	_, err := fake.CreateProduct(context.Background(), &usecase.CreateProductReq{
		Name: "Vase", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/products", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var products []ProductDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
		assert.Len(t, products, 1)
	})

	t.Run("count", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/products/count", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var count CountResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&count))
		assert.Equal(t, int64(1), count.Count)
	})

	t.Run("get by id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/products/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var product ProductDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&product))
		assert.Equal(t, "Vase", product.Name)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/products/42", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id yields 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/products/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("details", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/products/1/details", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var details ProductDetailsDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&details))
		assert.Equal(t, int64(1), details.ID)
		assert.Nil(t, details.Category)
	})
}

func TestProductHandler_Update(t *testing.T) {
	newRouterWithProduct := func(t *testing.T) (chi.Router, *fakeProductUC) {
		router, fake := newProductRouter(t)
		_, err := fake.CreateProduct(context.Background(), &usecase.CreateProductReq{
			Name: "Vase", Price: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		return router, fake
	}

	t.Run("updates fields", func(t *testing.T) {
		router, fake := newRouterWithProduct(t)

		rec := doJSON(t, router, http.MethodPut, "/products/1", map[string]any{
			"id":    1,
			"name":  "Vase XL",
			"price": "15",
		})
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "Vase XL", fake.products[1].Name)
	})

	t.Run("body id omitted is accepted", func(t *testing.T) {
		router, _ := newRouterWithProduct(t)

		rec := doJSON(t, router, http.MethodPut, "/products/1", map[string]any{
			"name":  "Vase XL",
			"price": "15",
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("body id mismatch rejected", func(t *testing.T) {
		router, _ := newRouterWithProduct(t)

		rec := doJSON(t, router, http.MethodPut, "/products/1", map[string]any{
			"id":    2,
			"name":  "Vase XL",
			"price": "15",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		router, _ := newRouterWithProduct(t)

		rec := doJSON(t, router, http.MethodPut, "/products/42", map[string]any{
			"name":  "Vase XL",
			"price": "15",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductHandler_Delete(t *testing.T) {
	router, fake := newProductRouter(t)
	_, err := fake.CreateProduct(context.Background(), &usecase.CreateProductReq{
		Name: "Vase", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/products/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, fake.products)

	rec = doJSON(t, router, http.MethodDelete, "/products/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_Publish(t *testing.T) {
	router, fake := newProductRouter(t)
	_, err := fake.CreateProduct(context.Background(), &usecase.CreateProductReq{
		Name: "Vase", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPut, "/products/1/publish", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, fake.products[1].IsPublished)

	rec = doJSON(t, router, http.MethodPut, "/products/1/unpublish", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, fake.products[1].IsPublished)
}

func TestProductHandler_ProductImages(t *testing.T) {
	fake := newFakeProductUC()
	_, err := fake.CreateProduct(context.Background(), &usecase.CreateProductReq{
		Name: "Vase", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	images := &fakeImageUC{byProduct: map[int64][]domain.Image{
		1: {{ID: 7, ImageData: "iVBORw0KGgo="}},
	}}
	router := chi.NewRouter()
	registerProductRoutes(router, NewProductHandler(fake, images, logger.NewSlogLogger()))

	rec := doJSON(t, router, http.MethodGet, "/products/1/images", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []ImageDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
}
