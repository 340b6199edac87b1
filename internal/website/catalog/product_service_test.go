package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hermes-labs/catalog-service/internal/website/gateway"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func newProductAPI(t *testing.T, products []Product) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(products)
	})
	mux.HandleFunc("GET /api/products/count", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"count": len(products)})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newProductService(t *testing.T, baseURL string) *ProductService {
	t.Helper()
	return NewProductService(gateway.New(baseURL, logger.NewSlogLogger()), logger.NewSlogLogger())
}

func sampleProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Vase Nordic",
			Price:       decimal.NewFromInt(10),
			IsPublished: true,
			CategoryID:  int64Ptr(5),
			CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Name:        "Bowl",
			Price:       decimal.NewFromInt(30),
			IsPublished: false,
			CategoryID:  int64Ptr(6),
			CreatedAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          3,
			Name:        "Small vase",
			Price:       decimal.NewFromInt(20),
			IsPublished: true,
			CreatedAt:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestProductService_FailSoft(t *testing.T) {
	ctx := context.Background()

	// Сервер недоступен: коллекционные методы не возвращают ошибку
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	svc := newProductService(t, srv.URL)

	assert.Empty(t, svc.GetAll(ctx))
	assert.Equal(t, int64(0), svc.Count(ctx))
	assert.Empty(t, svc.SearchByName(ctx, "vase"))
	assert.Empty(t, svc.ByPublished(ctx, true))
	assert.Empty(t, svc.Recent(ctx, 5))

	stats := svc.Statistics(ctx)
	assert.Equal(t, 0, stats.Total)

	// Точечный метод возвращает типизированную ошибку
	_, err := svc.GetByID(ctx, 1)
	assert.ErrorIs(t, err, e.ErrTransport)
}

func TestProductService_GetAllAndCount(t *testing.T) {
	ctx := context.Background()
	srv := newProductAPI(t, sampleProducts())
	svc := newProductService(t, srv.URL)

	products := svc.GetAll(ctx)
	require.Len(t, products, 3)
	assert.Equal(t, "Vase Nordic", products[0].Name)

	assert.Equal(t, int64(3), svc.Count(ctx))
}

func TestProductService_SearchByName(t *testing.T) {
	ctx := context.Background()
	srv := newProductAPI(t, sampleProducts())
	svc := newProductService(t, srv.URL)

	t.Run("case-insensitive substring match", func(t *testing.T) {
		found := svc.SearchByName(ctx, "VASE")
		require.Len(t, found, 2)
		assert.Equal(t, int64(1), found[0].ID)
		assert.Equal(t, int64(3), found[1].ID)
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		assert.Len(t, svc.SearchByName(ctx, "   "), 3)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, svc.SearchByName(ctx, "teapot"))
	})
}

func TestProductService_ByPublished(t *testing.T) {
	ctx := context.Background()
	srv := newProductAPI(t, sampleProducts())
	svc := newProductService(t, srv.URL)

	published := svc.ByPublished(ctx, true)
	require.Len(t, published, 2)

	unpublished := svc.ByPublished(ctx, false)
	require.Len(t, unpublished, 1)
	assert.Equal(t, int64(2), unpublished[0].ID)
}

func TestProductService_ByCategory(t *testing.T) {
	ctx := context.Background()
	srv := newProductAPI(t, sampleProducts())
	svc := newProductService(t, srv.URL)

	found := svc.ByCategory(ctx, 5)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].ID)

	// Товары без категории не попадают ни в одну выборку
	assert.Empty(t, svc.ByCategory(ctx, 999))
}

func TestProductService_Recent(t *testing.T) {
	ctx := context.Background()
	srv := newProductAPI(t, sampleProducts())
	svc := newProductService(t, srv.URL)

	recent := svc.Recent(ctx, 2)
	require.Len(t, recent, 2)

	// Новые первыми
	assert.Equal(t, int64(2), recent[0].ID)
	assert.Equal(t, int64(3), recent[1].ID)
}

func TestProductService_Statistics(t *testing.T) {
	ctx := context.Background()
	srv := newProductAPI(t, sampleProducts())
	svc := newProductService(t, srv.URL)

	stats := svc.Statistics(ctx)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Published)
	assert.Equal(t, 1, stats.Unpublished)
	assert.True(t, stats.AveragePrice.Equal(decimal.NewFromInt(20)),
		"average price = %s", stats.AveragePrice)
	assert.True(t, stats.MinPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, stats.MaxPrice.Equal(decimal.NewFromInt(30)))
}

func TestProductService_PointMethods(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Product{ID: 1, Name: "Vase", Price: decimal.NewFromInt(10)})
	})
	mux.HandleFunc("GET /api/products/1/details", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ProductDetails{
			Product:  Product{ID: 1, Name: "Vase"},
			Category: &Category{ID: 5, Name: "Decor"},
		})
	})
	mux.HandleFunc("PUT /api/products/1/publish", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newProductService(t, srv.URL)

	t.Run("get by id", func(t *testing.T) {
		product, err := svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Vase", product.Name)
	})

	t.Run("missing product yields ErrNotFound", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 404)
		assert.ErrorIs(t, err, e.ErrNotFound)
	})

	t.Run("details expose linked entities", func(t *testing.T) {
		details, err := svc.GetWithDetails(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, details.Category)
		assert.Equal(t, "Decor", details.Category.Name)
		assert.Nil(t, details.Seo)
	})

	t.Run("publish", func(t *testing.T) {
		assert.NoError(t, svc.Publish(ctx, 1))
	})
}
