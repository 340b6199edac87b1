package http

import (
	_ "github.com/hermes-labs/catalog-service/docs" // Импорт сгенерированных файлов
	"github.com/hermes-labs/catalog-service/internal/cfg"
	"github.com/hermes-labs/catalog-service/internal/usecase"
	"github.com/hermes-labs/catalog-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC, imUC usecase.ImageUC, imageCfg *cfg.ImageCfg) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api", func(api chi.Router) {
		prHandler := NewProductHandler(prUC, imUC, r.logger)
		registerProductRoutes(api, prHandler)

		imHandler := NewImageHandler(imUC, r.logger).WithImageCfg(imageCfg)
		registerImageRoutes(api, imHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Get("/count", prHandler.countProducts)
		pr.Post("/", prHandler.createProduct)
		pr.Route("/{id}", func(item chi.Router) {
			item.Get("/", prHandler.getProduct)
			item.Get("/details", prHandler.getProductDetails)
			item.Get("/images", prHandler.listProductImages)
			item.Put("/", prHandler.updateProduct)
			item.Delete("/", prHandler.deleteProduct)
			item.Put("/publish", prHandler.publishProduct)
			item.Put("/unpublish", prHandler.unpublishProduct)
		})
	})
}

func registerImageRoutes(router chi.Router, imHandler *ImageHandler) {
	router.Route("/images", func(im chi.Router) {
		im.Get("/", imHandler.listImages)
		im.Post("/", imHandler.createImage)
		im.Post("/upload", imHandler.uploadImage)
		im.Get("/product/{productId}", imHandler.listByProduct)
		im.Route("/{id}", func(item chi.Router) {
			item.Get("/", imHandler.getImage)
			item.Get("/data", imHandler.getImageData)
			item.Delete("/", imHandler.deleteImage)
			item.Put("/product/{productId}", imHandler.assignProduct)
		})
	})
}
