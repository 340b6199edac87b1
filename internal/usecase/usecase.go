package usecase

import (
	"context"

	"github.com/hermes-labs/catalog-service/internal/domain"
)

type ProductUC interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductDetails(ctx context.Context, id int64) (*ProductDetails, error)
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) error
	DeleteProduct(ctx context.Context, id int64) error
	SetPublished(ctx context.Context, id int64, published bool) error
}

type ImageUC interface {
	ListImages(ctx context.Context) ([]domain.Image, error)
	GetImage(ctx context.Context, id int64) (*domain.Image, error)
	ImagesByProduct(ctx context.Context, productID int64) ([]domain.Image, error)
	CreateImage(ctx context.Context, req *CreateImageReq) (*domain.Image, error)
	DeleteImage(ctx context.Context, id int64) error
	AssignImageToProduct(ctx context.Context, imageID, productID int64) error
	GetImageData(ctx context.Context, id int64) (*ImageData, error)
	UploadImage(ctx context.Context, req *UploadImageReq) (*domain.Image, error)
}
