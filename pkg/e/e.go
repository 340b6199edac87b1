package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrImageNotFound   = fmt.Errorf("image not found")
	ErrNotFound        = fmt.Errorf("resource not found")

	// 400 Bad Request
	ErrInvalidRequestBody  = fmt.Errorf("invalid request body")
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrPriceMustBePositive = fmt.Errorf("price must be positive")
	ErrInvalidPrice        = fmt.Errorf("invalid price format")
	ErrInvalidID           = fmt.Errorf("invalid id")
	ErrIDMismatch          = fmt.Errorf("body id does not match path id")
	ErrPersistenceFailed   = fmt.Errorf("persistence failed")
	ErrExpectedMultipart   = fmt.Errorf("expected multipart/form-data")
	ErrNoFile              = fmt.Errorf("no file provided")

	// 415 Unsupported Media Type
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")

	// Ошибки корзины
	ErrInvalidProductID   = fmt.Errorf("product id must be positive")
	ErrStorageUnavailable = fmt.Errorf("cart storage unavailable")

	// Ошибки кодека изображений
	ErrImageTooLarge       = fmt.Errorf("image exceeds size limit")
	ErrInvalidImageURL     = fmt.Errorf("invalid image url")
	ErrNotAnImage          = fmt.Errorf("response is not an image")
	ErrImageEncodingFailed = fmt.Errorf("image encoding failed")

	// Ошибки HTTP-шлюза
	ErrTransport   = fmt.Errorf("transport error")
	ErrServerError = fmt.Errorf("server returned error status")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
