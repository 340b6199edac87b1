// Package imagecodec кодирует изображения товаров в base64 и обратно
// разворачивает их в пригодный для отображения вид. Строка изображения
// считается URL, если начинается с http:// или https://; всё остальное
// трактуется как base64.
package imagecodec

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/hermes-labs/catalog-service/internal/cfg"
	"github.com/hermes-labs/catalog-service/pkg/e"
)

// DefaultMaxBytes — потолок размера изображения, 2 MiB.
const DefaultMaxBytes int64 = 2 << 20

// DefaultFetchTimeout ограничивает скачивание изображения по URL.
const DefaultFetchTimeout = 10 * time.Second

// Kind — способ хранения строки изображения.
type Kind int

const (
	KindBase64 Kind = iota
	KindURL
)

// Codec кодирует загруженные файлы и внешние URL в base64-строки.
type Codec struct {
	client   *http.Client
	maxBytes int64
}

// Option настраивает Codec.
type Option func(*Codec)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Codec) { c.client = client }
}

func WithMaxBytes(maxBytes int64) Option {
	return func(c *Codec) { c.maxBytes = maxBytes }
}

// WithFetchTimeout ограничивает время скачивания изображения по URL.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(c *Codec) { c.client.Timeout = timeout }
}

func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		client:   &http.Client{Timeout: DefaultFetchTimeout},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewCodecFromCfg собирает кодек по конфигурации изображений
// (IMAGE_MAX_BYTES, IMAGE_FETCH_TIMEOUT).
func NewCodecFromCfg(imageCfg *cfg.ImageCfg) *Codec {
	opts := make([]Option, 0, 2)
	if imageCfg != nil {
		if imageCfg.MaxBytes > 0 {
			opts = append(opts, WithMaxBytes(imageCfg.MaxBytes))
		}
		if imageCfg.FetchTimeout > 0 {
			opts = append(opts, WithFetchTimeout(imageCfg.FetchTimeout))
		}
	}

	return NewCodec(opts...)
}

// IsURL сообщает, является ли строка изображения внешним URL.
func IsURL(imageData string) bool {
	return strings.HasPrefix(imageData, "http://") || strings.HasPrefix(imageData, "https://")
}

// Classify возвращает способ хранения строки изображения.
func Classify(imageData string) Kind {
	if IsURL(imageData) {
		return KindURL
	}

	return KindBase64
}

// DisplayURL превращает строку изображения в значение для атрибута src.
// URL возвращается как есть, base64 оборачивается в data-URI.
// MIME-тип в data-URI всегда image/png: исходный тип после кодирования
// не сохраняется, браузеры декодируют содержимое по фактическим байтам.
func DisplayURL(imageData string) string {
	if imageData == "" {
		return ""
	}
	if IsURL(imageData) {
		return imageData
	}

	return "data:image/png;base64," + imageData
}

// EncodeUpload читает файл из multipart-формы и кодирует его в base64.
// Файлы больше лимита отклоняются до чтения содержимого.
func (c *Codec) EncodeUpload(fh *multipart.FileHeader) (string, error) {
	const op = "imagecodec.EncodeUpload"

	if fh == nil {
		return "", e.Wrap(op, e.ErrNoFile)
	}
	if fh.Size > c.maxBytes {
		return "", e.Wrap(op, e.ErrImageTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, e.ErrImageEncodingFailed, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, c.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, e.ErrImageEncodingFailed, err)
	}
	if int64(len(data)) > c.maxBytes {
		return "", e.Wrap(op, e.ErrImageTooLarge)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// FetchAndEncode скачивает изображение по URL и кодирует его в base64.
// Размер проверяется и по заголовку Content-Length, и по фактически
// прочитанным байтам: сервер может не прислать длину или соврать.
func (c *Codec) FetchAndEncode(ctx context.Context, rawURL string) (string, error) {
	const op = "imagecodec.FetchAndEncode"

	if !IsURL(rawURL) {
		return "", e.Wrap(op, e.ErrInvalidImageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", e.Wrap(op, e.ErrInvalidImageURL)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, e.ErrImageEncodingFailed, err)
	}
	defer resp.Body.Close()

	// Неуспешный ответ или ответ без image/* — по этому URL нет изображения
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%s: %w: status %d", op, e.ErrNotAnImage, resp.StatusCode)
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return "", e.Wrap(op, e.ErrNotAnImage)
	}

	if resp.ContentLength > c.maxBytes {
		return "", e.Wrap(op, e.ErrImageTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, e.ErrImageEncodingFailed, err)
	}
	if int64(len(data)) > c.maxBytes {
		return "", e.Wrap(op, e.ErrImageTooLarge)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}
