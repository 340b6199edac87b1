// Package gateway — типизированный REST-клиент каталога для витрины.
// Ошибки транспорта и статусы сервера различаются сентинелами pkg/e,
// чтобы вызывающий код мог деградировать мягко.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

func New(baseURL string, logger logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetArray запрашивает коллекцию ресурсов: GET {base}/{path}.
func GetArray[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	const op = "gateway.GetArray"

	var result []T
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, e.Wrap(op, err)
	}

	return result, nil
}

// GetItem запрашивает одиночный ресурс: GET {base}/{path}.
func GetItem[T any](ctx context.Context, c *Client, path string) (*T, error) {
	const op = "gateway.GetItem"

	var result T
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, e.Wrap(op, err)
	}

	return &result, nil
}

// GetByID запрашивает ресурс по идентификатору: GET {base}/{resource}/{id}.
func GetByID[T any](ctx context.Context, c *Client, resource string, id int64) (*T, error) {
	return GetItem[T](ctx, c, fmt.Sprintf("%s/%d", resource, id))
}

// GetCount запрашивает количество ресурсов: GET {base}/{resource}/count.
func (c *Client) GetCount(ctx context.Context, resource string) (int64, error) {
	const op = "gateway.GetCount"

	var result struct {
		Count int64 `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, resource+"/count", nil, &result); err != nil {
		return 0, e.Wrap(op, err)
	}

	return result.Count, nil
}

// CreateAndReturn создает ресурс и возвращает тело ответа сервера,
// включая назначенные сервером id и createdAt.
func CreateAndReturn[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	const op = "gateway.CreateAndReturn"

	var result T
	if err := c.doJSON(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, e.Wrap(op, err)
	}

	return &result, nil
}

// Update обновляет ресурс: PUT {base}/{resource}/{id}, ответ без тела.
func (c *Client) Update(ctx context.Context, resource string, id int64, body any) error {
	const op = "gateway.Update"

	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/%d", resource, id), body, nil); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Delete удаляет ресурс: DELETE {base}/{resource}/{id}.
func (c *Client) Delete(ctx context.Context, resource string, id int64) error {
	const op = "gateway.Delete"

	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", resource, id), nil, nil); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Post выполняет POST без тела ответа.
func (c *Client) Post(ctx context.Context, path string) error {
	const op = "gateway.Post"

	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Put выполняет PUT по произвольному пути: действия вроде publish/unpublish
// или привязки ресурсов. body может быть nil.
func (c *Client) Put(ctx context.Context, path string, body any) error {
	const op = "gateway.Put"

	if err := c.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// GetRaw возвращает тело ответа как текст без JSON-декодирования.
func (c *Client) GetRaw(ctx context.Context, path string) (string, error) {
	const op = "gateway.GetRaw"

	url := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("%w: %w", e.ErrTransport, err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("%w: %w", e.ErrTransport, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", e.Wrap(op, e.ErrNotFound)
	case resp.StatusCode >= 400:
		return "", e.Wrap(op, fmt.Errorf("%w: GET %s: status %d", e.ErrServerError, path, resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("%w: %w", e.ErrTransport, err))
	}

	return string(data), nil
}

// doJSON выполняет запрос и декодирует JSON-ответ в out (если out != nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %w", e.ErrTransport, err)
		}
		reqBody = bytes.NewReader(data)
	}

	url := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("%w: %w", e.ErrTransport, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", e.ErrTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return e.ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: %s %s: status %d", e.ErrServerError, method, path, resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", e.ErrServerError, err)
	}

	return nil
}
