package imagecodec

import (
	"bytes"
	"context"
	"encoding/base64"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/hermes-labs/catalog-service/internal/cfg"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("http://example.com/img.png"))
	assert.True(t, IsURL("https://example.com/img.png"))
	assert.False(t, IsURL("iVBORw0KGgo="))
	assert.False(t, IsURL("ftp://example.com/img.png"))
	assert.False(t, IsURL(""))

	// base64-строка, случайно начинающаяся с "http", но без префикса схемы,
	// URL-ом не считается
	assert.False(t, IsURL("httpAAAA"))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindURL, Classify("https://example.com/img.png"))
	assert.Equal(t, KindBase64, Classify("iVBORw0KGgo="))

	// Строка с префиксом http:// классифицируется как URL, даже если это
	// на самом деле закодированные байты: различение только по префиксу
	assert.Equal(t, KindURL, Classify("http://not-really-a-url"))
}

func TestDisplayURL(t *testing.T) {
	t.Run("url passes through unchanged", func(t *testing.T) {
		url := "https://cdn.example.com/products/1.png"
		assert.Equal(t, url, DisplayURL(url))
	})

	t.Run("base64 wrapped in data uri", func(t *testing.T) {
		assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", DisplayURL("iVBORw0KGgo="))
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Equal(t, "", DisplayURL(""))
	})
}

func makeFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File["image"]
	require.Len(t, files, 1)
	return files[0]
}

func TestCodec_EncodeUpload(t *testing.T) {
	t.Run("encodes file to base64", func(t *testing.T) {
		codec := NewCodec()
		content := []byte("fake image bytes")

		encoded, err := codec.EncodeUpload(makeFileHeader(t, "a.png", content))
		require.NoError(t, err)

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Equal(t, content, decoded)
	})

	t.Run("rejects oversized file before reading", func(t *testing.T) {
		codec := NewCodec(WithMaxBytes(8))

		_, err := codec.EncodeUpload(makeFileHeader(t, "big.png", []byte("way more than eight")))
		assert.ErrorIs(t, err, e.ErrImageTooLarge)
	})

	t.Run("nil header", func(t *testing.T) {
		codec := NewCodec()

		_, err := codec.EncodeUpload(nil)
		assert.ErrorIs(t, err, e.ErrNoFile)
	})
}

func TestCodec_FetchAndEncode(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches and encodes image", func(t *testing.T) {
		content := []byte("png-bytes")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			w.Write(content)
		}))
		defer srv.Close()

		codec := NewCodec()
		encoded, err := codec.FetchAndEncode(ctx, srv.URL+"/img.png")
		require.NoError(t, err)

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Equal(t, content, decoded)
	})

	t.Run("rejects non-url input", func(t *testing.T) {
		codec := NewCodec()

		_, err := codec.FetchAndEncode(ctx, "iVBORw0KGgo=")
		assert.ErrorIs(t, err, e.ErrInvalidImageURL)
	})

	t.Run("rejects oversized by content-length", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Content-Length", strconv.Itoa(100))
			w.Write(bytes.Repeat([]byte("x"), 100))
		}))
		defer srv.Close()

		codec := NewCodec(WithMaxBytes(10))
		_, err := codec.FetchAndEncode(ctx, srv.URL)
		assert.ErrorIs(t, err, e.ErrImageTooLarge)
	})

	t.Run("rejects oversized body without content-length", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			flusher := w.(http.Flusher)
			// Отдаем кусками, чтобы длина не попала в заголовок
			for i := 0; i < 10; i++ {
				w.Write(bytes.Repeat([]byte("x"), 10))
				flusher.Flush()
			}
		}))
		defer srv.Close()

		codec := NewCodec(WithMaxBytes(50))
		_, err := codec.FetchAndEncode(ctx, srv.URL)
		assert.ErrorIs(t, err, e.ErrImageTooLarge)
	})

	t.Run("rejects non-image content type", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		}))
		defer srv.Close()

		codec := NewCodec()
		_, err := codec.FetchAndEncode(ctx, srv.URL)
		assert.ErrorIs(t, err, e.ErrNotAnImage)
	})

	t.Run("rejects response without content type", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Подавляем и заголовок, и автоопределение типа
			w.Header()["Content-Type"] = nil
			w.Write([]byte("raw bytes"))
		}))
		defer srv.Close()

		codec := NewCodec()
		_, err := codec.FetchAndEncode(ctx, srv.URL)
		assert.ErrorIs(t, err, e.ErrNotAnImage)
	})

	t.Run("non-success status means not an image", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		codec := NewCodec()
		_, err := codec.FetchAndEncode(ctx, srv.URL)
		assert.ErrorIs(t, err, e.ErrNotAnImage)
	})

	t.Run("accepts any 2xx status", func(t *testing.T) {
		content := []byte("png-bytes")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusAccepted)
			w.Write(content)
		}))
		defer srv.Close()

		codec := NewCodec()
		encoded, err := codec.FetchAndEncode(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, base64.StdEncoding.EncodeToString(content), encoded)
	})

	t.Run("honors fetch timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png-bytes"))
		}))
		defer srv.Close()

		codec := NewCodec(WithFetchTimeout(20 * time.Millisecond))
		_, err := codec.FetchAndEncode(ctx, srv.URL)
		assert.ErrorIs(t, err, e.ErrImageEncodingFailed)
	})

	t.Run("wraps transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // сервер уже закрыт

		codec := NewCodec()
		_, err := codec.FetchAndEncode(ctx, srv.URL)
		assert.ErrorIs(t, err, e.ErrImageEncodingFailed)
	})
}

func TestNewCodecFromCfg(t *testing.T) {
	t.Run("applies configured limits", func(t *testing.T) {
		codec := NewCodecFromCfg(&cfg.ImageCfg{MaxBytes: 8, FetchTimeout: time.Second})

		_, err := codec.EncodeUpload(makeFileHeader(t, "big.png", []byte("way more than eight")))
		assert.ErrorIs(t, err, e.ErrImageTooLarge)
	})

	t.Run("nil config falls back to defaults", func(t *testing.T) {
		codec := NewCodecFromCfg(nil)

		encoded, err := codec.EncodeUpload(makeFileHeader(t, "a.png", []byte("tiny")))
		require.NoError(t, err)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("tiny")), encoded)
	})
}
