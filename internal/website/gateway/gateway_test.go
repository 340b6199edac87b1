package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestGetArray(t *testing.T) {
	t.Run("decodes collection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/widgets", r.URL.Path)
			json.NewEncoder(w).Encode([]widget{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
		}))
		defer srv.Close()

		c := New(srv.URL, logger.NewSlogLogger())
		items, err := GetArray[widget](context.Background(), c, "api/widgets")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "b", items[1].Name)
	})

	t.Run("transport failure yields ErrTransport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := New(srv.URL, logger.NewSlogLogger())
		_, err := GetArray[widget](context.Background(), c, "api/widgets")
		assert.ErrorIs(t, err, e.ErrTransport)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("decodes item", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/widgets/7", r.URL.Path)
			json.NewEncoder(w).Encode(widget{ID: 7, Name: "seven"})
		}))
		defer srv.Close()

		c := New(srv.URL, logger.NewSlogLogger())
		item, err := GetByID[widget](context.Background(), c, "api/widgets", 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), item.ID)
	})

	t.Run("404 yields ErrNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := New(srv.URL, logger.NewSlogLogger())
		_, err := GetByID[widget](context.Background(), c, "api/widgets", 7)
		assert.ErrorIs(t, err, e.ErrNotFound)
	})

	t.Run("500 yields ErrServerError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := New(srv.URL, logger.NewSlogLogger())
		_, err := GetByID[widget](context.Background(), c, "api/widgets", 7)
		assert.ErrorIs(t, err, e.ErrServerError)
	})
}

func TestGetCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/widgets/count", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]int64{"count": 42})
	}))
	defer srv.Close()

	c := New(srv.URL, logger.NewSlogLogger())
	count, err := c.GetCount(context.Background(), "api/widgets")
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestGetRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text body"))
	}))
	defer srv.Close()

	c := New(srv.URL, logger.NewSlogLogger())
	body, err := c.GetRaw(context.Background(), "api/widgets/raw")
	require.NoError(t, err)
	assert.Equal(t, "plain text body", body)
}

func TestCreateAndReturn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in widget
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		// Сервер назначает id сам
		in.ID = 101
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	c := New(srv.URL, logger.NewSlogLogger())
	created, err := CreateAndReturn[widget](context.Background(), c, "api/widgets", widget{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)
	assert.Equal(t, "new", created.Name)
}

func TestUpdateAndDelete(t *testing.T) {
	t.Run("update sends PUT, tolerates empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/widgets/3", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := New(srv.URL, logger.NewSlogLogger())
		assert.NoError(t, c.Update(context.Background(), "api/widgets", 3, widget{ID: 3}))
	})

	t.Run("delete sends DELETE", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := New(srv.URL, logger.NewSlogLogger())
		assert.NoError(t, c.Delete(context.Background(), "api/widgets", 3))
	})

	t.Run("put hits arbitrary path", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/api/widgets/3/publish", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := New(srv.URL, logger.NewSlogLogger())
		assert.NoError(t, c.Put(context.Background(), "api/widgets/3/publish", nil))
	})

	t.Run("delete of missing resource yields ErrNotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := New(srv.URL, logger.NewSlogLogger())
		assert.ErrorIs(t, c.Delete(context.Background(), "api/widgets", 3), e.ErrNotFound)
	})
}
