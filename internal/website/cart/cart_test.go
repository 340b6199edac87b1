package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage — key-value хранилище в памяти для тестов.
type memStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string]string)}
}

func (m *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func newTestStore(t *testing.T) (*Store, *memStorage) {
	t.Helper()
	storage := newMemStorage()
	return NewStore(storage, logger.NewSlogLogger()), storage
}

func TestStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive product id", func(t *testing.T) {
		store, _ := newTestStore(t)

		err := store.Add(ctx, 0)
		assert.ErrorIs(t, err, e.ErrInvalidProductID)

		err = store.Add(ctx, -5)
		assert.ErrorIs(t, err, e.ErrInvalidProductID)
	})

	t.Run("appends new item with quantity one", func(t *testing.T) {
		store, _ := newTestStore(t)

		require.NoError(t, store.Add(ctx, 1))

		items, err := store.Items(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1), items[0].ProductID)
		assert.Equal(t, 1, items[0].Quantity)
		assert.Equal(t, items[0].AddedAt, items[0].UpdatedAt)
	})

	t.Run("increments quantity for existing item", func(t *testing.T) {
		store, _ := newTestStore(t)

		require.NoError(t, store.Add(ctx, 1))
		require.NoError(t, store.Add(ctx, 1))
		require.NoError(t, store.Add(ctx, 2))

		items, err := store.Items(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, 1, items[1].Quantity)
	})

	t.Run("repeat add touches updatedAt but not addedAt", func(t *testing.T) {
		store, _ := newTestStore(t)

		// Управляемые часы: второй Add происходит "минутой позже"
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		current := base
		store.now = func() time.Time { return current }

		require.NoError(t, store.Add(ctx, 1))

		current = base.Add(time.Minute)
		require.NoError(t, store.Add(ctx, 1))

		items, err := store.Items(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, base, items[0].AddedAt)
		assert.Equal(t, base.Add(time.Minute), items[0].UpdatedAt)
	})
}

func TestStore_Counts(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Add(ctx, 1))
	require.NoError(t, store.Add(ctx, 1))
	require.NoError(t, store.Add(ctx, 1))
	require.NoError(t, store.Add(ctx, 2))

	// ItemCount — различные товары, TotalQuantity — сумма единиц
	assert.Equal(t, 2, store.ItemCount(ctx))
	assert.Equal(t, 4, store.TotalQuantity(ctx))
}

func TestStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("sets quantity", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Add(ctx, 1))

		require.NoError(t, store.UpdateQuantity(ctx, 1, 5))

		items, err := store.Items(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
	})

	t.Run("zero quantity removes item", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Add(ctx, 1))

		require.NoError(t, store.UpdateQuantity(ctx, 1, 0))

		assert.Equal(t, 0, store.ItemCount(ctx))
	})

	t.Run("unknown product is a no-op", func(t *testing.T) {
		store, _ := newTestStore(t)
		require.NoError(t, store.Add(ctx, 1))

		require.NoError(t, store.UpdateQuantity(ctx, 42, 3))

		assert.Equal(t, 1, store.ItemCount(ctx))
	})
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Add(ctx, 1))
	require.NoError(t, store.Add(ctx, 2))

	require.NoError(t, store.Remove(ctx, 1))

	items, err := store.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t)

	require.NoError(t, store.Add(ctx, 1))
	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, 0, store.ItemCount(ctx))

	// Слот удаляется из хранилища целиком, а не перезаписывается пустым
	_, ok, err := storage.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PrunesInvalidItems(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t)

	// Запись с невалидным productId, оставшаяся от старой версии
	raw := `[{"productId":-1,"quantity":1,"addedAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"},` +
		`{"productId":5,"quantity":2,"addedAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}]`
	require.NoError(t, storage.Set(ctx, StorageKey, raw))

	items, err := store.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].ProductID)

	// Очищенная корзина сразу пересохраняется
	persisted, ok, err := storage.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, persisted, `"productId":-1`)
}

func TestStore_CorruptedPayloadResets(t *testing.T) {
	ctx := context.Background()
	store, storage := newTestStore(t)

	require.NoError(t, storage.Set(ctx, StorageKey, "{not json"))

	items, err := store.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// failingStorage всегда возвращает одну и ту же ошибку.
type failingStorage struct {
	err error
}

func (f *failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, f.err
}

func (f *failingStorage) Set(context.Context, string, string) error { return f.err }

func (f *failingStorage) Delete(context.Context, string) error { return f.err }

func TestStore_StorageReadFailure(t *testing.T) {
	ctx := context.Background()
	errRead := errors.New("storage read failed")
	store := NewStore(&failingStorage{err: errRead}, logger.NewSlogLogger())

	// Items отдает ошибку хранилища как есть, счетчики гасят её
	items, err := store.Items(ctx)
	assert.ErrorIs(t, err, errRead)
	assert.Empty(t, items)

	assert.Equal(t, 0, store.ItemCount(ctx))
	assert.Equal(t, 0, store.TotalQuantity(ctx))
}

func TestStore_NilStorage(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, logger.NewSlogLogger())

	items, err := store.Items(ctx)
	assert.ErrorIs(t, err, e.ErrStorageUnavailable)
	assert.Empty(t, items)

	assert.ErrorIs(t, store.Add(ctx, 1), e.ErrStorageUnavailable)
	assert.ErrorIs(t, store.Clear(ctx), e.ErrStorageUnavailable)
	assert.Equal(t, 0, store.ItemCount(ctx))
	assert.Equal(t, 0, store.TotalQuantity(ctx))
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	calls := 0
	unsubscribe := store.Subscribe(func() { calls++ })

	require.NoError(t, store.Add(ctx, 1))
	assert.Equal(t, 1, calls)

	require.NoError(t, store.UpdateQuantity(ctx, 1, 3))
	assert.Equal(t, 2, calls)

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 3, calls)

	unsubscribe()
	require.NoError(t, store.Add(ctx, 1))
	assert.Equal(t, 3, calls)
}

func TestStore_SubscriberCanReadCart(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	// Подписчик обращается к корзине из колбэка: не должно быть дедлока
	got := -1
	store.Subscribe(func() {
		got = store.TotalQuantity(ctx)
	})

	require.NoError(t, store.Add(ctx, 1))
	assert.Equal(t, 1, got)
}
