// Package cart — корзина покупателя на стороне витрины.
// Содержимое живет в key-value хранилище под одним ключом и
// переживает перезапуск сессии.
package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/hermes-labs/catalog-service/pkg/logger"
)

// StorageKey — ключ, под которым корзина лежит в хранилище.
const StorageKey = "hermes_cart"

// Storage — key-value хранилище корзины.
// Get возвращает ok=false, если значения под ключом нет.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Item — позиция корзины. В корзине не больше одной позиции на товар.
type Item struct {
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store управляет корзиной. Все операции безопасны для конкурентного
// использования; подписчики уведомляются после каждого изменения.
type Store struct {
	mu          sync.Mutex
	storage     Storage
	logger      logger.Logger
	subscribers map[int]func()
	nextSubID   int
	now         func() time.Time
}

func NewStore(storage Storage, logger logger.Logger) *Store {
	return &Store{
		storage:     storage,
		logger:      logger,
		subscribers: make(map[int]func()),
		now:         time.Now,
	}
}

// Items возвращает содержимое корзины. Позиции с некорректным productId
// отбрасываются, и очищенная корзина сразу пересохраняется.
// Ошибка чтения хранилища возвращается вызывающему; ItemCount и
// TotalQuantity, наоборот, гасят её и отдают ноль.
func (s *Store) Items(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(ctx)
}

// Add добавляет товар в корзину. Если товар уже есть, количество
// увеличивается на единицу и обновляется updatedAt; addedAt не меняется.
func (s *Store) Add(ctx context.Context, productID int64) error {
	const op = "cart.Add"

	if productID <= 0 {
		return e.Wrap(op, e.ErrInvalidProductID)
	}

	s.mu.Lock()
	items, err := s.loadLocked(ctx)
	if err != nil {
		s.mu.Unlock()
		return e.Wrap(op, err)
	}

	now := s.now().UTC()
	found := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			items[i].UpdatedAt = now
			found = true
			break
		}
	}
	if !found {
		items = append(items, Item{
			ProductID: productID,
			Quantity:  1,
			AddedAt:   now,
			UpdatedAt: now,
		})
	}

	if err := s.persistLocked(ctx, items); err != nil {
		s.mu.Unlock()
		return e.Wrap(op, err)
	}
	subs := s.collectSubscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return nil
}

// UpdateQuantity задает количество товара; ноль и меньше удаляют позицию.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	const op = "cart.UpdateQuantity"

	s.mu.Lock()
	items, err := s.loadLocked(ctx)
	if err != nil {
		s.mu.Unlock()
		return e.Wrap(op, err)
	}

	changed := false
	next := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			next = append(next, item)
			continue
		}

		changed = true
		if quantity > 0 {
			item.Quantity = quantity
			item.UpdatedAt = s.now().UTC()
			next = append(next, item)
		}
	}

	if !changed {
		s.mu.Unlock()
		return nil
	}

	if err := s.persistLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return e.Wrap(op, err)
	}
	subs := s.collectSubscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return nil
}

// Remove удаляет позицию из корзины.
func (s *Store) Remove(ctx context.Context, productID int64) error {
	return s.UpdateQuantity(ctx, productID, 0)
}

// Clear удаляет корзину из хранилища целиком.
func (s *Store) Clear(ctx context.Context) error {
	const op = "cart.Clear"

	s.mu.Lock()
	if s.storage == nil {
		s.mu.Unlock()
		return e.Wrap(op, e.ErrStorageUnavailable)
	}

	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		s.mu.Unlock()
		return e.Wrap(op, err)
	}
	subs := s.collectSubscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return nil
}

// ItemCount возвращает число различных товаров в корзине.
func (s *Store) ItemCount(ctx context.Context) int {
	items, err := s.Items(ctx)
	if err != nil {
		return 0
	}

	return len(items)
}

// TotalQuantity возвращает суммарное количество единиц по всем позициям.
func (s *Store) TotalQuantity(ctx context.Context) int {
	items, err := s.Items(ctx)
	if err != nil {
		return 0
	}

	total := 0
	for _, item := range items {
		total += item.Quantity
	}

	return total
}

// Subscribe регистрирует подписчика на изменения корзины и возвращает
// функцию отписки.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// loadLocked читает и чистит корзину; вызывается под mu.
func (s *Store) loadLocked(ctx context.Context) ([]Item, error) {
	if s.storage == nil {
		return []Item{}, e.ErrStorageUnavailable
	}

	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return []Item{}, err
	}
	if !ok || raw == "" {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warnf("cart payload corrupted, resetting: %v", err)
		return []Item{}, nil
	}

	// Отбрасываем позиции с некорректным productId
	valid := items[:0]
	for _, item := range items {
		if item.ProductID > 0 {
			valid = append(valid, item)
		}
	}

	if len(valid) != len(items) {
		if err := s.persistLocked(ctx, valid); err != nil {
			s.logger.Warnf("failed to persist pruned cart: %v", err)
		}
	}

	return valid, nil
}

func (s *Store) persistLocked(ctx context.Context, items []Item) error {
	if s.storage == nil {
		return e.ErrStorageUnavailable
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return s.storage.Set(ctx, StorageKey, string(data))
}

func (s *Store) collectSubscribersLocked() []func() {
	subs := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}

	return subs
}

// notify вызывает подписчиков вне блокировки: подписчик может сам
// обратиться к корзине.
func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
