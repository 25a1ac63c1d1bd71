package cart

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"sdoba/internal/domain"
	"sdoba/internal/storage"
)

const storageKey = "cart"

// Store корзина с персистентностью: каждое изменение синхронно
// сериализуется в хранилище, при создании состояние читается обратно.
// На один товар в корзине не больше одной позиции.
type Store struct {
	mu     sync.RWMutex
	items  []domain.CartItem
	kv     storage.Store
	logger *zap.Logger
}

// NewStore поднимает корзину из хранилища. Отсутствующее или битое
// значение трактуется как пустая корзина и наружу не отдаётся.
func NewStore(kv storage.Store, logger *zap.Logger) *Store {
	s := &Store{kv: kv, logger: logger}
	data, err := kv.Get(storageKey)
	if err != nil {
		if err != storage.ErrNotFound {
			logger.Warn("cart restore failed, starting empty", zap.Error(err))
		}
		return s
	}
	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("stored cart is malformed, starting empty", zap.Error(err))
		return s
	}
	s.items = items
	return s
}

// Add добавляет товар: существующая позиция получает +1 к количеству,
// новая встаёт в конец со счётчиком 1
func (s *Store) Add(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == p.ID {
			s.items[i].Quantity++
			s.persist()
			return
		}
	}
	s.items = append(s.items, domain.CartItem{Product: p, Quantity: 1})
	s.persist()
}

// Remove убирает позицию целиком; неизвестный id — тихий no-op
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.Product.ID != productID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(s.items) {
		return
	}
	s.items = kept
	s.persist()
}

// UpdateQuantity выставляет количество позиции. Значения меньше 1
// игнорируются: это защита от обнуления, а не удаление.
func (s *Store) UpdateQuantity(productID string, quantity int64) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
			s.persist()
			return
		}
	}
}

// Clear опустошает корзину (после успешного заказа и при выходе из аккаунта)
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persist()
}

// Items возвращает копию позиций в порядке добавления
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total сумма корзины: Σ цена * количество
func (s *Store) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum int64
	for _, it := range s.items {
		sum += it.Product.Price * it.Quantity
	}
	return sum
}

// persist вызывается под write-локом
func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("cart marshal failed", zap.Error(err))
		return
	}
	if err := s.kv.Set(storageKey, data); err != nil {
		s.logger.Error("cart persist failed", zap.Error(err))
	}
}
