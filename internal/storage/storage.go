package storage

import "errors"

// ErrNotFound возвращается, когда по ключу ничего не сохранено
var ErrNotFound = errors.New("not found")

// Store порт key-value хранилища, играющего роль браузерного
// local storage: корзина и гостевые заказы живут здесь.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Namespaced оборачивает Store, добавляя ко всем ключам префикс.
// Так состояние разных сессий не пересекается в одном бэкенде.
type Namespaced struct {
	store  Store
	prefix string
}

func NewNamespaced(store Store, prefix string) *Namespaced {
	return &Namespaced{store: store, prefix: prefix}
}

func (n *Namespaced) key(k string) string { return n.prefix + ":" + k }

func (n *Namespaced) Get(key string) ([]byte, error) { return n.store.Get(n.key(key)) }

func (n *Namespaced) Set(key string, value []byte) error { return n.store.Set(n.key(key), value) }

func (n *Namespaced) Remove(key string) error { return n.store.Remove(n.key(key)) }
