package storage

import (
	"errors"
	"os"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := fs.Get("cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := fs.Set("cart", []byte(`{"items":[]}`)); err != nil {
		t.Fatal(err)
	}
	got, err := fs.Get("cart")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"items":[]}` {
		t.Fatalf("unexpected value: %s", got)
	}

	// значение переживает пересоздание стора
	fs2, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err = fs2.Get("cart")
	if err != nil || string(got) != `{"items":[]}` {
		t.Fatalf("value must survive restart: %v %s", err, got)
	}

	if err := fs.Remove("cart"); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Get("cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	// remove по несуществующему ключу не ошибка
	if err := fs.Remove("cart"); err != nil {
		t.Fatalf("remove must be idempotent: %v", err)
	}
}

func TestFileStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if err := fs.Set("cart", []byte("v")); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
}

func TestNamespaced_Isolation(t *testing.T) {
	base := NewMemoryStore()
	a := NewNamespaced(base, "session:a")
	b := NewNamespaced(base, "session:b")

	if err := a.Set("cart", []byte("alpha")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Get("cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("namespaces must not leak, got %v", err)
	}

	got, err := a.Get("cart")
	if err != nil || string(got) != "alpha" {
		t.Fatalf("unexpected: %v %s", err, got)
	}

	// префикс виден в базовом сторе
	if _, err := base.Get("session:a:cart"); err != nil {
		t.Fatalf("expected prefixed key in base store: %v", err)
	}

	if err := b.Remove("cart"); err != nil {
		t.Fatalf("remove in empty namespace: %v", err)
	}
	if _, err := a.Get("cart"); err != nil {
		t.Fatalf("remove in b must not touch a: %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	m := NewMemoryStore()
	val := []byte("original")
	if err := m.Set("k", val); err != nil {
		t.Fatal(err)
	}
	val[0] = 'X'

	got, err := m.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Fatalf("store must not alias caller slices: %s", got)
	}
	got[0] = 'Y'
	again, _ := m.Get("k")
	if string(again) != "original" {
		t.Fatalf("returned slice must be a copy: %s", again)
	}
}
