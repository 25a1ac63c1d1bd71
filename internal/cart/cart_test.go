package cart

import (
	"testing"

	"go.uber.org/zap"

	"sdoba/internal/domain"
	"sdoba/internal/storage"
)

func product(id string, price int64) domain.Product {
	return domain.Product{ID: id, Name: "Булка " + id, Price: price, Available: true}
}

func setup(t *testing.T) (*Store, storage.Store) {
	t.Helper()
	kv := storage.NewMemoryStore()
	return NewStore(kv, zap.NewNop()), kv
}

func TestAdd_MergesByProductID(t *testing.T) {
	s, _ := setup(t)
	p := product("p1", 100)
	for i := 0; i < 3; i++ {
		s.Add(p)
	}
	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", items[0].Quantity)
	}
}

func TestTotal(t *testing.T) {
	s, _ := setup(t)
	p1 := product("p1", 100)
	p2 := product("p2", 50)
	s.Add(p1)
	s.Add(p1)
	s.Add(p2)
	if got := s.Total(); got != 250 {
		t.Fatalf("total expected 250, got %d", got)
	}
	s.Remove("p1")
	if got := s.Total(); got != 50 {
		t.Fatalf("total after remove expected 50, got %d", got)
	}
}

func TestRemove_UnknownIDIsNoop(t *testing.T) {
	s, _ := setup(t)
	s.Add(product("p1", 10))
	s.Remove("nope")
	if len(s.Items()) != 1 {
		t.Fatalf("remove of unknown id must not touch the cart")
	}
}

func TestUpdateQuantity_Floor(t *testing.T) {
	s, _ := setup(t)
	s.Add(product("p1", 10))
	s.UpdateQuantity("p1", 5)
	if s.Items()[0].Quantity != 5 {
		t.Fatalf("expected quantity 5")
	}
	s.UpdateQuantity("p1", 0)
	s.UpdateQuantity("p1", -5)
	if s.Items()[0].Quantity != 5 {
		t.Fatalf("quantity below 1 must keep previous value, got %d", s.Items()[0].Quantity)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := NewStore(kv, zap.NewNop())
	s.Add(product("p1", 100))
	s.Add(product("p1", 100))
	s.Add(product("p2", 50))
	s.UpdateQuantity("p2", 4)

	// новый Store поверх того же хранилища — как перезапуск вкладки
	restored := NewStore(kv, zap.NewNop())
	items := restored.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items after restore, got %d", len(items))
	}
	if items[0].Product.ID != "p1" || items[0].Quantity != 2 {
		t.Fatalf("first item lost: %+v", items[0])
	}
	if items[1].Product.ID != "p2" || items[1].Quantity != 4 {
		t.Fatalf("second item lost: %+v", items[1])
	}
	if restored.Total() != s.Total() {
		t.Fatalf("totals differ after restore: %d vs %d", restored.Total(), s.Total())
	}
}

func TestRestore_MalformedDataFallsBackToEmpty(t *testing.T) {
	kv := storage.NewMemoryStore()
	if err := kv.Set("cart", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	s := NewStore(kv, zap.NewNop())
	if len(s.Items()) != 0 {
		t.Fatalf("malformed stored cart must decode to empty")
	}
}

func TestClear(t *testing.T) {
	s, kv := setup(t)
	s.Add(product("p1", 10))
	s.Clear()
	if len(s.Items()) != 0 || s.Total() != 0 {
		t.Fatalf("clear must empty the cart")
	}
	// и хранилище должно отражать пустую корзину сразу же
	restored := NewStore(kv, zap.NewNop())
	if len(restored.Items()) != 0 {
		t.Fatalf("cleared cart must persist as empty")
	}
}
