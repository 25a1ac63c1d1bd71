package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"sdoba/internal/domain"
)

func newClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client(), zap.NewNop()), srv
}

func TestCreateOrder(t *testing.T) {
	var gotAuth string
	var gotBody domain.CreateOrderRequest
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/orders" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Order{ID: "abc123", Status: domain.OrderStatusPending})
	}))

	req := domain.CreateOrderRequest{
		Items: []domain.OrderItem{{ProductID: "p1", Quantity: 2, Price: 100}},
		DeliveryAddress: domain.DeliveryAddress{
			Address:     "ул. Ленина, 1",
			Coordinates: &domain.Coordinates{Lat: 55.75, Lon: 37.61},
		},
		ContactInfo: domain.ContactInfo{Name: "Мария", Email: "m@example.com", Phone: "+7 (999) 123-45-67"},
	}
	order, err := c.CreateOrder(context.Background(), "tok", req)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "abc123" {
		t.Fatalf("wrong id: %s", order.ID)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("token not forwarded: %q", gotAuth)
	}
	if len(gotBody.Items) != 1 || gotBody.Items[0].Price != 100 {
		t.Fatalf("price snapshot lost in request: %+v", gotBody.Items)
	}
}

func TestCreateOrder_Unauthorized(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	_, err := c.CreateOrder(context.Background(), "", domain.CreateOrderRequest{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateOrder_ServerErrorCarriesMessage(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "печь сломалась"})
	}))
	_, err := c.CreateOrder(context.Background(), "", domain.CreateOrderRequest{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "печь сломалась") {
		t.Fatalf("backend message lost: %q", err.Error())
	}
}

func TestListMyOrders_RequiresToken(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("guest must not reach my-orders")
	}))
	if _, err := c.ListMyOrders(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestListProducts_SkipsMalformed(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Product{
			{ID: "p1", Name: "Багет", Price: 120, Available: true},
			{ID: "", Name: "Без id", Price: 10},
			{ID: "p3", Name: "Минус-цена", Price: -5},
		})
	}))
	products, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("boundary must drop malformed products: %+v", products)
	}
}

func TestCancelOrder_IsStatusPatch(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(domain.Order{ID: "o1", Status: domain.OrderStatusCancelled})
	}))
	order, err := c.CancelOrder(context.Background(), "tok", "o1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/orders/o1/status" {
		t.Fatalf("cancel must PATCH the status endpoint, got %s %s", gotMethod, gotPath)
	}
	if gotBody["status"] != "cancelled" {
		t.Fatalf("wrong status body: %v", gotBody)
	}
	if order.Status != domain.OrderStatusCancelled {
		t.Fatalf("wrong status: %s", order.Status)
	}
}

func TestSuggest_MapsAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/address/suggest" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "Ленина 1" {
			t.Fatalf("query not passed: %q", got)
		}
		w.Write([]byte(`{"results":[
			{"title":"ул. Ленина, 1","subtitle":"Москва","lat":55.75,"lon":37.61},
			{"title":"ул. Ленина, 1к2","lat":"55.76","lon":"37.62"},
			{"title":"","lat":1,"lon":2},
			{"title":"битые координаты","lat":"abc","lon":"def"}
		]}`))
	}))
	defer srv.Close()

	c := NewSuggestClient(srv.URL, srv.Client(), zap.NewNop())
	got, err := c.Suggest(context.Background(), "Ленина 1")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 valid suggestions, got %d: %+v", len(got), got)
	}
	if got[0].Label != "ул. Ленина, 1" || got[0].Description != "Москва" {
		t.Fatalf("mapping broken: %+v", got[0])
	}
	if got[1].Coordinates.Lat != 55.76 {
		t.Fatalf("string coordinates must parse: %+v", got[1])
	}
}

func TestSuggest_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := NewSuggestClient(srv.URL, srv.Client(), zap.NewNop())
	if _, err := c.Suggest(context.Background(), "Ленина"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
