package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"sdoba/internal/domain"
)

// CreateOrder POST /api/orders. Возвращает созданный заказ с идентификатором.
func (c *Client) CreateOrder(ctx context.Context, token string, req domain.CreateOrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders", token, req, &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: created order has no id", ErrUnavailable)
	}
	return &order, nil
}

// GetOrder GET /api/orders/:id
func (c *Client) GetOrder(ctx context.Context, token, id string) (*domain.Order, error) {
	var order domain.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), token, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMyOrders GET /api/orders/my-orders — только для авторизованных
func (c *Client) ListMyOrders(ctx context.Context, token string) ([]domain.Order, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	var orders []domain.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/my-orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus PATCH /api/orders/:id/status
func (c *Client) UpdateOrderStatus(ctx context.Context, token, id string, status domain.OrderStatus) (*domain.Order, error) {
	body := map[string]domain.OrderStatus{"status": status}
	var order domain.Order
	if err := c.doJSON(ctx, http.MethodPatch, "/api/orders/"+url.PathEscape(id)+"/status", token, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder отмена — это просто перевод статуса, отдельной ручки у бэкенда нет
func (c *Client) CancelOrder(ctx context.Context, token, id string) (*domain.Order, error) {
	return c.UpdateOrderStatus(ctx, token, id, domain.OrderStatusCancelled)
}
