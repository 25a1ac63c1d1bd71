package upstream

import (
	"context"
	"net/http"
	"net/url"

	"sdoba/internal/domain"
)

// ListProducts GET /api/products. Позиции без идентификатора или имени,
// а также с отрицательной ценой с бэкенда не пропускаются дальше границы.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var raw []domain.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", "", nil, &raw); err != nil {
		return nil, err
	}
	products := raw[:0]
	for _, p := range raw {
		if !validProduct(p) {
			c.logger.Warn("skipping malformed product from catalog")
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// GetProduct GET /api/products/:id
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), "", nil, &p); err != nil {
		return nil, err
	}
	if !validProduct(p) {
		return nil, ErrNotFound
	}
	return &p, nil
}

func validProduct(p domain.Product) bool {
	return p.ID != "" && p.Name != "" && p.Price >= 0
}
