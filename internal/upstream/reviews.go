package upstream

import (
	"context"
	"net/http"

	"sdoba/internal/domain"
)

// CreateReviewRequest исходящее тело POST /api/reviews.
// GuestName заполняется для отзывов без аккаунта.
type CreateReviewRequest struct {
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	GuestName string `json:"guestName,omitempty"`
}

// ListReviews GET /api/reviews
func (c *Client) ListReviews(ctx context.Context) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := c.doJSON(ctx, http.MethodGet, "/api/reviews", "", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview POST /api/reviews; токен пустой для гостевых отзывов
func (c *Client) CreateReview(ctx context.Context, token string, req CreateReviewRequest) (*domain.Review, error) {
	var review domain.Review
	if err := c.doJSON(ctx, http.MethodPost, "/api/reviews", token, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Me GET /api/auth/me — профиль для предзаполнения формы оформления
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	var user domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
