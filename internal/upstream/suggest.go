package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"sdoba/internal/domain"
)

// SuggestClient клиент геокодера: GET /api/address/suggest?query=.
// Отдельный от Client тип, потому что геокодер может жить на другом хосте.
type SuggestClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewSuggestClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *SuggestClient {
	return &SuggestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// ответ геокодера; lat/lon приходят то числом, то строкой, поэтому json.Number
type suggestResponse struct {
	Results []struct {
		Title    string      `json:"title"`
		Subtitle string      `json:"subtitle"`
		Lat      json.Number `json:"lat"`
		Lon      json.Number `json:"lon"`
	} `json:"results"`
}

// Suggest запрашивает подсказки и приводит их к доменному виду.
// Результаты, не прошедшие проверку формы (пустой title, нечисловые
// координаты), отбрасываются по одному, а не валят весь ответ.
func (c *SuggestClient) Suggest(ctx context.Context, query string) ([]domain.AddressSuggestion, error) {
	u := c.baseURL + "/api/address/suggest?query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: suggest status %d", ErrUnavailable, resp.StatusCode)
	}

	var raw suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode suggestions: %v", ErrUnavailable, err)
	}

	suggestions := make([]domain.AddressSuggestion, 0, len(raw.Results))
	for _, item := range raw.Results {
		if item.Title == "" {
			continue
		}
		lat, latErr := item.Lat.Float64()
		lon, lonErr := item.Lon.Float64()
		if latErr != nil || lonErr != nil {
			c.logger.Warn("skipping suggestion with bad coordinates", zap.String("title", item.Title))
			continue
		}
		suggestions = append(suggestions, domain.AddressSuggestion{
			Label:       item.Title,
			Description: item.Subtitle,
			Coordinates: domain.Coordinates{Lat: lat, Lon: lon},
		})
	}
	return suggestions, nil
}
