package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"sdoba/internal/cart"
	"sdoba/internal/domain"
	"sdoba/internal/guest"
	"sdoba/internal/upstream"
)

var (
	// ErrEmptyCart оформлять нечего
	ErrEmptyCart = errors.New("cart is empty")
	// ErrValidation форма не прошла проверку; подробности в Form.Errors
	ErrValidation = errors.New("validation failed")
	// ErrSubmitInFlight повторный сабмит, пока первый ещё не завершился.
	// Дубль заказа от двойного клика — именно то, от чего этот гард.
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// GenericSubmitError показывается при любой ошибке создания заказа,
// кроме требования авторизоваться
const GenericSubmitError = "Произошла ошибка при создании заказа. Пожалуйста, попробуйте еще раз."

// AuthRequiredError бэкенд отказал гостю там, где нужен аккаунт
const AuthRequiredError = "Для оформления заказа необходимо войти в аккаунт"

// OrderCreator то, что умеет создать заказ у коллаборатора
type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, req domain.CreateOrderRequest) (*domain.Order, error)
}

// Submitter оркестрация оформления: собрать заказ из корзины, формы и
// выбранного адреса, отправить коллаборатору, разобрать исход.
// Неуспех оставляет корзину и форму нетронутыми для повтора.
type Submitter struct {
	mu       sync.Mutex
	inFlight bool
	orders   OrderCreator
	logger   *zap.Logger
}

func NewSubmitter(orders OrderCreator, logger *zap.Logger) *Submitter {
	return &Submitter{orders: orders, logger: logger}
}

// SubmitInput всё, из чего собирается заказ. Token пустой у гостя.
type SubmitInput struct {
	Cart     *cart.Store
	Form     *Form
	Selected *domain.AddressSuggestion
	Ledger   *guest.Ledger
	Token    string
	Comment  string
}

// Submit прогоняет полный путь оформления и возвращает идентификатор
// созданного заказа. Цены позиций снимаются с корзины в момент вызова
// и дальше живут своей жизнью независимо от каталога.
func (s *Submitter) Submit(ctx context.Context, in SubmitInput) (string, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return "", ErrSubmitInFlight
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	items := in.Cart.Items()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}
	if !in.Form.Validate(in.Selected) {
		return "", ErrValidation
	}

	// снимок цен: позиции заказа фиксируют цену на момент оформления
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			Price:     it.Product.Price,
		})
	}
	coords := in.Selected.Coordinates
	req := domain.CreateOrderRequest{
		Items: orderItems,
		DeliveryAddress: domain.DeliveryAddress{
			Address:     in.Selected.Label,
			Coordinates: &coords,
		},
		ContactInfo: in.Form.Contact(),
		Comment:     in.Comment,
	}

	order, err := s.orders.CreateOrder(ctx, in.Token, req)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			return "", err
		}
		s.logger.Warn("order submission failed", zap.Error(err))
		return "", fmt.Errorf("create order: %w", err)
	}

	// успех: корзина гаснет, гостевой заказ попадает в локальный реестр
	in.Cart.Clear()
	if in.Token == "" && in.Ledger != nil {
		if err := in.Ledger.Record(order.ID, req.ContactInfo); err != nil {
			// заказ уже создан, терять его из-за реестра нельзя
			s.logger.Warn("failed to record guest order", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.Bool("guest", in.Token == ""))
	return order.ID, nil
}
