package httpapi

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"sdoba/internal/checkout"
	"sdoba/internal/domain"
	"sdoba/internal/storage"
	"sdoba/internal/suggest"
	"sdoba/internal/upstream"
)

// previewLimit сколько подсказок показывает встроенный дропдаун
const previewLimit = 5

// Server HTTP-слой витрины: каталог, корзина, адресные подсказки,
// оформление, гостевые заказы и отзывы
type Server struct {
	engine    *gin.Engine
	kv        storage.Store
	backend   *upstream.Client
	suggester suggest.Suggester
	debounce  time.Duration
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewServer(backend *upstream.Client, suggester suggest.Suggester, kv storage.Store, debounce time.Duration, logger *zap.Logger) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{
		engine:    r,
		kv:        kv,
		backend:   backend,
		suggester: suggester,
		debounce:  debounce,
		logger:    logger,
		sessions:  make(map[string]*session),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/products", s.listProducts)
		v1.GET("/products/:id", s.getProduct)

		crt := v1.Group("/cart")
		crt.GET("", s.getCart)
		crt.POST("/items", s.addToCart)
		crt.PATCH("/items/:productId", s.updateQuantity)
		crt.DELETE("/items/:productId", s.removeFromCart)
		crt.DELETE("", s.clearCart)

		addr := v1.Group("/address")
		addr.GET("/suggest", s.suggestAddress)
		addr.POST("/select", s.selectAddress)

		v1.GET("/checkout/form", s.checkoutForm)
		v1.POST("/checkout", s.submitOrder)

		orders := v1.Group("/orders")
		orders.GET("/my", s.myOrders)
		orders.POST("/:id/cancel", s.cancelOrder)

		reviews := v1.Group("/reviews")
		reviews.GET("", s.listReviews)
		reviews.POST("", s.createReview)
		reviews.GET("/eligibility", s.reviewEligibility)

		v1.DELETE("/session", s.logout)
	}
}

// Catalog

// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} domain.Product
// @Failure 502 {object} map[string]string
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	products, err := s.backend.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.backend.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// Cart

type cartView struct {
	Items []domain.CartItem `json:"items"`
	Total int64             `json:"total"`
}

func (s *Server) cartJSON(c *gin.Context, sess *session) {
	items := sess.cart.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	c.JSON(http.StatusOK, cartView{Items: items, Total: sess.cart.Total()})
}

// @Summary Get cart
// @Tags cart
// @Produce json
// @Success 200 {object} cartView
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	s.cartJSON(c, s.session(c))
}

type addToCartReq struct {
	ProductID string `json:"productId"`
}

// @Summary Add product to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param input body addToCartReq true "Product"
// @Success 200 {object} cartView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items [post]
func (s *Server) addToCart(c *gin.Context) {
	var req addToCartReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.backend.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	sess := s.session(c)
	sess.cart.Add(*p)
	s.cartJSON(c, sess)
}

type updateQuantityReq struct {
	Quantity int64 `json:"quantity"`
}

// @Summary Update line item quantity
// @Tags cart
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param input body updateQuantityReq true "Quantity"
// @Success 200 {object} cartView
// @Failure 400 {object} map[string]string
// @Router /cart/items/{productId} [patch]
func (s *Server) updateQuantity(c *gin.Context) {
	var req updateQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	sess := s.session(c)
	// количество меньше 1 игнорируется внутри корзины, ответ отдаёт текущее состояние
	sess.cart.UpdateQuantity(c.Param("productId"), req.Quantity)
	s.cartJSON(c, sess)
}

// @Summary Remove line item
// @Tags cart
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} cartView
// @Router /cart/items/{productId} [delete]
func (s *Server) removeFromCart(c *gin.Context) {
	sess := s.session(c)
	sess.cart.Remove(c.Param("productId"))
	s.cartJSON(c, sess)
}

// @Summary Clear cart
// @Tags cart
// @Produce json
// @Success 200 {object} cartView
// @Router /cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	sess := s.session(c)
	sess.cart.Clear()
	s.cartJSON(c, sess)
}

// Address resolution

type suggestView struct {
	Results []domain.AddressSuggestion `json:"results"`
	Message string                     `json:"message,omitempty"`
}

// @Summary Address suggestions
// @Tags address
// @Produce json
// @Param query query string true "Address text"
// @Param preview query bool false "Cap the list for an inline dropdown"
// @Success 200 {object} suggestView
// @Router /address/suggest [get]
func (s *Server) suggestAddress(c *gin.Context) {
	sess := s.session(c)
	query := c.Query("query")
	sess.form.SetField(checkout.FieldAddress, query)
	// пользователь правит текст — прежний выбор больше не действителен
	sess.resolver.InvalidateSelection()

	results, err := sess.resolver.Query(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, suggest.ErrSuperseded) {
			// этот ввод уже перекрыт более свежим, ему ничего не показываем
			c.JSON(http.StatusOK, suggestView{Results: []domain.AddressSuggestion{}})
			return
		}
		// деградация до ручного ввода, не ошибка оформления
		c.JSON(http.StatusOK, suggestView{Results: []domain.AddressSuggestion{}, Message: sess.resolver.Message()})
		return
	}
	if c.Query("preview") != "" && len(results) > previewLimit {
		results = results[:previewLimit]
	}
	if results == nil {
		results = []domain.AddressSuggestion{}
	}
	c.JSON(http.StatusOK, suggestView{Results: results})
}

// @Summary Select a suggestion
// @Tags address
// @Accept json
// @Param input body domain.AddressSuggestion true "Chosen suggestion"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /address/select [post]
func (s *Server) selectAddress(c *gin.Context) {
	var sel domain.AddressSuggestion
	if err := c.ShouldBindJSON(&sel); err != nil || sel.Label == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	sess := s.session(c)
	sess.resolver.Select(sel)
	sess.form.SetField(checkout.FieldAddress, sel.Label)
	c.Status(http.StatusNoContent)
}

// Checkout

type checkoutReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Comment string `json:"comment"`
}

// @Summary Checkout form state
// @Tags checkout
// @Produce json
// @Success 200 {object} map[string]string
// @Router /checkout/form [get]
func (s *Server) checkoutForm(c *gin.Context) {
	sess := s.session(c)
	// авторизованному контактные поля заполняются из профиля
	if token := bearerToken(c); token != "" {
		if user, err := s.backend.Me(c.Request.Context(), token); err == nil {
			sess.form.Prefill(user)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"name":    sess.form.Field(checkout.FieldName),
		"email":   sess.form.Field(checkout.FieldEmail),
		"phone":   sess.form.Field(checkout.FieldPhone),
		"address": sess.form.Field(checkout.FieldAddress),
		"comment": sess.form.Field(checkout.FieldComment),
	})
}

// @Summary Submit order
// @Tags checkout
// @Accept json
// @Produce json
// @Param input body checkoutReq true "Contact info"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /checkout [post]
func (s *Server) submitOrder(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	sess := s.session(c)
	sess.form.SetField(checkout.FieldName, req.Name)
	sess.form.SetField(checkout.FieldEmail, req.Email)
	sess.form.SetField(checkout.FieldPhone, req.Phone)
	if req.Address != "" {
		sess.form.SetField(checkout.FieldAddress, req.Address)
		// текст разошёлся с выбранной подсказкой — выбор гаснет
		if sel := sess.resolver.Selected(); sel != nil && sel.Label != req.Address {
			sess.resolver.InvalidateSelection()
		}
	}
	sess.form.SetField(checkout.FieldComment, req.Comment)

	orderID, err := sess.submitter.Submit(c.Request.Context(), checkout.SubmitInput{
		Cart:     sess.cart,
		Form:     sess.form,
		Selected: sess.resolver.Selected(),
		Ledger:   sess.ledger,
		Token:    bearerToken(c),
		Comment:  req.Comment,
	})
	if err != nil {
		status := mapErrorToStatus(err)
		switch {
		case errors.Is(err, checkout.ErrValidation):
			c.JSON(status, gin.H{"errors": sess.form.Errors()})
		case errors.Is(err, upstream.ErrUnauthorized):
			c.JSON(status, gin.H{"error": checkout.AuthRequiredError})
		case errors.Is(err, checkout.ErrSubmitInFlight):
			c.JSON(status, gin.H{"error": err.Error()})
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(status, gin.H{"error": "Корзина пуста"})
		default:
			c.JSON(status, gin.H{"error": checkout.GenericSubmitError})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orderId": orderID})
}

// Orders

type guestOrderView struct {
	Order *domain.Order `json:"order,omitempty"`
	ID    string        `json:"id"`
	Error string        `json:"error,omitempty"`
}

// @Summary My orders
// @Tags orders
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]string
// @Router /orders/my [get]
func (s *Server) myOrders(c *gin.Context) {
	token := bearerToken(c)
	if token != "" {
		orders, err := s.backend.ListMyOrders(c.Request.Context(), token)
		if err != nil {
			c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
		return
	}

	// гость: идентификаторы из локального реестра, статусы с бэкенда;
	// недоступность одного заказа не валит весь список
	sess := s.session(c)
	views := make([]guestOrderView, 0)
	for _, rec := range sess.ledger.List() {
		order, err := s.backend.GetOrder(c.Request.Context(), "", rec.ID)
		if err != nil {
			views = append(views, guestOrderView{ID: rec.ID, Error: "Не удалось загрузить данные по заказу"})
			continue
		}
		views = append(views, guestOrderView{ID: rec.ID, Order: order})
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

// @Summary Cancel order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /orders/{id}/cancel [post]
func (s *Server) cancelOrder(c *gin.Context) {
	order, err := s.backend.CancelOrder(c.Request.Context(), bearerToken(c), c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// Reviews

// @Summary List reviews
// @Tags reviews
// @Produce json
// @Success 200 {array} domain.Review
// @Failure 502 {object} map[string]string
// @Router /reviews [get]
func (s *Server) listReviews(c *gin.Context) {
	reviews, err := s.backend.ListReviews(c.Request.Context())
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

type createReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// @Summary Create review
// @Tags reviews
// @Accept json
// @Produce json
// @Param input body createReviewReq true "Review"
// @Success 201 {object} domain.Review
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /reviews [post]
func (s *Server) createReview(c *gin.Context) {
	var req createReviewReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	token := bearerToken(c)
	out := upstream.CreateReviewRequest{Rating: req.Rating, Comment: req.Comment}
	if token == "" {
		sess := s.session(c)
		if !sess.ledger.CanReview() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Отзывы доступны после первого заказа"})
			return
		}
		out.GuestName = sess.ledger.LastContactName()
	}
	review, err := s.backend.CreateReview(c.Request.Context(), token, out)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, review)
}

// @Summary Review eligibility
// @Tags reviews
// @Produce json
// @Success 200 {object} map[string]any
// @Router /reviews/eligibility [get]
func (s *Server) reviewEligibility(c *gin.Context) {
	token := bearerToken(c)
	if token != "" {
		orders, err := s.backend.ListMyOrders(c.Request.Context(), token)
		canReview := err == nil && len(orders) > 0
		c.JSON(http.StatusOK, gin.H{"canReview": canReview})
		return
	}
	sess := s.session(c)
	c.JSON(http.StatusOK, gin.H{
		"canReview": sess.ledger.CanReview(),
		"guestName": sess.ledger.LastContactName(),
	})
}

// Session

// @Summary Logout
// @Tags session
// @Success 204
// @Router /session [delete]
func (s *Server) logout(c *gin.Context) {
	// корзина не должна утечь следующей личности; реестр гостевых заказов
	// принадлежит браузеру и остаётся
	sess := s.session(c)
	sess.cart.Clear()
	c.Status(http.StatusNoContent)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, checkout.ErrValidation), errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, upstream.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, upstream.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, upstream.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
