package domain

import "time"

// Product представляет товар пекарни. Со стороны витрины неизменяем,
// источник — каталог бэкенда.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Available   bool   `json:"available"`
}

// CartItem позиция корзины: товар и количество (всегда >= 1)
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
}

// Coordinates географические координаты в десятичных градусах
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// AddressSuggestion подсказка адреса от геокодера. Живёт только между
// запросом и выбором: следующий ввод стирает список.
type AddressSuggestion struct {
	Label       string      `json:"label"`
	Description string      `json:"description,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// DeliveryAddress адрес доставки в заказе
type DeliveryAddress struct {
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates"`
}

// ContactInfo контактные данные покупателя
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderStatus статус заказа на стороне бэкенда
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusOnTheWay   OrderStatus = "on_the_way"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderItem позиция заказа с зафиксированной на момент оформления ценой
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
	Price     int64  `json:"price"`
}

// Order заказ, каким его возвращает бэкенд
type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     int64           `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	ContactInfo     ContactInfo     `json:"contactInfo"`
	Comment         string          `json:"comment,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateOrderRequest исходящее тело POST /orders. Цены в позициях —
// снимок на момент оформления, каталог после этого может меняться.
type CreateOrderRequest struct {
	Items           []OrderItem     `json:"items"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	ContactInfo     ContactInfo     `json:"contactInfo"`
	Comment         string          `json:"comment,omitempty"`
}

// GuestOrderRecord запись гостевого заказа: идентификатор плюс снимок
// контактов на момент оформления
type GuestOrderRecord struct {
	ID          string      `json:"id"`
	ContactInfo ContactInfo `json:"contactInfo"`
}

// User профиль авторизованного пользователя, берётся у бэкенда
// для предзаполнения формы
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

// Review отзыв; GuestName заполнен для отзывов без аккаунта
type Review struct {
	ID        string    `json:"id"`
	UserName  string    `json:"userName,omitempty"`
	GuestName string    `json:"guestName,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
