package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
	EventContactSubmitted   = "contact.submitted"
)

type OrderCreatedEvent struct {
	OrderID     uint64          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	UserID      uint64          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderStatusUpdatedEvent struct {
	OrderID     uint64      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
	UpdatedBy   string      `json:"updatedBy"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactSubmittedEvent struct {
	ContactMessage
	ReceivedAt time.Time `json:"receivedAt"`
}
