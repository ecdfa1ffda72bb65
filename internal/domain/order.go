package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus accepts any of the five statuses. There is no transition
// table: every status is reachable from every other.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

const (
	PaymentPending = "pending"

	DefaultPaymentMethod = "Cash on Delivery"
)

// ShippingDetails is what checkout collects from the customer.
type ShippingDetails struct {
	FullName      string `json:"full_name" gorm:"size:200;not null"`
	Email         string `json:"email" gorm:"size:254;not null"`
	Phone         string `json:"phone" gorm:"size:20;not null"`
	Address       string `json:"address" gorm:"type:text;not null"`
	City          string `json:"city" gorm:"size:100;not null"`
	State         string `json:"state" gorm:"size:100;not null"`
	Pincode       string `json:"pincode" gorm:"size:10;not null"`
	PaymentMethod string `json:"payment_method" gorm:"size:50;not null"`
}

// Missing returns the name of the first required field that is blank.
func (s ShippingDetails) Missing() string {
	required := []struct{ name, value string }{
		{"full_name", s.FullName},
		{"email", s.Email},
		{"phone", s.Phone},
		{"address", s.Address},
		{"city", s.City},
		{"state", s.State},
		{"pincode", s.Pincode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

type Order struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber     string          `json:"orderNumber" gorm:"size:32;not null;uniqueIndex"`
	UserID          uint64          `json:"userId" gorm:"not null;index"`
	User            *User           `json:"-" gorm:"foreignKey:UserID"`
	ShippingDetails `gorm:"embedded"`
	Status          OrderStatus     `json:"status" gorm:"size:20;not null;default:'pending';index"`
	PaymentStatus   string          `json:"paymentStatus" gorm:"size:20;not null;default:'pending'"`
	TotalAmount     decimal.Decimal `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem is a frozen copy of a cart line. ProductID only links back to
// the catalog for restocking and goes NULL when the product is deleted.
type OrderItem struct {
	ID           uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID      uint64          `json:"orderId" gorm:"not null;index"`
	ProductID    *uint64         `json:"productId" gorm:"index"`
	Product      *Product        `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	ProductName  string          `json:"productName" gorm:"size:200;not null"`
	ProductImage string          `json:"productImage" gorm:"size:255"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity     int             `json:"quantity" gorm:"not null"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SnapshotCartItem freezes the product fields a historical order needs.
func SnapshotCartItem(ci CartItem) OrderItem {
	pid := ci.ProductID
	return OrderItem{
		ProductID:    &pid,
		ProductName:  ci.Product.Name,
		ProductImage: ci.Product.Image,
		Price:        ci.Product.Price,
		Quantity:     ci.Quantity,
	}
}

// SumItems is the order total: the sum of the snapshot subtotals.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
