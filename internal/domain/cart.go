package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the per-user row that cart mutations lock on.
type Cart struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `json:"userId" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type CartItem struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	CartID    uint64    `json:"cartId" gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID uint64    `json:"productId" gorm:"not null;uniqueIndex:idx_cart_product"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	AddedAt   time.Time `json:"addedAt" gorm:"autoCreateTime"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartView is the read model of a cart. Totals are always computed from
// Items and never stored.
type CartView struct {
	CartID     uint64
	Items      []CartItem
	TotalItems int
	TotalPrice decimal.Decimal
}

func NewCartView(cartID uint64, items []CartItem) CartView {
	v := CartView{CartID: cartID, Items: items, TotalPrice: decimal.Zero}
	for _, it := range items {
		v.TotalItems += it.Quantity
		v.TotalPrice = v.TotalPrice.Add(it.Subtotal())
	}
	return v
}
