package http

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const defaultImage = "default.png"

type AddToCartRequest struct {
	ProductID uint64 `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

type ReviewRequest struct {
	Rating     json.Number `json:"rating"`
	ReviewText string      `json:"review_text"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ProductResponse struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Stock       int     `json:"stock"`
	Available   bool    `json:"available"`
	Category    string  `json:"category"`
	Image       *string `json:"image"`
}

type ReviewResponse struct {
	ID         uint64 `json:"id"`
	Username   string `json:"username"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
	CreatedAt  string `json:"created_at"`
}

type ProductDetailResponse struct {
	ProductResponse
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int              `json:"review_count"`
	Reviews       []ReviewResponse `json:"reviews"`
}

type CartProductResponse struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Price     string  `json:"price"`
	Image     *string `json:"image"`
	Stock     int     `json:"stock"`
	Available bool    `json:"available"`
}

type CartItemResponse struct {
	ID       uint64              `json:"id"`
	Product  CartProductResponse `json:"product"`
	Quantity int                 `json:"quantity"`
	Subtotal string              `json:"subtotal"`
}

type CartResponse struct {
	ID         uint64             `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice string             `json:"total_price"`
}

type OrderItemResponse struct {
	ID           uint64  `json:"id"`
	ProductName  string  `json:"product_name"`
	ProductImage *string `json:"product_image"`
	Quantity     int     `json:"quantity"`
	Price        string  `json:"price"`
	Subtotal     string  `json:"subtotal"`
}

type OrderResponse struct {
	ID            uint64              `json:"id"`
	OrderNumber   string              `json:"order_number"`
	FullName      string              `json:"full_name"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	State         string              `json:"state"`
	Pincode       string              `json:"pincode"`
	TotalAmount   string              `json:"total_amount"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	PaymentStatus string              `json:"payment_status"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     string              `json:"created_at"`
}

type AdminOrderResponse struct {
	ID            uint64 `json:"id"`
	OrderNumber   string `json:"order_number"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	TotalAmount   string `json:"total_amount"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	CreatedAt     string `json:"created_at"`
	ItemCount     int    `json:"item_count"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// roundRating keeps one decimal place.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// imageURL builds an absolute URL for a stored image, or nil when there is
// none.
func (h *Handler) imageURL(c *gin.Context, rel string) *string {
	if rel == "" {
		return nil
	}
	u := h.absolute(c, h.media.URL(rel))
	return &u
}

func (h *Handler) absolute(c *gin.Context, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + path
}

func (h *Handler) product(c *gin.Context, p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		Stock:       p.Stock,
		Available:   p.Available,
		Category:    string(p.Category),
		Image:       h.imageURL(c, p.Image),
	}
}

// listedProduct never has a null image; listings show a placeholder.
func (h *Handler) listedProduct(c *gin.Context, p domain.Product) ProductResponse {
	out := h.product(c, p)
	if out.Image == nil {
		out.Image = h.imageURL(c, defaultImage)
	}
	return out
}

func reviews(rs []domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, ReviewResponse{
			ID:         r.ID,
			Username:   r.Username,
			Rating:     r.Rating,
			ReviewText: r.ReviewText,
			CreatedAt:  timestamp(r.CreatedAt),
		})
	}
	return out
}

func (h *Handler) cart(c *gin.Context, v domain.CartView) CartResponse {
	items := make([]CartItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, CartItemResponse{
			ID: it.ID,
			Product: CartProductResponse{
				ID:        it.Product.ID,
				Name:      it.Product.Name,
				Price:     money(it.Product.Price),
				Image:     h.imageURL(c, it.Product.Image),
				Stock:     it.Product.Stock,
				Available: it.Product.Available,
			},
			Quantity: it.Quantity,
			Subtotal: money(it.Subtotal()),
		})
	}
	return CartResponse{
		ID:         v.CartID,
		Items:      items,
		TotalItems: v.TotalItems,
		TotalPrice: money(v.TotalPrice),
	}
}

func (h *Handler) order(c *gin.Context, o domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:           it.ID,
			ProductName:  it.ProductName,
			ProductImage: h.imageURL(c, it.ProductImage),
			Quantity:     it.Quantity,
			Price:        money(it.Price),
			Subtotal:     money(it.Subtotal()),
		})
	}
	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		FullName:      o.FullName,
		Email:         o.Email,
		Phone:         o.Phone,
		Address:       o.Address,
		City:          o.City,
		State:         o.State,
		Pincode:       o.Pincode,
		TotalAmount:   money(o.TotalAmount),
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		Items:         items,
		CreatedAt:     timestamp(o.CreatedAt),
	}
}

func adminOrder(o domain.Order) AdminOrderResponse {
	username := ""
	if o.User != nil {
		username = o.User.Username
	}
	return AdminOrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Username:      username,
		FullName:      o.FullName,
		Email:         o.Email,
		Phone:         o.Phone,
		TotalAmount:   money(o.TotalAmount),
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     timestamp(o.CreatedAt),
		ItemCount:     len(o.Items),
	}
}
