package http

import (
	"fmt"
	"net/http"

	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCart(c *gin.Context) {
	caller, _ := identity(c)
	v, err := h.svc.Carts.View(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cart(c, v))
}

func (h *Handler) AddToCart(c *gin.Context) {
	caller, _ := identity(c)
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	item, v, err := h.svc.Carts.Add(c.Request.Context(), caller.UserID, req.ProductID, qty)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Added %s to cart", item.Product.Name),
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
		"total_items":  v.TotalItems,
	})
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	caller, _ := identity(c)
	id, ok := pathID(c, services.ErrCartItemNotFound)
	if !ok {
		return
	}
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	item, v, err := h.svc.Carts.Update(c.Request.Context(), caller.UserID, id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Cart updated",
		"quantity":    item.Quantity,
		"subtotal":    money(item.Subtotal()),
		"total_items": v.TotalItems,
		"total_price": money(v.TotalPrice),
	})
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	caller, _ := identity(c)
	id, ok := pathID(c, services.ErrCartItemNotFound)
	if !ok {
		return
	}
	item, v, err := h.svc.Carts.Remove(c.Request.Context(), caller.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Removed %s from cart", item.Product.Name),
		"total_items": v.TotalItems,
		"total_price": money(v.TotalPrice),
	})
}

func (h *Handler) ClearCart(c *gin.Context) {
	caller, _ := identity(c)
	if err := h.svc.Carts.Clear(c.Request.Context(), caller.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
