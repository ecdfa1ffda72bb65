package http

import (
	"fmt"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	caller, _ := identity(c)
	var ship domain.ShippingDetails
	if err := c.ShouldBindJSON(&ship); err != nil {
		badBody(c)
		return
	}

	order, err := h.svc.Orders.CreateOrder(c.Request.Context(), caller.UserID, ship)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order placed successfully",
		"order_number": order.OrderNumber,
		"order_id":     order.ID,
		"total_amount": money(order.TotalAmount),
	})
}

func (h *Handler) ListOrders(c *gin.Context) {
	caller, _ := identity(c)
	orders, err := h.svc.Orders.ListForUser(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, h.order(c, o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *Handler) GetOrder(c *gin.Context) {
	caller, _ := identity(c)
	id, ok := pathID(c, services.ErrOrderNotFound)
	if !ok {
		return
	}
	o, err := h.svc.Orders.GetOrderById(c.Request.Context(), caller.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.order(c, *o))
}

func (h *Handler) ListAllOrders(c *gin.Context) {
	caller, _ := identity(c)
	orders, err := h.svc.Orders.ListAll(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]AdminOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, adminOrder(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	caller, _ := identity(c)
	if !caller.IsStaff {
		respondError(c, services.ErrAdminRequired)
		return
	}
	id, ok := pathID(c, services.ErrOrderNotFound)
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	o, err := h.svc.Orders.SetStatus(c.Request.Context(), caller, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Order status updated to %s", o.Status),
		"order_number": o.OrderNumber,
		"status":       o.Status,
	})
}
