package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra/session"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

// Services bundles the use cases the handlers call.
type Services struct {
	Catalog *services.CatalogService
	Carts   *services.CartService
	Orders  *services.OrderService
	Reviews *services.ReviewService
	Auth    *services.AuthService
	Contact *services.ContactService
}

// MediaLinker turns a stored image path into a URL path.
type MediaLinker interface {
	URL(rel string) string
}

type Options struct {
	Media        MediaLinker
	SessionTTL   time.Duration
	CookieSecure bool
	Limiter      *RateLimiter
}

type Handler struct {
	svc      Services
	sessions session.Store
	media    MediaLinker
	ttl      time.Duration
	secure   bool
	limiter  *RateLimiter
}

func NewHandler(svc Services, sessions session.Store, opts Options) *Handler {
	h := &Handler{
		svc:      svc,
		sessions: sessions,
		media:    opts.Media,
		ttl:      opts.SessionTTL,
		secure:   opts.CookieSecure,
		limiter:  opts.Limiter,
	}
	if h.limiter == nil {
		h.limiter = NewRateLimiter(defaultRate, defaultBurst)
	}
	return h
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api", h.LoadSession())

	api.POST("/login/", h.limiter.Limit(), h.Login)
	api.POST("/signup/", h.limiter.Limit(), h.Signup)
	api.GET("/logout/", h.Logout)
	api.POST("/logout/", h.Logout)
	api.GET("/check-auth/", h.CheckAuth)
	api.POST("/contact/", h.limiter.Limit(), h.Contact)

	api.GET("/products/", h.ListProducts)
	api.GET("/products/:id/detail/", h.ProductDetail)
	api.POST("/products/add/", h.AddProduct)
	api.PUT("/products/update/:id/", h.UpdateProduct)
	api.DELETE("/products/delete/:id/", h.DeleteProduct)

	authed := api.Group("", RequireAuth())
	authed.POST("/products/:id/review/", h.SubmitReview)
	authed.DELETE("/reviews/:id/delete/", h.DeleteReview)

	authed.GET("/cart/", h.GetCart)
	authed.POST("/cart/add/", h.AddToCart)
	authed.PUT("/cart/update/:id/", h.UpdateCartItem)
	authed.DELETE("/cart/remove/:id/", h.RemoveFromCart)
	authed.POST("/cart/clear/", h.ClearCart)

	authed.POST("/orders/create/", h.CreateOrder)
	authed.GET("/orders/", h.ListOrders)
	authed.GET("/orders/:id/", h.GetOrder)

	api.GET("/admin/orders/", h.ListAllOrders)
	api.PUT("/admin/orders/:id/status/", h.UpdateOrderStatus)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

// pathID reads a numeric path parameter. Anything else is treated as an
// unknown resource.
func pathID(c *gin.Context, notFound error) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, notFound)
		return 0, false
	}
	return id, true
}
