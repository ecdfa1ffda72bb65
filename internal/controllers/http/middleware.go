package http

import (
	"log"
	"net/http"
	"sync"
	"time"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	sessionCookie = "sessionid"
	identityKey   = "identity"
)

// LoadSession attaches the caller's identity, if any, to the context.
// A broken session backend degrades to anonymous access.
func (h *Handler) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err == nil && sid != "" {
			id, err := h.sessions.Get(c.Request.Context(), sid)
			if err != nil {
				log.Printf("session lookup failed: %v", err)
			} else if id != nil {
				c.Set(identityKey, *id)
			}
		}
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// identity returns the caller, or the zero (anonymous, non-staff) identity.
func identity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

const (
	defaultRate  = rate.Limit(5)
	defaultBurst = 10
	visitorTTL   = 10 * time.Minute
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.visitors[ip]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors[ip] = limiter

	time.AfterFunc(visitorTTL, func() {
		rl.mu.Lock()
		delete(rl.visitors, ip)
		rl.mu.Unlock()
	})
	return limiter
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
