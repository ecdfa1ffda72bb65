package http

import (
	"log"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) startSession(c *gin.Context, u *domain.User) bool {
	sid, err := h.sessions.Create(c.Request.Context(), u.Identity())
	if err != nil {
		respondError(c, err)
		return false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sid, int(h.ttl.Seconds()), "/", "", h.secure, true)
	return true
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	u, err := h.svc.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		log.Printf("login failed for %q", req.Username)
		respondError(c, err)
		return
	}
	if !h.startSession(c, u) {
		return
	}
	log.Printf("login: %s (staff=%t)", u.Username, u.IsStaff)
	c.JSON(http.StatusOK, gin.H{
		"message":          "Login successful",
		"username":         u.Username,
		"is_staff":         u.IsStaff,
		"is_authenticated": true,
	})
}

// Signup creates the account and logs it in.
func (h *Handler) Signup(c *gin.Context) {
	var req services.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	u, err := h.svc.Auth.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.startSession(c, u) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Account created successfully",
		"username": u.Username,
		"is_staff": u.IsStaff,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		if err := h.sessions.Delete(c.Request.Context(), sid); err != nil {
			log.Printf("session delete failed: %v", err)
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) CheckAuth(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"is_authenticated": false,
			"username":         nil,
			"is_staff":         false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"is_authenticated": true,
		"username":         caller.Username,
		"is_staff":         caller.IsStaff,
	})
}

func (h *Handler) Contact(c *gin.Context) {
	var msg domain.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		badBody(c)
		return
	}
	if err := h.svc.Contact.Submit(c.Request.Context(), msg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thank you! Your message has been sent. We'll get back to you soon."})
}
