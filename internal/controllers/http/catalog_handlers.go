package http

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"storefront/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.svc.Catalog.List(c.Request.Context(),
		c.Query("search"), c.Query("category"), c.Query("sort"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, h.listedProduct(c, p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ProductDetail(c *gin.Context) {
	id, ok := pathID(c, services.ErrProductNotFound)
	if !ok {
		return
	}
	d, err := h.svc.Catalog.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProductDetailResponse{
		ProductResponse: h.product(c, d.Product),
		AverageRating:   roundRating(d.Rating.Average),
		ReviewCount:     d.Rating.Count,
		Reviews:         reviews(d.Reviews),
	})
}

// AddProduct takes a multipart form with an optional "image" file.
func (h *Handler) AddProduct(c *gin.Context) {
	caller, _ := identity(c)
	in := services.ProductInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		Stock:       c.PostForm("stock"),
		Category:    c.PostForm("category"),
		Available:   c.PostForm("available"),
	}

	var image io.Reader
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			log.Printf("open uploaded image: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image could not be read"})
			return
		}
		defer f.Close()
		image = f
	}

	p, err := h.svc.Catalog.Create(c.Request.Context(), caller, in, image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product added successfully",
		"product": h.product(c, *p),
	})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	caller, _ := identity(c)
	id, ok := pathID(c, services.ErrProductNotFound)
	if !ok {
		return
	}
	var patch services.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badBody(c)
		return
	}
	p, err := h.svc.Catalog.Update(c.Request.Context(), caller, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": h.product(c, *p),
	})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	caller, _ := identity(c)
	id, ok := pathID(c, services.ErrProductNotFound)
	if !ok {
		return
	}
	p, err := h.svc.Catalog.Delete(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Product '%s' deleted successfully", p.Name)})
}

func (h *Handler) SubmitReview(c *gin.Context) {
	caller, _ := identity(c)
	id, ok := pathID(c, services.ErrProductNotFound)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}
	rating := 0
	if req.Rating != "" {
		n, err := strconv.Atoi(req.Rating.String())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}
		rating = n
	}

	res, err := h.svc.Reviews.Submit(c.Request.Context(), caller, id, rating, req.ReviewText)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "Review updated successfully"
	if res.Created {
		msg = "Review added successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        msg,
		"average_rating": roundRating(res.Rating.Average),
		"review_count":   res.Rating.Count,
	})
}

func (h *Handler) DeleteReview(c *gin.Context) {
	caller, _ := identity(c)
	id, ok := pathID(c, services.ErrReviewNotFound)
	if !ok {
		return
	}
	rating, err := h.svc.Reviews.Delete(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Review deleted successfully",
		"average_rating": roundRating(rating.Average),
		"review_count":   rating.Count,
	})
}
