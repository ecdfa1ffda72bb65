package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type ImageStore interface {
	Save(r io.Reader) (string, error)
	Remove(rel string) error
}

type CatalogService struct {
	store  repository.Store
	images ImageStore
}

func NewCatalogService(store repository.Store, images ImageStore) *CatalogService {
	return &CatalogService{store: store, images: images}
}

// List never fails on bad filter values; they fall back to the defaults.
func (s *CatalogService) List(ctx context.Context, search, category, sort string) ([]domain.Product, error) {
	return s.store.Products().List(ctx, domain.NewProductFilter(search, category, sort))
}

type ProductDetail struct {
	Product domain.Product
	Reviews []domain.Review
	Rating  domain.RatingSummary
}

func (s *CatalogService) Detail(ctx context.Context, id uint64) (*ProductDetail, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	reviews, err := s.store.Reviews().FindByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: *p, Reviews: reviews, Rating: domain.Summarize(reviews)}, nil
}

// ProductInput carries the raw admin form values.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Stock       string
	Category    string
	Available   string
}

func (in ProductInput) parse() (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if name == "" || desc == "" || strings.TrimSpace(in.Price) == "" || strings.TrimSpace(in.Stock) == "" {
		return nil, invalid("All fields are required")
	}

	stock, err := strconv.Atoi(strings.TrimSpace(in.Stock))
	if err != nil {
		return nil, invalid("Stock must be a valid number")
	}
	if stock < 0 {
		return nil, invalid("Stock cannot be negative")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return nil, invalid("Price must be a valid number")
	}
	if !price.IsPositive() {
		return nil, invalid("Price must be greater than 0")
	}

	category, ok := domain.ParseCategory(in.Category)
	if !ok {
		category = domain.CategoryOther
	}

	available := true
	if v := strings.TrimSpace(in.Available); v != "" {
		available = strings.EqualFold(v, "true") || strings.EqualFold(v, "on")
	}

	return &domain.Product{
		Name:        name,
		Description: desc,
		Price:       price.Round(2),
		Stock:       stock,
		Available:   available,
		Category:    category,
	}, nil
}

// Create adds a product. image may be nil.
func (s *CatalogService) Create(ctx context.Context, caller domain.Identity, in ProductInput, image io.Reader) (*domain.Product, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	p, err := in.parse()
	if err != nil {
		return nil, err
	}

	if image != nil {
		rel, err := s.images.Save(image)
		if err != nil {
			log.Printf("product image rejected: %v", err)
			return nil, invalid("Image could not be processed")
		}
		p.Image = rel
	}

	if err := s.store.Products().Create(ctx, p); err != nil {
		if p.Image != "" {
			_ = s.images.Remove(p.Image)
		}
		return nil, err
	}
	log.Printf("product %d (%s) created by %s", p.ID, p.Name, caller.Username)
	return p, nil
}

// ProductPatch holds the fields an admin update may change; nil means
// unchanged.
type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Available   *bool            `json:"available"`
	Category    *string          `json:"category"`
}

// Update edits the live product only. Orders keep their own snapshot.
func (s *CatalogService) Update(ctx context.Context, caller domain.Identity, id uint64, patch ProductPatch) (*domain.Product, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	var out *domain.Product
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := tx.Products().FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}
		if err := patch.apply(p); err != nil {
			return err
		}
		if err := tx.Products().Save(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (patch ProductPatch) apply(p *domain.Product) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return invalid("Name cannot be empty")
		}
		p.Name = name
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		if !patch.Price.IsPositive() {
			return invalid("Price must be greater than 0")
		}
		p.Price = patch.Price.Round(2)
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return invalid("Stock cannot be negative")
		}
		p.Stock = *patch.Stock
	}
	if patch.Available != nil {
		p.Available = *patch.Available
	}
	if patch.Category != nil {
		c, ok := domain.ParseCategory(*patch.Category)
		if !ok {
			return invalid(fmt.Sprintf("Unknown category %q", *patch.Category))
		}
		p.Category = c
	}
	return nil
}

// Delete removes a product and returns what was deleted.
func (s *CatalogService) Delete(ctx context.Context, caller domain.Identity, id uint64) (*domain.Product, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	deleted, err := s.store.Products().Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrProductNotFound
	}
	if p.Image != "" {
		if err := s.images.Remove(p.Image); err != nil {
			log.Printf("product %d image cleanup: %v", id, err)
		}
	}
	log.Printf("product %d (%s) deleted by %s", p.ID, p.Name, caller.Username)
	return p, nil
}
