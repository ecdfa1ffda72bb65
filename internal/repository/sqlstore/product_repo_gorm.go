package sqlstore

import (
	"context"
	"log"
	"strings"

	"storefront/internal/domain"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		log.Printf("product create error: %v", err)
		return err
	}
	return nil
}

func (r *productRepo) Save(ctx context.Context, p *domain.Product) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		log.Printf("product save error: %v", err)
		return err
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		log.Printf("product delete error: %v", res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	ok, err := first(r.db.WithContext(ctx), &p, id)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindForUpdate(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	ok, err := first(r.db.WithContext(ctx).Clauses(forUpdate), &p, id)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if f.Search != "" {
		like := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	switch f.Sort {
	case domain.SortPriceLow:
		q = q.Order("price ASC").Order("id ASC")
	case domain.SortPriceHigh:
		q = q.Order("price DESC").Order("id DESC")
	case domain.SortNameAsc:
		q = q.Order("name ASC").Order("id ASC")
	case domain.SortNameDesc:
		q = q.Order("name DESC").Order("id DESC")
	default:
		q = q.Order("created_at DESC").Order("id DESC")
	}

	out := []domain.Product{}
	if err := q.Find(&out).Error; err != nil {
		log.Printf("product list error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *productRepo) DecrementStock(ctx context.Context, id uint64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		log.Printf("stock decrement error for product %d: %v", id, res.Error)
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) IncrementStock(ctx context.Context, id uint64, qty int) error {
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
	if err != nil {
		log.Printf("stock increment error for product %d: %v", id, err)
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
