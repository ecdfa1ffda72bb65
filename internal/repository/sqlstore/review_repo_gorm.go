package sqlstore

import (
	"context"
	"log"

	"storefront/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) FindByProduct(ctx context.Context, productID uint64) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).
		Order("created_at DESC").Order("id DESC").Find(&out).Error
	if err != nil {
		log.Printf("review list error for product %d: %v", productID, err)
		return nil, err
	}
	return out, nil
}

func (r *reviewRepo) FindByID(ctx context.Context, id uint64) (*domain.Review, error) {
	var rv domain.Review
	ok, err := first(r.db.WithContext(ctx), &rv, id)
	if err != nil || !ok {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepo) FindByProductAndUser(ctx context.Context, productID, userID uint64) (*domain.Review, error) {
	var rv domain.Review
	q := r.db.WithContext(ctx).Where("product_id = ? AND user_id = ?", productID, userID)
	ok, err := first(q, &rv)
	if err != nil || !ok {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepo) Save(ctx context.Context, rv *domain.Review) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(rv).Error; err != nil {
		log.Printf("review save error: %v", err)
		return err
	}
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Review{}, id).Error; err != nil {
		log.Printf("review delete error: %v", err)
		return err
	}
	return nil
}
