package sqlstore

import (
	"context"
	"errors"
	"log"

	"storefront/internal/domain"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

// Save inserts the order and, through the has-many association, its items.
func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Omit("User").Create(order)
	if result.Error != nil {
		log.Printf("Database save error: %v", result.Error)
		return result.Error
	}

	if order.ID == 0 {
		log.Printf("WARNING: Order saved but ID is still 0. Rows affected: %d", result.RowsAffected)
		return errors.New("failed to assign order ID")
	}

	log.Printf("Order %s saved with ID %d and %d items", order.OrderNumber, order.ID, len(order.Items))
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	ok, err := first(r.db.WithContext(ctx).Preload("Items", orderItemsByID), &o, id)
	if err != nil {
		log.Printf("FindByID error: %v", err)
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *orderRepo) FindForUpdate(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	q := r.db.WithContext(ctx).Clauses(forUpdate).Preload("Items", orderItemsByID)
	ok, err := first(q, &o, id)
	if err != nil {
		log.Printf("FindForUpdate error: %v", err)
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.WithContext(ctx).Preload("Items", orderItemsByID).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("FindByUser error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.WithContext(ctx).Preload("User").Preload("Items", orderItemsByID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("FindAll error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status).Error
	if err != nil {
		log.Printf("UpdateStatus error for order %d: %v", id, err)
	}
	return err
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
