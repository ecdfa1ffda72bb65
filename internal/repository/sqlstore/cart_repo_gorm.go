package sqlstore

import (
	"context"
	"log"

	"storefront/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepo struct {
	db *gorm.DB
}

func (r *cartRepo) LockCart(ctx context.Context, userID uint64) (*domain.Cart, error) {
	db := r.db.WithContext(ctx)
	// The unique user_id index makes a concurrent insert a no-op; the locked
	// read below then sees whichever row won.
	cart := domain.Cart{UserID: userID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cart).Error; err != nil {
		log.Printf("cart create error for user %d: %v", userID, err)
		return nil, err
	}
	var locked domain.Cart
	if err := db.Clauses(forUpdate).Where("user_id = ?", userID).First(&locked).Error; err != nil {
		log.Printf("cart lock error for user %d: %v", userID, err)
		return nil, err
	}
	return &locked, nil
}

func (r *cartRepo) FindCart(ctx context.Context, userID uint64) (*domain.Cart, error) {
	var c domain.Cart
	ok, err := first(r.db.WithContext(ctx).Where("user_id = ?", userID), &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) Items(ctx context.Context, cartID uint64) ([]domain.CartItem, error) {
	items := []domain.CartItem{}
	err := r.db.WithContext(ctx).Preload("Product").
		Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error
	if err != nil {
		log.Printf("cart items error for cart %d: %v", cartID, err)
		return nil, err
	}
	return items, nil
}

func (r *cartRepo) FindItem(ctx context.Context, itemID uint64) (*domain.CartItem, error) {
	var it domain.CartItem
	ok, err := first(r.db.WithContext(ctx).Preload("Product"), &it, itemID)
	if err != nil || !ok {
		return nil, err
	}
	return &it, nil
}

func (r *cartRepo) FindItemByProduct(ctx context.Context, cartID, productID uint64) (*domain.CartItem, error) {
	var it domain.CartItem
	q := r.db.WithContext(ctx).Preload("Product").Where("cart_id = ? AND product_id = ?", cartID, productID)
	ok, err := first(q, &it)
	if err != nil || !ok {
		return nil, err
	}
	return &it, nil
}

func (r *cartRepo) CreateItem(ctx context.Context, item *domain.CartItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		log.Printf("cart item create error: %v", err)
		return err
	}
	return nil
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, itemID uint64, qty int) error {
	err := r.db.WithContext(ctx).Model(&domain.CartItem{}).
		Where("id = ?", itemID).UpdateColumn("quantity", qty).Error
	if err != nil {
		log.Printf("cart item update error for item %d: %v", itemID, err)
	}
	return err
}

func (r *cartRepo) DeleteItem(ctx context.Context, itemID uint64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.CartItem{}, itemID)
	if res.Error != nil {
		log.Printf("cart item delete error for item %d: %v", itemID, res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *cartRepo) ClearItems(ctx context.Context, cartID uint64) error {
	err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error
	if err != nil {
		log.Printf("cart clear error for cart %d: %v", cartID, err)
	}
	return err
}
