package sqlstore

import (
	"context"
	"log"

	"storefront/internal/domain"

	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		log.Printf("user create error: %v", err)
		return err
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var u domain.User
	ok, err := first(r.db.WithContext(ctx), &u, id)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	ok, err := first(r.db.WithContext(ctx).Where("username = ?", username), &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	ok, err := first(r.db.WithContext(ctx).Where("email = ?", email), &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}
