package sqlstore

import (
	"context"
	"errors"

	"storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Products() repository.ProductRepository { return &productRepo{db: s.db} }
func (s *store) Carts() repository.CartRepository       { return &cartRepo{db: s.db} }
func (s *store) Orders() repository.OrderRepository     { return &orderRepo{db: s.db} }
func (s *store) Reviews() repository.ReviewRepository   { return &reviewRepo{db: s.db} }
func (s *store) Users() repository.UserRepository       { return &userRepo{db: s.db} }

func (s *store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

// first runs q.First into dst and maps a missing row to (false, nil).
func first(q *gorm.DB, dst any, conds ...any) (bool, error) {
	if err := q.First(dst, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
