package services

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// CartService is the cart ledger. Every mutation locks the caller's cart
// row first, so concurrent requests for one user run one after another.
type CartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) *CartService {
	return &CartService{store: store}
}

func (s *CartService) View(ctx context.Context, userID uint64) (domain.CartView, error) {
	cart, err := s.store.Carts().FindCart(ctx, userID)
	if err != nil {
		return domain.CartView{}, err
	}
	if cart == nil {
		return domain.NewCartView(0, []domain.CartItem{}), nil
	}
	return view(ctx, s.store, cart.ID)
}

func view(ctx context.Context, st repository.Store, cartID uint64) (domain.CartView, error) {
	items, err := st.Carts().Items(ctx, cartID)
	if err != nil {
		return domain.CartView{}, err
	}
	return domain.NewCartView(cartID, items), nil
}

// Add puts qty units of a product in the cart, merging with an existing
// line for the same product.
func (s *CartService) Add(ctx context.Context, userID, productID uint64, qty int) (*domain.CartItem, domain.CartView, error) {
	if productID == 0 {
		return nil, domain.CartView{}, invalid("Product ID is required")
	}
	if qty < 1 {
		return nil, domain.CartView{}, ErrBadQuantity
	}

	var (
		item *domain.CartItem
		cv   domain.CartView
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().LockCart(ctx, userID)
		if err != nil {
			return err
		}
		product, err := tx.Products().FindForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if !product.CanSupply(qty) {
			return domain.NewError(domain.ErrOutOfStock, "Product not available or insufficient stock")
		}

		existing, err := tx.Carts().FindItemByProduct(ctx, cart.ID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			merged := existing.Quantity + qty
			if merged > product.Stock {
				return domain.NewError(domain.ErrOutOfStock, fmt.Sprintf("Cannot add more. Only %d in stock", product.Stock))
			}
			if err := tx.Carts().UpdateQuantity(ctx, existing.ID, merged); err != nil {
				return err
			}
			existing.Quantity = merged
			existing.Product = *product
			item = existing
		} else {
			item = &domain.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty}
			if err := tx.Carts().CreateItem(ctx, item); err != nil {
				return err
			}
			item.Product = *product
		}

		cv, err = view(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, domain.CartView{}, err
	}
	return item, cv, nil
}

// Update sets the quantity of one of the caller's cart lines.
func (s *CartService) Update(ctx context.Context, userID, itemID uint64, qty int) (*domain.CartItem, domain.CartView, error) {
	if qty < 1 {
		return nil, domain.CartView{}, ErrBadQuantity
	}

	var (
		item *domain.CartItem
		cv   domain.CartView
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().LockCart(ctx, userID)
		if err != nil {
			return err
		}
		item, err = ownedItem(ctx, tx, cart, itemID)
		if err != nil {
			return err
		}
		if qty > item.Product.Stock {
			return domain.NewError(domain.ErrOutOfStock, fmt.Sprintf("Only %d in stock", item.Product.Stock))
		}
		if err := tx.Carts().UpdateQuantity(ctx, item.ID, qty); err != nil {
			return err
		}
		item.Quantity = qty

		cv, err = view(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, domain.CartView{}, err
	}
	return item, cv, nil
}

// Remove deletes one of the caller's cart lines and returns it.
func (s *CartService) Remove(ctx context.Context, userID, itemID uint64) (*domain.CartItem, domain.CartView, error) {
	var (
		item *domain.CartItem
		cv   domain.CartView
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().LockCart(ctx, userID)
		if err != nil {
			return err
		}
		item, err = ownedItem(ctx, tx, cart, itemID)
		if err != nil {
			return err
		}
		deleted, err := tx.Carts().DeleteItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrCartItemNotFound
		}

		cv, err = view(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, domain.CartView{}, err
	}
	return item, cv, nil
}

func (s *CartService) Clear(ctx context.Context, userID uint64) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().FindCart(ctx, userID)
		if err != nil || cart == nil {
			return err
		}
		if _, err := tx.Carts().LockCart(ctx, userID); err != nil {
			return err
		}
		return tx.Carts().ClearItems(ctx, cart.ID)
	})
}

// ownedItem hides other users' lines behind the same not-found error.
func ownedItem(ctx context.Context, tx repository.Store, cart *domain.Cart, itemID uint64) (*domain.CartItem, error) {
	item, err := tx.Carts().FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CartID != cart.ID {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}
