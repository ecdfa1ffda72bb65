package services

import "storefront/internal/domain"

var (
	ErrAdminRequired    = domain.NewError(domain.ErrForbidden, "Admin access required")
	ErrProductNotFound  = domain.NewError(domain.ErrNotFound, "Product not found")
	ErrCartItemNotFound = domain.NewError(domain.ErrNotFound, "Cart item not found")
	ErrOrderNotFound    = domain.NewError(domain.ErrNotFound, "Order not found")
	ErrReviewNotFound   = domain.NewError(domain.ErrNotFound, "Review not found")
	ErrCartEmpty        = domain.NewError(domain.ErrEmptyCart, "Cart is empty")
	ErrBadQuantity      = domain.NewError(domain.ErrInvalidInput, "Quantity must be at least 1")
	ErrBadCredentials   = domain.NewError(domain.ErrUnauthorized, "Invalid username or password")
	ErrPermissionDenied = domain.NewError(domain.ErrForbidden, "Permission denied")
)

func requireStaff(caller domain.Identity) error {
	if !caller.IsStaff {
		return ErrAdminRequired
	}
	return nil
}

func invalid(msg string) error {
	return domain.NewError(domain.ErrInvalidInput, msg)
}
