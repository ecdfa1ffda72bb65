package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

type OrderService struct {
	store   repository.Store
	emitter *Emitter
	now     func() time.Time
}

func NewOrderService(store repository.Store, emitter *Emitter) *OrderService {
	return &OrderService{
		store:   store,
		emitter: emitter,
		now:     time.Now,
	}
}

// newOrderNumber returns ORD-YYYYMMDD-XXXXXXXX.
func newOrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD-" + t.Format("20060102") + "-" + suffix
}

// CreateOrder turns the user's cart into an order. Stock decrement, order
// insert and cart clear happen in one transaction: either all of them are
// committed or none.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint64, ship domain.ShippingDetails) (*domain.Order, error) {
	var order *domain.Order
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().LockCart(ctx, userID)
		if err != nil {
			return err
		}
		items, err := tx.Carts().Items(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		if field := ship.Missing(); field != "" {
			return invalid(field + " is required")
		}
		if strings.TrimSpace(ship.PaymentMethod) == "" {
			ship.PaymentMethod = domain.DefaultPaymentMethod
		}

		ids := make([]uint64, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		products, err := lockProducts(ctx, tx, ids)
		if err != nil {
			return err
		}

		snapshot := make([]domain.OrderItem, 0, len(items))
		for _, it := range items {
			product := products[it.ProductID]
			if product == nil {
				return domain.NewError(domain.ErrNotFound, fmt.Sprintf("%s is no longer sold", it.Product.Name))
			}
			if !product.CanSupply(it.Quantity) {
				return domain.NewError(domain.ErrOutOfStock,
					fmt.Sprintf("Insufficient stock for %s. Only %d available.", product.Name, product.Stock))
			}
			ok, err := tx.Products().DecrementStock(ctx, product.ID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return domain.NewError(domain.ErrConflict,
					fmt.Sprintf("Stock for %s changed while placing the order", product.Name))
			}
			it.Product = *product
			snapshot = append(snapshot, domain.SnapshotCartItem(it))
		}

		o := &domain.Order{
			OrderNumber:     newOrderNumber(s.now()),
			UserID:          userID,
			ShippingDetails: ship,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentPending,
			TotalAmount:     domain.SumItems(snapshot),
			Items:           snapshot,
			CreatedAt:       s.now(),
		}
		if err := tx.Orders().Save(ctx, o); err != nil {
			return err
		}
		if err := tx.Carts().ClearItems(ctx, cart.ID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(domain.EventOrderCreated, domain.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	})
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.store.Orders().FindByUser(ctx, userID)
}

// GetOrderById returns one of the caller's orders. Other users' orders are
// reported as missing.
func (s *OrderService) GetOrderById(ctx context.Context, userID, id uint64) (*domain.Order, error) {
	o, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) ListAll(ctx context.Context, caller domain.Identity) ([]domain.Order, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	return s.store.Orders().FindAll(ctx)
}

// SetStatus moves an order to any status. Entering cancelled puts the
// items back in stock; leaving cancelled takes them out again and fails
// with ErrConflict when a product no longer has enough stock.
func (s *OrderService) SetStatus(ctx context.Context, caller domain.Identity, orderID uint64, status string) (*domain.Order, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(status) == "" {
		return nil, invalid("Status is required")
	}
	next, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, invalid("Invalid status")
	}

	var (
		order *domain.Order
		prev  domain.OrderStatus
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		o, err := tx.Orders().FindForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return ErrOrderNotFound
		}
		prev = o.Status
		if prev == next {
			order = o
			return nil
		}

		switch {
		case next == domain.StatusCancelled:
			if err := restock(ctx, tx, o); err != nil {
				return err
			}
		case prev == domain.StatusCancelled:
			if err := reserve(ctx, tx, o); err != nil {
				return err
			}
		}

		if err := tx.Orders().UpdateStatus(ctx, o.ID, next); err != nil {
			return err
		}
		o.Status = next
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if prev != next {
		log.Printf("order %s: %s -> %s by %s", order.OrderNumber, prev, next, caller.Username)
		s.emitter.Emit(domain.EventOrderStatusUpdated, domain.OrderStatusUpdatedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			From:        prev,
			To:          next,
			UpdatedBy:   caller.Username,
			UpdatedAt:   s.now(),
		})
	}
	return order, nil
}

// lockProducts takes row locks on the given products in ascending id order,
// so transactions touching overlapping products never wait on each other in
// a cycle. Missing products are absent from the result.
func lockProducts(ctx context.Context, tx repository.Store, ids []uint64) (map[uint64]*domain.Product, error) {
	sorted := append([]uint64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	locked := make(map[uint64]*domain.Product, len(sorted))
	for i, id := range sorted {
		if i > 0 && sorted[i-1] == id {
			continue
		}
		p, err := tx.Products().FindForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			locked[id] = p
		}
	}
	return locked, nil
}

func orderProductIDs(o *domain.Order) []uint64 {
	ids := make([]uint64, 0, len(o.Items))
	for _, it := range o.Items {
		if it.ProductID != nil {
			ids = append(ids, *it.ProductID)
		}
	}
	return ids
}

// restock returns the order's quantities to products that still exist.
func restock(ctx context.Context, tx repository.Store, o *domain.Order) error {
	products, err := lockProducts(ctx, tx, orderProductIDs(o))
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		if it.ProductID == nil || products[*it.ProductID] == nil {
			continue
		}
		if err := tx.Products().IncrementStock(ctx, *it.ProductID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func reserve(ctx context.Context, tx repository.Store, o *domain.Order) error {
	products, err := lockProducts(ctx, tx, orderProductIDs(o))
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		if it.ProductID == nil || products[*it.ProductID] == nil {
			continue
		}
		ok, err := tx.Products().DecrementStock(ctx, *it.ProductID, it.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewError(domain.ErrConflict,
				fmt.Sprintf("Not enough stock of %s to reopen order %s", it.ProductName, o.OrderNumber))
		}
	}
	return nil
}
