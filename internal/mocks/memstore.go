package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// MemStore is an in-memory repository.Store. Transactions are serialized
// by one mutex and a failed transaction restores the data it started from.
type MemStore struct {
	sh   *memShared
	inTx bool
}

type memShared struct {
	mu    sync.Mutex
	d     *memData
	fails map[string]error
	clock time.Time
	locks []uint64
}

type memData struct {
	nextID    uint64
	products  map[uint64]domain.Product
	carts     map[uint64]domain.Cart
	cartItems map[uint64]domain.CartItem
	orders    map[uint64]domain.Order
	reviews   map[uint64]domain.Review
	users     map[uint64]domain.User
}

func NewMemStore() *MemStore {
	return &MemStore{sh: &memShared{
		d: &memData{
			products:  map[uint64]domain.Product{},
			carts:     map[uint64]domain.Cart{},
			cartItems: map[uint64]domain.CartItem{},
			orders:    map[uint64]domain.Order{},
			reviews:   map[uint64]domain.Review{},
			users:     map[uint64]domain.User{},
		},
		fails: map[string]error{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
}

// FailOn makes the named write (e.g. "Carts.ClearItems") return err.
func (s *MemStore) FailOn(op string, err error) {
	defer s.lock()()
	s.sh.fails[op] = err
}

// ProductLocks returns the product ids passed to FindForUpdate, in call
// order, and forgets them.
func (s *MemStore) ProductLocks() []uint64 {
	defer s.lock()()
	out := s.sh.locks
	s.sh.locks = nil
	return out
}

func (s *MemStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.sh.mu.Lock()
	return s.sh.mu.Unlock
}

func (s *MemStore) fail(op string) error {
	return s.sh.fails[op]
}

func (s *MemStore) data() *memData {
	return s.sh.d
}

func (s *MemStore) id() uint64 {
	s.sh.d.nextID++
	return s.sh.d.nextID
}

// tick hands out strictly increasing timestamps so creation order is
// observable.
func (s *MemStore) tick() time.Time {
	s.sh.clock = s.sh.clock.Add(time.Second)
	return s.sh.clock
}

func (s *MemStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.sh.mu.Lock()
	defer s.sh.mu.Unlock()

	snapshot := s.sh.d.clone()
	if err := fn(&MemStore{sh: s.sh, inTx: true}); err != nil {
		s.sh.d = snapshot
		return err
	}
	return nil
}

func (d *memData) clone() *memData {
	c := &memData{
		nextID:    d.nextID,
		products:  make(map[uint64]domain.Product, len(d.products)),
		carts:     make(map[uint64]domain.Cart, len(d.carts)),
		cartItems: make(map[uint64]domain.CartItem, len(d.cartItems)),
		orders:    make(map[uint64]domain.Order, len(d.orders)),
		reviews:   make(map[uint64]domain.Review, len(d.reviews)),
		users:     make(map[uint64]domain.User, len(d.users)),
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.carts {
		c.carts[k] = v
	}
	for k, v := range d.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range d.reviews {
		c.reviews[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

func copyOrder(o domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(o.Items))
	for i, it := range o.Items {
		if it.ProductID != nil {
			pid := *it.ProductID
			it.ProductID = &pid
		}
		items[i] = it
	}
	o.Items = items
	o.User = nil
	return o
}

func (s *MemStore) Products() repository.ProductRepository { return memProducts{s} }
func (s *MemStore) Carts() repository.CartRepository       { return memCarts{s} }
func (s *MemStore) Orders() repository.OrderRepository     { return memOrders{s} }
func (s *MemStore) Reviews() repository.ReviewRepository   { return memReviews{s} }
func (s *MemStore) Users() repository.UserRepository       { return memUsers{s} }

type memProducts struct{ s *MemStore }

func (r memProducts) Create(ctx context.Context, p *domain.Product) error {
	defer r.s.lock()()
	if err := r.s.fail("Products.Create"); err != nil {
		return err
	}
	p.ID = r.s.id()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.s.tick()
	}
	r.s.data().products[p.ID] = *p
	return nil
}

func (r memProducts) Save(ctx context.Context, p *domain.Product) error {
	defer r.s.lock()()
	if err := r.s.fail("Products.Save"); err != nil {
		return err
	}
	if p.ID == 0 {
		p.ID = r.s.id()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.s.tick()
	}
	r.s.data().products[p.ID] = *p
	return nil
}

// Delete cascades the way the SQL schema does.
func (r memProducts) Delete(ctx context.Context, id uint64) (bool, error) {
	defer r.s.lock()()
	if err := r.s.fail("Products.Delete"); err != nil {
		return false, err
	}
	d := r.s.data()
	if _, ok := d.products[id]; !ok {
		return false, nil
	}
	delete(d.products, id)
	for k, it := range d.cartItems {
		if it.ProductID == id {
			delete(d.cartItems, k)
		}
	}
	for k, rv := range d.reviews {
		if rv.ProductID == id {
			delete(d.reviews, k)
		}
	}
	for k, o := range d.orders {
		o = copyOrder(o)
		for i := range o.Items {
			if o.Items[i].ProductID != nil && *o.Items[i].ProductID == id {
				o.Items[i].ProductID = nil
			}
		}
		d.orders[k] = o
	}
	return true, nil
}

func (r memProducts) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	defer r.s.lock()()
	p, ok := r.s.data().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProducts) FindForUpdate(ctx context.Context, id uint64) (*domain.Product, error) {
	defer r.s.lock()()
	r.s.sh.locks = append(r.s.sh.locks, id)
	p, ok := r.s.data().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProducts) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	defer r.s.lock()()
	out := []domain.Product{}
	needle := strings.ToLower(f.Search)
	for _, p := range r.s.data().products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Sort {
		case domain.SortPriceLow:
			if c := a.Price.Cmp(b.Price); c != 0 {
				return c < 0
			}
			return a.ID < b.ID
		case domain.SortPriceHigh:
			if c := a.Price.Cmp(b.Price); c != 0 {
				return c > 0
			}
			return a.ID > b.ID
		case domain.SortNameAsc:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		case domain.SortNameDesc:
			if a.Name != b.Name {
				return a.Name > b.Name
			}
			return a.ID > b.ID
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	})
	return out, nil
}

func (r memProducts) DecrementStock(ctx context.Context, id uint64, qty int) (bool, error) {
	defer r.s.lock()()
	if err := r.s.fail("Products.DecrementStock"); err != nil {
		return false, err
	}
	p, ok := r.s.data().products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	r.s.data().products[id] = p
	return true, nil
}

func (r memProducts) IncrementStock(ctx context.Context, id uint64, qty int) error {
	defer r.s.lock()()
	if err := r.s.fail("Products.IncrementStock"); err != nil {
		return err
	}
	p, ok := r.s.data().products[id]
	if !ok {
		return nil
	}
	p.Stock += qty
	r.s.data().products[id] = p
	return nil
}

type memCarts struct{ s *MemStore }

func (r memCarts) findCart(userID uint64) (domain.Cart, bool) {
	for _, c := range r.s.data().carts {
		if c.UserID == userID {
			return c, true
		}
	}
	return domain.Cart{}, false
}

func (r memCarts) LockCart(ctx context.Context, userID uint64) (*domain.Cart, error) {
	defer r.s.lock()()
	if c, ok := r.findCart(userID); ok {
		return &c, nil
	}
	c := domain.Cart{ID: r.s.id(), UserID: userID, CreatedAt: r.s.tick()}
	r.s.data().carts[c.ID] = c
	return &c, nil
}

func (r memCarts) FindCart(ctx context.Context, userID uint64) (*domain.Cart, error) {
	defer r.s.lock()()
	if c, ok := r.findCart(userID); ok {
		return &c, nil
	}
	return nil, nil
}

func (r memCarts) withProduct(it domain.CartItem) domain.CartItem {
	it.Product = r.s.data().products[it.ProductID]
	return it
}

func (r memCarts) Items(ctx context.Context, cartID uint64) ([]domain.CartItem, error) {
	defer r.s.lock()()
	out := []domain.CartItem{}
	for _, it := range r.s.data().cartItems {
		if it.CartID == cartID {
			out = append(out, r.withProduct(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCarts) FindItem(ctx context.Context, itemID uint64) (*domain.CartItem, error) {
	defer r.s.lock()()
	it, ok := r.s.data().cartItems[itemID]
	if !ok {
		return nil, nil
	}
	it = r.withProduct(it)
	return &it, nil
}

func (r memCarts) FindItemByProduct(ctx context.Context, cartID, productID uint64) (*domain.CartItem, error) {
	defer r.s.lock()()
	for _, it := range r.s.data().cartItems {
		if it.CartID == cartID && it.ProductID == productID {
			it = r.withProduct(it)
			return &it, nil
		}
	}
	return nil, nil
}

func (r memCarts) CreateItem(ctx context.Context, item *domain.CartItem) error {
	defer r.s.lock()()
	if err := r.s.fail("Carts.CreateItem"); err != nil {
		return err
	}
	for _, it := range r.s.data().cartItems {
		if it.CartID == item.CartID && it.ProductID == item.ProductID {
			return fmt.Errorf("duplicate cart item for product %d", item.ProductID)
		}
	}
	item.ID = r.s.id()
	item.AddedAt = r.s.tick()
	stored := *item
	stored.Product = domain.Product{}
	r.s.data().cartItems[item.ID] = stored
	return nil
}

func (r memCarts) UpdateQuantity(ctx context.Context, itemID uint64, qty int) error {
	defer r.s.lock()()
	if err := r.s.fail("Carts.UpdateQuantity"); err != nil {
		return err
	}
	it, ok := r.s.data().cartItems[itemID]
	if !ok {
		return nil
	}
	it.Quantity = qty
	r.s.data().cartItems[itemID] = it
	return nil
}

func (r memCarts) DeleteItem(ctx context.Context, itemID uint64) (bool, error) {
	defer r.s.lock()()
	if err := r.s.fail("Carts.DeleteItem"); err != nil {
		return false, err
	}
	if _, ok := r.s.data().cartItems[itemID]; !ok {
		return false, nil
	}
	delete(r.s.data().cartItems, itemID)
	return true, nil
}

func (r memCarts) ClearItems(ctx context.Context, cartID uint64) error {
	defer r.s.lock()()
	if err := r.s.fail("Carts.ClearItems"); err != nil {
		return err
	}
	for k, it := range r.s.data().cartItems {
		if it.CartID == cartID {
			delete(r.s.data().cartItems, k)
		}
	}
	return nil
}

type memOrders struct{ s *MemStore }

func (r memOrders) Save(ctx context.Context, o *domain.Order) error {
	defer r.s.lock()()
	if err := r.s.fail("Orders.Save"); err != nil {
		return err
	}
	for _, existing := range r.s.data().orders {
		if existing.OrderNumber == o.OrderNumber {
			return fmt.Errorf("duplicate order number %s", o.OrderNumber)
		}
	}
	o.ID = r.s.id()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.s.tick()
	}
	o.UpdatedAt = o.CreatedAt
	for i := range o.Items {
		o.Items[i].ID = r.s.id()
		o.Items[i].OrderID = o.ID
	}
	r.s.data().orders[o.ID] = copyOrder(*o)
	return nil
}

func (r memOrders) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	defer r.s.lock()()
	o, ok := r.s.data().orders[id]
	if !ok {
		return nil, nil
	}
	o = copyOrder(o)
	return &o, nil
}

func (r memOrders) FindForUpdate(ctx context.Context, id uint64) (*domain.Order, error) {
	return r.FindByID(ctx, id)
}

func (r memOrders) sorted(keep func(domain.Order) bool) []domain.Order {
	out := []domain.Order{}
	for _, o := range r.s.data().orders {
		if keep(o) {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r memOrders) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	defer r.s.lock()()
	return r.sorted(func(o domain.Order) bool { return o.UserID == userID }), nil
}

func (r memOrders) FindAll(ctx context.Context) ([]domain.Order, error) {
	defer r.s.lock()()
	out := r.sorted(func(domain.Order) bool { return true })
	for i := range out {
		if u, ok := r.s.data().users[out[i].UserID]; ok {
			out[i].User = &u
		}
	}
	return out, nil
}

func (r memOrders) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	defer r.s.lock()()
	if err := r.s.fail("Orders.UpdateStatus"); err != nil {
		return err
	}
	o, ok := r.s.data().orders[id]
	if !ok {
		return nil
	}
	o.Status = status
	o.UpdatedAt = r.s.tick()
	r.s.data().orders[id] = o
	return nil
}

type memReviews struct{ s *MemStore }

func (r memReviews) FindByProduct(ctx context.Context, productID uint64) ([]domain.Review, error) {
	defer r.s.lock()()
	out := []domain.Review{}
	for _, rv := range r.s.data().reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memReviews) FindByID(ctx context.Context, id uint64) (*domain.Review, error) {
	defer r.s.lock()()
	rv, ok := r.s.data().reviews[id]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (r memReviews) FindByProductAndUser(ctx context.Context, productID, userID uint64) (*domain.Review, error) {
	defer r.s.lock()()
	for _, rv := range r.s.data().reviews {
		if rv.ProductID == productID && rv.UserID == userID {
			return &rv, nil
		}
	}
	return nil, nil
}

func (r memReviews) Save(ctx context.Context, rv *domain.Review) error {
	defer r.s.lock()()
	if err := r.s.fail("Reviews.Save"); err != nil {
		return err
	}
	now := r.s.tick()
	if rv.ID == 0 {
		rv.ID = r.s.id()
		rv.CreatedAt = now
	}
	rv.UpdatedAt = now
	r.s.data().reviews[rv.ID] = *rv
	return nil
}

func (r memReviews) Delete(ctx context.Context, id uint64) error {
	defer r.s.lock()()
	if err := r.s.fail("Reviews.Delete"); err != nil {
		return err
	}
	delete(r.s.data().reviews, id)
	return nil
}

type memUsers struct{ s *MemStore }

func (r memUsers) Create(ctx context.Context, u *domain.User) error {
	defer r.s.lock()()
	if err := r.s.fail("Users.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.data().users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return fmt.Errorf("duplicate user %s", u.Username)
		}
	}
	u.ID = r.s.id()
	u.CreatedAt = r.s.tick()
	r.s.data().users[u.ID] = *u
	return nil
}

func (r memUsers) find(match func(domain.User) bool) *domain.User {
	for _, u := range r.s.data().users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r memUsers) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	defer r.s.lock()()
	return r.find(func(u domain.User) bool { return u.ID == id }), nil
}

func (r memUsers) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	defer r.s.lock()()
	return r.find(func(u domain.User) bool { return u.Username == username }), nil
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer r.s.lock()()
	return r.find(func(u domain.User) bool { return u.Email == email }), nil
}

var _ repository.Store = (*MemStore)(nil)
