package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/m2gi/ecom/internal/cache"
	"github.com/m2gi/ecom/internal/events"
	"github.com/m2gi/ecom/internal/models"
	"github.com/m2gi/ecom/internal/repo"
	"github.com/m2gi/ecom/pkg/logging"
)

type CartService struct {
	Repo   *repo.GormRepo
	Cache  cache.CartCache
	Events events.Publisher
	Now    func() time.Time

	sfg singleflight.Group

	// genMu guards gens, a per-login counter bumped on every invalidation. A load only
	// fills the cache when the counter did not move while it read the database.
	genMu sync.Mutex
	gens  map[string]uint64
}

func NewCartService(r *repo.GormRepo, c cache.CartCache, pub events.Publisher) *CartService {
	if c == nil {
		c = cache.Nop{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &CartService{Repo: r, Cache: c, Events: pub, Now: time.Now}
}

func (s *CartService) now() time.Time {
	return s.Now().UTC()
}

func (s *CartService) Create(ctx context.Context) (*models.Cart, error) {
	cart := &models.Cart{}
	if err := s.Repo.CreateCart(ctx, cart); err != nil {
		return nil, err
	}
	publish(ctx, s.Events, events.TopicCart, strconv.FormatInt(cart.ID, 10), events.Event{
		"type":   "cart_created",
		"cartID": cart.ID,
	})
	return cart, nil
}

// Update has no writable columns to change; it confirms the cart exists and returns it.
func (s *CartService) Update(ctx context.Context, id int64) (*models.Cart, error) {
	return s.FindOne(ctx, id)
}

func (s *CartService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.Repo.CartExists(ctx, id)
}

func (s *CartService) FindOne(ctx context.Context, id int64) (*models.Cart, error) {
	cart, err := s.Repo.GetCart(ctx, id)
	if err != nil {
		return nil, notFound(err, "cart")
	}
	return cart, nil
}

func (s *CartService) FindAll(ctx context.Context) ([]models.Cart, error) {
	return s.Repo.GetCarts(ctx)
}

func (s *CartService) FindAllWhereUserIsNull(ctx context.Context) ([]models.Cart, error) {
	return s.Repo.GetCartsWithoutUser(ctx)
}

func (s *CartService) Delete(ctx context.Context, id int64) error {
	login, err := s.Repo.LoginForCart(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteCart(ctx, id); err != nil {
		return notFound(err, "cart")
	}
	s.invalidate(ctx, login)
	publish(ctx, s.Events, events.TopicCart, strconv.FormatInt(id, 10), events.Event{
		"type":   "cart_deleted",
		"cartID": id,
		"login":  login,
	})
	return nil
}

// CurrentCart returns login's cart with lines and products loaded.
func (s *CartService) CurrentCart(ctx context.Context, login string) (*models.Cart, error) {
	l := logging.FromContext(ctx)

	v, err, _ := s.sfg.Do(login, func() (any, error) {
		// shared by every caller waiting on login, so one client going away must not cancel it
		loadCtx := context.WithoutCancel(ctx)

		cart, err := s.Cache.Get(loadCtx, login)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l.Warn("cart_cache_get_error", "error", err)
		}

		gen := s.generation(login)
		cart, err = s.Repo.GetCartByLogin(loadCtx, login)
		if err != nil {
			return nil, notFound(err, "cart")
		}
		s.fill(loadCtx, login, gen, cart)
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Cart), nil
}

// AddLine always inserts a new line with quantity 1, even when the product is already in the cart.
func (s *CartService) AddLine(ctx context.Context, login string, productID int64) (*models.ProductCart, error) {
	var line *models.ProductCart

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		product, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return notFound(err, "product")
		}

		cartID, err := tx.EnsureCart(ctx, login)
		if err != nil {
			return err
		}

		line = models.NewLine(product, 1, s.now())
		line.CartID = &cartID
		return tx.CreateLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, login)
	publish(ctx, s.Events, events.TopicCart, login, events.Event{
		"type":      "cart_line_added",
		"login":     login,
		"cartID":    *line.CartID,
		"lineID":    line.ID,
		"productID": productID,
		"quantity":  line.Quantity,
	})
	return line, nil
}

// UpdateLine stores quantity as given. The line is found by id alone; its cart is not checked
// against the caller.
func (s *CartService) UpdateLine(ctx context.Context, login string, lineID int64, quantity int) (*models.ProductCart, error) {
	line, err := s.Repo.SetLineQuantity(ctx, lineID, quantity)
	if err != nil {
		return nil, notFound(err, "cart line")
	}

	s.invalidateCart(ctx, line.CartID)
	publish(ctx, s.Events, events.TopicCart, login, events.Event{
		"type":      "cart_line_updated",
		"login":     login,
		"lineID":    line.ID,
		"productID": line.ProductID,
		"quantity":  quantity,
	})
	return line, nil
}

// RemoveLine deletes by id alone, like UpdateLine.
func (s *CartService) RemoveLine(ctx context.Context, login string, lineID int64) error {
	line, err := s.Repo.DeleteLine(ctx, lineID)
	if err != nil {
		return notFound(err, "cart line")
	}

	s.invalidateCart(ctx, line.CartID)
	publish(ctx, s.Events, events.TopicCart, login, events.Event{
		"type":      "cart_line_removed",
		"login":     login,
		"lineID":    line.ID,
		"productID": line.ProductID,
	})
	return nil
}

// Empty bulk-deletes every line of the cart. An empty cart is left as is.
func (s *CartService) Empty(ctx context.Context, cartID int64) (int64, error) {
	removed, err := s.Repo.EmptyCart(ctx, cartID)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, nil
	}

	s.invalidateCart(ctx, &cartID)
	publish(ctx, s.Events, events.TopicCart, strconv.FormatInt(cartID, 10), events.Event{
		"type":    "cart_emptied",
		"cartID":  cartID,
		"removed": removed,
	})
	return removed, nil
}

func (s *CartService) EmptyForLogin(ctx context.Context, login string) (int64, error) {
	cart, err := s.Repo.GetCartByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.Empty(ctx, cart.ID)
}

func (s *CartService) IncreaseQuantity(ctx context.Context, login string, productID int64) (*models.Cart, error) {
	return s.shiftQuantity(ctx, login, productID, 1)
}

// DecreaseQuantity removes the line instead of letting its quantity reach zero.
func (s *CartService) DecreaseQuantity(ctx context.Context, login string, productID int64) (*models.Cart, error) {
	return s.shiftQuantity(ctx, login, productID, -1)
}

func (s *CartService) shiftQuantity(ctx context.Context, login string, productID int64, delta int) (*models.Cart, error) {
	cart, err := s.Repo.GetCartByLogin(ctx, login)
	if err != nil {
		return nil, notFound(err, "cart")
	}
	line, ok := cart.FindLineByProduct(productID)
	if !ok {
		return nil, ErrNotFound
	}

	next := line.Quantity + delta
	if next <= 0 {
		err = s.RemoveLine(ctx, login, line.ID)
	} else {
		_, err = s.UpdateLine(ctx, login, line.ID, next)
	}
	if err != nil {
		return nil, err
	}

	cart, err = s.Repo.GetCart(ctx, cart.ID)
	if err != nil {
		return nil, notFound(err, "cart")
	}
	return cart, nil
}

func (s *CartService) generation(login string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gens[login]
}

// fill caches cart unless login was invalidated after gen was read.
func (s *CartService) fill(ctx context.Context, login string, gen uint64, cart *models.Cart) {
	s.genMu.Lock()
	defer s.genMu.Unlock()

	if s.gens[login] != gen {
		return
	}
	if err := s.Cache.Set(ctx, login, cart); err != nil {
		logging.FromContext(ctx).Warn("cart_cache_set_error", "error", err)
	}
}

func (s *CartService) invalidate(ctx context.Context, login string) {
	if login == "" {
		return
	}

	s.genMu.Lock()
	if s.gens == nil {
		s.gens = make(map[string]uint64)
	}
	s.gens[login]++
	s.genMu.Unlock()

	if err := s.Cache.Delete(ctx, login); err != nil {
		logging.FromContext(ctx).Warn("cart_cache_delete_error", "login", login, "error", err)
	}
}

// invalidateCart drops the cache entry of whoever owns cartID.
func (s *CartService) invalidateCart(ctx context.Context, cartID *int64) {
	if cartID == nil {
		return
	}
	login, err := s.Repo.LoginForCart(ctx, *cartID)
	if err != nil {
		logging.FromContext(ctx).Warn("cart_owner_lookup_error", "cart_id", *cartID, "error", err)
		return
	}
	s.invalidate(ctx, login)
}

// InvalidateProduct drops the cached carts that hold productID, so they reload its current state.
func (s *CartService) InvalidateProduct(ctx context.Context, productID int64) {
	logins, err := s.Repo.LoginsHoldingProduct(ctx, productID)
	if err != nil {
		logging.FromContext(ctx).Warn("cart_product_owners_error", "product_id", productID, "error", err)
		return
	}
	for _, login := range logins {
		s.invalidate(ctx, login)
	}
}
