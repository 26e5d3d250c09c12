package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/m2gi/ecom/internal/cache"
	"github.com/m2gi/ecom/internal/events"
	"github.com/m2gi/ecom/internal/models"
	"github.com/m2gi/ecom/internal/repo"
	"github.com/m2gi/ecom/internal/testutil"
	"github.com/m2gi/ecom/internal/transport"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e["type"].(string))
	}
	return out
}

type mapCache struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
	gets  int
}

func newMapCache() *mapCache { return &mapCache{carts: map[string]*models.Cart{}} }

func (c *mapCache) Get(_ context.Context, login string) (*models.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if cart, ok := c.carts[login]; ok {
		return cart, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *mapCache) Set(_ context.Context, login string, cart *models.Cart) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.carts[login] = cart
	return nil
}

func (c *mapCache) Delete(_ context.Context, login string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.carts, login)
	return nil
}

func (c *mapCache) has(login string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.carts[login]
	return ok
}

type testEnv struct {
	repo     *repo.GormRepo
	cache    *mapCache
	pub      *recordingPublisher
	carts    *CartService
	products *ProductService
	cats     *CategoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := &repo.GormRepo{DB: testutil.NewDB(t)}
	env := &testEnv{repo: r, cache: newMapCache(), pub: &recordingPublisher{}}
	env.carts = NewCartService(r, env.cache, env.pub)
	env.products = NewProductService(r, nil, env.pub)
	env.products.Carts = env.carts
	env.cats = &CategoryService{Repo: r}
	return env
}

func (env *testEnv) product(t *testing.T, name, price string, categoryIDs ...int64) *models.Product {
	t.Helper()
	p, err := env.products.Create(context.Background(), transport.ProductRequest{
		Name:        name,
		Price:       ptr(decimal.RequireFromString(price)),
		WeightUnit:  models.WeightUnitKG,
		Weight:      1,
		CategoryIDs: categoryIDs,
	})
	require.NoError(t, err)
	return p
}
