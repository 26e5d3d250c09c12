package cache

import (
	"context"
	"errors"

	"github.com/m2gi/ecom/internal/models"
)

// CartCache stores a login's loaded cart.
type CartCache interface {
	Get(ctx context.Context, login string) (*models.Cart, error)
	Set(ctx context.Context, login string, cart *models.Cart) error
	Delete(ctx context.Context, login string) error
}

var ErrCacheMiss = errors.New("cache miss")

// Nop never stores anything; used when redis is not configured.
type Nop struct{}

func (Nop) Get(context.Context, string) (*models.Cart, error) { return nil, ErrCacheMiss }
func (Nop) Set(context.Context, string, *models.Cart) error   { return nil }
func (Nop) Delete(context.Context, string) error              { return nil }
