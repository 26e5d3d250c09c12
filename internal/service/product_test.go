package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m2gi/ecom/internal/models"
	"github.com/m2gi/ecom/internal/transport"
)

type stubSearch struct {
	ids     []int64
	err     error
	indexed []int64
	deleted []int64
}

func (s *stubSearch) IndexProduct(_ context.Context, p *models.Product) error {
	s.indexed = append(s.indexed, p.ID)
	return nil
}

func (s *stubSearch) DeleteProduct(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubSearch) SearchProductIDs(context.Context, string, int) ([]int64, error) {
	return s.ids, s.err
}

func names(items []models.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.Name)
	}
	return out
}

func TestToggleFavorite_TwiceRestoresSet(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	keep := env.product(t, "Coffee", "5")
	flip := env.product(t, "Cocoa", "4")

	_, err := env.products.ToggleFavorite(ctx, "alice", keep.ID)
	require.NoError(t, err)
	original, err := env.products.Favorites(ctx, "alice")
	require.NoError(t, err)

	afterOne, err := env.products.ToggleFavorite(ctx, "alice", flip.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Coffee", "Cocoa"}, names(afterOne))

	afterTwo, err := env.products.ToggleFavorite(ctx, "alice", flip.ID)
	require.NoError(t, err)
	assert.Equal(t, names(original), names(afterTwo))
}

func TestToggleFavorite_UnknownProduct(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.products.ToggleFavorite(context.Background(), "alice", 77)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavorites_UnknownUserIsEmpty(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	favs, err := env.products.Favorites(context.Background(), "stranger")
	require.NoError(t, err)
	assert.NotNil(t, favs)
	assert.Empty(t, favs)
}

func TestProductList(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	dairy, err := env.cats.Create(ctx, transport.CategoryRequest{Name: "dairy"})
	require.NoError(t, err)
	env.product(t, "Yogurt", "1.50", dairy.ID)
	env.product(t, "Butter", "2.20", dairy.ID)
	env.product(t, "Apple", "0.30")

	tests := []struct {
		name    string
		query   transport.ProductQuery
		want    []string
		wantErr error
	}{
		{name: "default sort by name", query: transport.ProductQuery{}, want: []string{"Apple", "Butter", "Yogurt"}},
		{name: "price desc", query: transport.ProductQuery{SortBy: "price", SortOrder: "desc"}, want: []string{"Butter", "Yogurt", "Apple"}},
		{name: "category", query: transport.ProductQuery{CategoryID: &dairy.ID}, want: []string{"Butter", "Yogurt"}},
		{name: "text beats category", query: transport.ProductQuery{Query: "app", CategoryID: &dairy.ID}, want: []string{"Apple"}},
		{name: "unknown category", query: transport.ProductQuery{CategoryID: ptr(int64(999))}, wantErr: ErrNotFound},
		{name: "bad sort field", query: transport.ProductQuery{SortBy: "password"}, wantErr: ErrValidation},
		{name: "bad sort order", query: transport.ProductQuery{SortOrder: "sideways"}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		_, items, err := env.products.List(ctx, tt.query)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, names(items), tt.name)
	}
}

func TestProductList_UsesSearchEngine(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.product(t, "Alpha", "1")
	env.product(t, "Beta", "1")

	engine := &stubSearch{ids: []int64{a.ID}}
	env.products.Search = engine

	total, items, err := env.products.List(ctx, transport.ProductQuery{Query: "alpah"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"Alpha"}, names(items))

	engine.err = errors.New("cluster down")
	_, items, err = env.products.List(ctx, transport.ProductQuery{Query: "Beta"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta"}, names(items))
}

func TestProductWrites_SyncIndexAndEvents(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	engine := &stubSearch{}
	env.products.Search = engine

	p := env.product(t, "Gamma", "3")
	name := "Gamma 2"
	_, err := env.products.PartialUpdate(ctx, p.ID, transport.PatchProductRequest{Name: &name})
	require.NoError(t, err)
	require.NoError(t, env.products.Delete(ctx, p.ID))

	assert.Equal(t, []int64{p.ID, p.ID}, engine.indexed)
	assert.Equal(t, []int64{p.ID}, engine.deleted)
	assert.Equal(t, []string{"product_created", "product_updated", "product_deleted"}, env.pub.types())

	assert.ErrorIs(t, env.products.Delete(ctx, p.ID), ErrNotFound)
}

func TestProductValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Delta", "3")

	_, err := env.products.Create(ctx, transport.ProductRequest{Name: "Neg", Price: ptr(decimal.NewFromInt(-1))})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.products.Create(ctx, transport.ProductRequest{Name: "Cat", Price: ptr(decimal.NewFromInt(1)), CategoryIDs: []int64{42}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.products.Create(ctx, transport.ProductRequest{Name: "Free"})
	assert.ErrorIs(t, err, ErrValidation, "a product without a price is rejected")

	neg := decimal.NewFromInt(-5)
	_, err = env.products.PartialUpdate(ctx, p.ID, transport.PatchProductRequest{Price: &neg})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.products.Update(ctx, 999, transport.ProductRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductUpdate_ReplacesCategories(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.cats.Create(ctx, transport.CategoryRequest{Name: "a"})
	require.NoError(t, err)
	b, err := env.cats.Create(ctx, transport.CategoryRequest{Name: "b"})
	require.NoError(t, err)
	p := env.product(t, "Epsilon", "1", a.ID)

	updated, err := env.products.Update(ctx, p.ID, transport.ProductRequest{
		Name:        "Epsilon",
		Price:       ptr(decimal.NewFromInt(2)),
		CategoryIDs: []int64{b.ID, b.ID},
	})
	require.NoError(t, err)

	got, err := env.products.FindOne(ctx, updated.ID)
	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "b", got.Categories[0].Name)
	assert.True(t, decimal.NewFromInt(2).Equal(got.Price))
}

func TestCategoryService(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	c, err := env.cats.Create(ctx, transport.CategoryRequest{Name: "tools"})
	require.NoError(t, err)

	name := "hardware"
	c, err = env.cats.PartialUpdate(ctx, c.ID, transport.PatchCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "hardware", c.Name)

	c, err = env.cats.Update(ctx, c.ID, transport.CategoryRequest{Name: "garden"})
	require.NoError(t, err)

	all, err := env.cats.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "garden", all[0].Name)

	require.NoError(t, env.cats.Delete(ctx, c.ID))
	assert.ErrorIs(t, env.cats.Delete(ctx, c.ID), ErrNotFound)
	_, err = env.cats.FindOne(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func ptr[T any](v T) *T { return &v }

func TestProductDelete_RefusedWhileInCart(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Kettle", "30")

	line, err := env.carts.AddLine(ctx, "nina", p.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.products.Delete(ctx, p.ID), ErrConflict)
	_, err = env.products.FindOne(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, env.carts.RemoveLine(ctx, "nina", line.ID))
	require.NoError(t, env.products.Delete(ctx, p.ID))
}
