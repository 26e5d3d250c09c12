package repo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/m2gi/ecom/internal/models"
	"github.com/m2gi/ecom/internal/testutil"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: testutil.NewDB(t)}
}

func seedProduct(t *testing.T, r *GormRepo, name, price string, cats ...models.Category) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		WeightUnit: models.WeightUnitU,
		Categories: cats,
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func seedCategory(t *testing.T, r *GormRepo, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name}
	require.NoError(t, r.SaveCategory(context.Background(), &c))
	return c
}

func TestEnsureCart_CreatesOnceAndReuses(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.EnsureCart(ctx, "alice")
	require.NoError(t, err)
	second, err := r.EnsureCart(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	login, err := r.LoginForCart(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "alice", login)
}

func TestGetCartByLogin_EagerLoadsLines(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	p := seedProduct(t, r, "Apple", "0.50")
	cartID, err := r.EnsureCart(ctx, "alice")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		line := models.NewLine(p, 1, time.Now().UTC())
		line.CartID = &cartID
		require.NoError(t, r.CreateLine(ctx, line))
	}

	cart, err := r.GetCartByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)
	assert.NotEqual(t, cart.Lines[0].ID, cart.Lines[1].ID)
	for _, l := range cart.Lines {
		require.NotNil(t, l.Product)
		assert.Equal(t, "Apple", l.Product.Name)
		assert.Same(t, cart, l.Cart)
	}
	require.NotNil(t, cart.User)
	assert.Equal(t, "alice", cart.User.Login)

	_, err = r.GetCartByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetLineQuantity_AcceptsAnyValue(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	p := seedProduct(t, r, "Pear", "1")
	cartID, err := r.EnsureCart(ctx, "bob")
	require.NoError(t, err)
	line := models.NewLine(p, 1, time.Now().UTC())
	line.CartID = &cartID
	require.NoError(t, r.CreateLine(ctx, line))

	for _, q := range []int{5, 0, -3} {
		got, err := r.SetLineQuantity(ctx, line.ID, q)
		require.NoError(t, err)
		assert.Equal(t, q, got.Quantity)
	}

	_, err = r.SetLineQuantity(ctx, 9999, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteLine(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	p := seedProduct(t, r, "Fig", "3")
	cartID, err := r.EnsureCart(ctx, "carol")
	require.NoError(t, err)
	line := models.NewLine(p, 1, time.Now().UTC())
	line.CartID = &cartID
	require.NoError(t, r.CreateLine(ctx, line))

	deleted, err := r.DeleteLine(ctx, line.ID)
	require.NoError(t, err)
	assert.Equal(t, line.ID, deleted.ID)

	_, err = r.DeleteLine(ctx, line.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEmptyCart(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	p := seedProduct(t, r, "Kiwi", "2")
	mine, err := r.EnsureCart(ctx, "dave")
	require.NoError(t, err)
	other, err := r.EnsureCart(ctx, "erin")
	require.NoError(t, err)

	for _, id := range []int64{mine, mine, other} {
		id := id
		line := models.NewLine(p, 1, time.Now().UTC())
		line.CartID = &id
		require.NoError(t, r.CreateLine(ctx, line))
	}

	n, err := r.EmptyCart(ctx, mine)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	left, err := r.CountLines(ctx, mine)
	require.NoError(t, err)
	assert.Zero(t, left)

	n, err = r.EmptyCart(ctx, mine)
	require.NoError(t, err)
	assert.Zero(t, n)

	untouched, err := r.CountLines(ctx, other)
	require.NoError(t, err)
	assert.EqualValues(t, 1, untouched)
}

func TestDeleteCart_CascadesLinesAndDetachesOwner(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	p := seedProduct(t, r, "Plum", "1")
	cartID, err := r.EnsureCart(ctx, "frank")
	require.NoError(t, err)
	line := models.NewLine(p, 1, time.Now().UTC())
	line.CartID = &cartID
	require.NoError(t, r.CreateLine(ctx, line))

	require.NoError(t, r.DeleteCart(ctx, cartID))

	_, err = r.GetLine(ctx, line.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	details, err := r.GetUserDetails(ctx, "frank")
	require.NoError(t, err)
	assert.Nil(t, details.CartID)

	assert.ErrorIs(t, r.DeleteCart(ctx, cartID), gorm.ErrRecordNotFound)
}

func TestGetCartsWithoutUser(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	owned, err := r.EnsureCart(ctx, "gina")
	require.NoError(t, err)
	orphan := models.Cart{}
	require.NoError(t, r.CreateCart(ctx, &orphan))

	p := seedProduct(t, r, "Loose", "2")
	line := models.NewLine(p, 1, time.Now())
	line.CartID = &orphan.ID
	require.NoError(t, r.CreateLine(ctx, line))

	carts, err := r.GetCartsWithoutUser(ctx)
	require.NoError(t, err)
	require.Len(t, carts, 1)
	assert.Equal(t, orphan.ID, carts[0].ID)
	require.Len(t, carts[0].Lines, 1, "orphan carts carry their lines like every other listing")
	require.NotNil(t, carts[0].Lines[0].Product)
	assert.Equal(t, "Loose", carts[0].Lines[0].Product.Name)

	all, err := r.GetCarts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	ids := []int64{all[0].ID, all[1].ID}
	assert.ElementsMatch(t, []int64{owned, orphan.ID}, ids)
}

func TestListProducts_FilterAndSort(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	fruit := seedCategory(t, r, "fruit")
	veg := seedCategory(t, r, "vegetable")
	seedProduct(t, r, "Banana", "1.10", fruit)
	seedProduct(t, r, "apple pie", "7.00")
	seedProduct(t, r, "Carrot", "0.40", veg)
	cherry := seedProduct(t, r, "Cherry", "5.00", fruit)

	total, items, err := r.ListProducts(ctx, ProductFilter{SortColumn: "price", Desc: true})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Equal(t, "apple pie", items[0].Name)
	assert.Equal(t, "Carrot", items[3].Name)

	total, items, err = r.ListProducts(ctx, ProductFilter{CategoryID: &fruit.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "Banana", items[0].Name)
	assert.True(t, items[1].HasCategory(fruit.ID))

	total, items, err = r.ListProducts(ctx, ProductFilter{Text: "APPLE"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "apple pie", items[0].Name)

	total, items, err = r.ListProducts(ctx, ProductFilter{IDs: []int64{cherry.ID}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, cherry.ID, items[0].ID)

	total, items, err = r.ListProducts(ctx, ProductFilter{IDs: []int64{}})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	total, items, err = r.ListProducts(ctx, ProductFilter{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, items, 2)
}

func TestSaveProduct_ReplacesCategoriesOnlyWhenAsked(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	a := seedCategory(t, r, "a")
	b := seedCategory(t, r, "b")
	p := seedProduct(t, r, "Thing", "1", a)

	p.Name = "Thing 2"
	p.Categories = nil
	require.NoError(t, r.SaveProduct(ctx, p, false))
	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thing 2", got.Name)
	require.Len(t, got.Categories, 1)

	got.Categories = []models.Category{b}
	require.NoError(t, r.SaveProduct(ctx, got, true))
	got, err = r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "b", got.Categories[0].Name)
}

func TestFavorites_AppendAndRemove(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	p := seedProduct(t, r, "Mango", "2")
	details, err := r.EnsureUserDetails(ctx, "hana")
	require.NoError(t, err)

	require.NoError(t, r.AddFavorite(ctx, details, p))
	got, err := r.GetUserDetails(ctx, "hana")
	require.NoError(t, err)
	require.Len(t, got.Favorites, 1)

	require.NoError(t, r.RemoveFavorite(ctx, got, p))
	got, err = r.GetUserDetails(ctx, "hana")
	require.NoError(t, err)
	assert.Empty(t, got.Favorites)
}

func TestDeleteProduct_ClearsJoinRows(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	c := seedCategory(t, r, "c")
	p := seedProduct(t, r, "Gone", "1", c)
	details, err := r.EnsureUserDetails(ctx, "ivan")
	require.NoError(t, err)
	require.NoError(t, r.AddFavorite(ctx, details, p))

	require.NoError(t, r.DeleteProduct(ctx, p.ID))
	ok, err := r.ProductExists(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, r.DeleteProduct(ctx, p.ID), gorm.ErrRecordNotFound)

	require.NoError(t, r.DeleteCategory(ctx, c.ID))
	assert.ErrorIs(t, r.DeleteCategory(ctx, c.ID), gorm.ErrRecordNotFound)
}

func TestDeleteProduct_RefusedWhileInCart(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	p := seedProduct(t, r, "Held", "3")
	cartID, err := r.EnsureCart(ctx, "jack")
	require.NoError(t, err)
	line := models.NewLine(p, 1, time.Now())
	line.CartID = &cartID
	require.NoError(t, r.CreateLine(ctx, line))

	assert.ErrorIs(t, r.DeleteProduct(ctx, p.ID), gorm.ErrForeignKeyViolated)
	ok, err := r.ProductExists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.DeleteLine(ctx, line.ID)
	require.NoError(t, err)
	require.NoError(t, r.DeleteProduct(ctx, p.ID))
}

func TestLoginsHoldingProduct(t *testing.T) {
	t.Parallel()
	r := newTestRepo(t)
	ctx := context.Background()

	held := seedProduct(t, r, "Held", "1")
	other := seedProduct(t, r, "Other", "1")

	for _, login := range []string{"kate", "kate", "liam"} {
		cartID, err := r.EnsureCart(ctx, login)
		require.NoError(t, err)
		line := models.NewLine(held, 1, time.Now())
		line.CartID = &cartID
		require.NoError(t, r.CreateLine(ctx, line))
	}
	cartID, err := r.EnsureCart(ctx, "mia")
	require.NoError(t, err)
	line := models.NewLine(other, 1, time.Now())
	line.CartID = &cartID
	require.NoError(t, r.CreateLine(ctx, line))

	logins, err := r.LoginsHoldingProduct(ctx, held.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"kate", "liam"}, logins)

	logins, err = r.LoginsHoldingProduct(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, logins)
}
