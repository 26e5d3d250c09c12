package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/m2gi/ecom/pkg/authclient"
	pkgdb "github.com/m2gi/ecom/pkg/db"
	"github.com/m2gi/ecom/pkg/logging"
	middleware "github.com/m2gi/ecom/pkg/middleware/auth"
)

type Deps struct {
	CartHandler     *CartHTTP
	ProductHandler  *ProductHTTP
	CategoryHandler *CategoryHTTP
	JWTSecret       []byte
	AuthClient      *authclient.Client
	DB              *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
			logging.FromContext(c.Request().Context()).Warn("ready_check_error", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)
	api := e.Group("/api")

	carts := api.Group("/carts", authMW.RequireAdmin)
	carts.POST("", d.CartHandler.CreateCart)
	carts.GET("", d.CartHandler.GetCarts)
	carts.GET("/:id", d.CartHandler.GetCart)
	carts.PUT("/:id", d.CartHandler.UpdateCart)
	carts.PATCH("/:id", d.CartHandler.UpdateCart)
	carts.DELETE("/:id", d.CartHandler.DeleteCart)

	cart := api.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCurrentCart)
	cart.DELETE("/products", d.CartHandler.EmptyCart)
	cart.POST("/products/:id", d.CartHandler.AddProduct)
	cart.PATCH("/products/:id", d.CartHandler.UpdateLine)
	cart.DELETE("/products/:id", d.CartHandler.RemoveLine)
	cart.POST("/by-product/:id/increase", d.CartHandler.IncreaseProduct)
	cart.POST("/by-product/:id/decrease", d.CartHandler.DecreaseProduct)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("/favorite-products", d.ProductHandler.GetFavorites, authMW.RequireAuth)
	products.POST("/favorite-products/:id", d.ProductHandler.ToggleFavorite, authMW.RequireAuth)

	productAdmin := products.Group("", authMW.RequireAdmin)
	productAdmin.POST("", d.ProductHandler.CreateProduct)
	productAdmin.PUT("/:id", d.ProductHandler.UpdateProduct)
	productAdmin.PATCH("/:id", d.ProductHandler.PatchProduct)
	productAdmin.DELETE("/:id", d.ProductHandler.DeleteProduct)

	categories := api.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)

	categoryAdmin := categories.Group("", authMW.RequireAdmin)
	categoryAdmin.POST("", d.CategoryHandler.CreateCategory)
	categoryAdmin.PUT("/:id", d.CategoryHandler.UpdateCategory)
	categoryAdmin.PATCH("/:id", d.CategoryHandler.PatchCategory)
	categoryAdmin.DELETE("/:id", d.CategoryHandler.DeleteCategory)
}

// New builds the echo instance with the validator and alert-aware error handler installed.
func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(e)
	return e
}
