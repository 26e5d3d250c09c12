package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/m2gi/ecom/internal/service"
	"github.com/m2gi/ecom/pkg/logging"
)

func (h *ProductHTTP) GetFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_favorites")

	login, err := currentLogin(c, l, "get_favorites_error")
	if err != nil {
		return err
	}

	favorites, err := h.Svc.Favorites(ctx, login)
	if err != nil {
		l.Error("get_favorites_error", "status", 500, "reason", "cannot load favorites", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load favorites")
	}

	return c.JSON(http.StatusOK, favorites)
}

// ToggleFavorite flips product :id in the caller's favorites and returns the new set.
func (h *ProductHTTP) ToggleFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.toggle_favorite")

	login, err := currentLogin(c, l, "toggle_favorite_error")
	if err != nil {
		return err
	}
	id, err := pathID(c, l, "toggle_favorite_error")
	if err != nil {
		return err
	}

	favorites, err := h.Svc.ToggleFavorite(ctx, login, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("toggle_favorite_error", "status", 404, "reason", "product not found", "product_id", id, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("toggle_favorite_error", "status", 500, "reason", "cannot update favorites", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update favorites")
	}

	l.Info("toggle_favorite_success", "product_id", id)
	return c.JSON(http.StatusOK, favorites)
}
