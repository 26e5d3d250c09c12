package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/m2gi/ecom/internal/models"
	"github.com/m2gi/ecom/internal/service"
	"github.com/m2gi/ecom/pkg/logging"
)

// GetCurrentCart returns the caller's cart with its lines.
func (h *CartHTTP) GetCurrentCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_current_cart")

	login, err := currentLogin(c, l, "get_current_cart_error")
	if err != nil {
		return err
	}

	cart, err := h.Svc.CurrentCart(ctx, login)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_current_cart_error", "status", 404, "reason", "user has no cart", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "cart not found")
		}
		l.Error("get_current_cart_error", "status", 500, "reason", "cannot get cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get cart")
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_product")

	login, err := currentLogin(c, l, "cart_add_product_error")
	if err != nil {
		return err
	}
	productID, err := pathID(c, l, "cart_add_product_error")
	if err != nil {
		return err
	}

	line, err := h.Svc.AddLine(ctx, login, productID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("cart_add_product_error", "status", 404, "reason", "product not found", "product_id", productID, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("cart_add_product_error", "status", 500, "reason", "cannot add product to cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to cart")
	}

	l.Info("cart_add_product_success", "line_id", line.ID, "product_id", productID)
	c.Response().Header().Set(echo.HeaderLocation, "/api/product-carts/"+strconv.FormatInt(line.ID, 10))
	return c.JSON(http.StatusCreated, line)
}

// UpdateLine sets the quantity of line :id to ?quantity=N as given.
func (h *CartHTTP) UpdateLine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_line")

	login, err := currentLogin(c, l, "cart_update_line_error")
	if err != nil {
		return err
	}
	lineID, err := pathID(c, l, "cart_update_line_error")
	if err != nil {
		return err
	}
	quantity, err := strconv.Atoi(c.QueryParam("quantity"))
	if err != nil {
		l.Warn("cart_update_line_error", "status", 400, "reason", "quantity is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "quantity is not an integer")
	}

	line, err := h.Svc.UpdateLine(ctx, login, lineID, quantity)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("cart_update_line_error", "status", 404, "reason", "line not found", "line_id", lineID, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "line not found")
		}
		l.Error("cart_update_line_error", "status", 500, "reason", "cannot update line", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update line")
	}

	l.Info("cart_update_line_success", "line_id", lineID, "quantity", quantity)
	return c.JSON(http.StatusOK, line)
}

func (h *CartHTTP) RemoveLine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_line")

	login, err := currentLogin(c, l, "cart_remove_line_error")
	if err != nil {
		return err
	}
	lineID, err := pathID(c, l, "cart_remove_line_error")
	if err != nil {
		return err
	}

	if err := h.Svc.RemoveLine(ctx, login, lineID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("cart_remove_line_error", "status", 404, "reason", "line not found", "line_id", lineID, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "line not found")
		}
		l.Error("cart_remove_line_error", "status", 500, "reason", "cannot remove line", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove line")
	}

	l.Info("cart_remove_line_success", "line_id", lineID)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) EmptyCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.empty_cart")

	login, err := currentLogin(c, l, "cart_empty_error")
	if err != nil {
		return err
	}

	removed, err := h.Svc.EmptyForLogin(ctx, login)
	if err != nil {
		l.Error("cart_empty_error", "status", 500, "reason", "cannot empty cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot empty cart")
	}

	l.Info("cart_empty_success", "removed", removed)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) IncreaseProduct(c echo.Context) error {
	return h.shiftProduct(c, "cart.increase_product", h.Svc.IncreaseQuantity)
}

func (h *CartHTTP) DecreaseProduct(c echo.Context) error {
	return h.shiftProduct(c, "cart.decrease_product", h.Svc.DecreaseQuantity)
}

func (h *CartHTTP) shiftProduct(c echo.Context, name string,
	shift func(ctx context.Context, login string, productID int64) (*models.Cart, error)) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	login, err := currentLogin(c, l, "cart_shift_error")
	if err != nil {
		return err
	}
	productID, err := pathID(c, l, "cart_shift_error")
	if err != nil {
		return err
	}

	cart, err := shift(ctx, login, productID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("cart_shift_error", "status", 404, "reason", "product not in cart", "product_id", productID, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not in cart")
		}
		l.Error("cart_shift_error", "status", 500, "reason", "cannot change quantity", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot change quantity")
	}

	return c.JSON(http.StatusOK, cart)
}
