package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/m2gi/ecom/internal/models"
	"github.com/m2gi/ecom/internal/service"
	"github.com/m2gi/ecom/internal/transport"
	"github.com/m2gi/ecom/pkg/logging"
)

const cartEntity = "cart"

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) CreateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.create_cart")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ID != nil {
		l.Warn("cart_create_error", "status", 400, "reason", "id already set", "id", *req.ID)
		return BadRequestAlert("A new cart cannot already have an ID", cartEntity, KeyIDExists)
	}

	cart, err := h.Svc.Create(ctx)
	if err != nil {
		l.Error("cart_create_error", "status", 500, "reason", "cannot create cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create cart")
	}

	l.Info("cart_create_success", "cart_id", cart.ID)
	c.Response().Header().Set(echo.HeaderLocation, "/api/carts/"+strconv.FormatInt(cart.ID, 10))
	return c.JSON(http.StatusCreated, cart)
}

// UpdateCart serves both PUT and PATCH; a cart has no writable columns of its own.
func (h *CartHTTP) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_cart")

	id, err := pathID(c, l, "cart_update_error")
	if err != nil {
		return err
	}
	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := checkUpdateID(ctx, l, "cart_update_error", cartEntity, id, req.ID, h.Svc.Exists); err != nil {
		return err
	}

	cart, err := h.Svc.Update(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("cart_update_error", "status", 404, "reason", "cart not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "cart not found")
		}
		l.Error("cart_update_error", "status", 500, "reason", "cannot update cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	l.Info("cart_update_success", "cart_id", id)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) GetCarts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_carts")

	var (
		carts []models.Cart
		err   error
	)
	if c.QueryParam("filter") == "user-is-null" {
		carts, err = h.Svc.FindAllWhereUserIsNull(ctx)
	} else {
		carts, err = h.Svc.FindAll(ctx)
	}
	if err != nil {
		l.Error("get_carts_error", "status", 500, "reason", "cannot list carts", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list carts")
	}

	return c.JSON(http.StatusOK, carts)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	id, err := pathID(c, l, "get_cart_error")
	if err != nil {
		return err
	}

	cart, err := h.Svc.FindOne(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_cart_error", "status", 404, "reason", "cart not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "cart not found")
		}
		l.Error("get_cart_error", "status", 500, "reason", "cannot get cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get cart")
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) DeleteCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete_cart")

	id, err := pathID(c, l, "cart_delete_error")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("cart_delete_error", "status", 404, "reason", "cart not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "cart not found")
		}
		l.Error("cart_delete_error", "status", 500, "reason", "cannot delete cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete cart")
	}

	l.Info("cart_delete_success", "cart_id", id)
	return c.NoContent(http.StatusNoContent)
}
