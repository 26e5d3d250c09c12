package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/m2gi/ecom/internal/models"
	"github.com/m2gi/ecom/internal/service"
	"github.com/m2gi/ecom/internal/transport"
	"github.com/m2gi/ecom/internal/util"
	"github.com/m2gi/ecom/pkg/logging"
)

const (
	productEntity  = "product"
	headerTotalCnt = "X-Total-Count"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

// GetProducts lists products. Without page or size every match is returned.
func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	q := transport.ProductQuery{
		Query:     c.QueryParam("query"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}
	if raw := c.QueryParam("category"); raw != "" {
		id, ok := util.ParseID(raw)
		if !ok {
			l.Warn("get_products_error", "status", 400, "reason", "category is not a positive integer", "category", raw)
			return echo.NewHTTPError(http.StatusBadRequest, "category is not a positive integer")
		}
		q.CategoryID = &id
	}
	if c.QueryParam("page") != "" || c.QueryParam("size") != "" {
		page := util.ParseIntDefault(c.QueryParam("page"), 1)
		size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
		q.Offset, q.Limit = util.Calculate(page, size)
	}

	total, items, err := h.Svc.List(ctx, q)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("get_products_error", "status", 400, "reason", "category unknown", "error", err)
			return BadRequestAlert("Category unknown", categoryEntity, KeyIDNotFound)
		case errors.Is(err, service.ErrValidation):
			l.Warn("get_products_error", "status", 400, "reason", "invalid sort", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("get_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	c.Response().Header().Set(headerTotalCnt, strconv.FormatInt(total, 10))
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c, l, "get_product_error")
	if err != nil {
		return err
	}

	product, err := h.Svc.FindOne(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_error", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_error", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ID != nil {
		l.Warn("product_create_error", "status", 400, "reason", "id already set", "id", *req.ID)
		return BadRequestAlert("A new product cannot already have an ID", productEntity, KeyIDExists)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	product, err := h.Svc.Create(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to db")
	}

	l.Info("product_create_success", "product_id", product.ID)
	c.Response().Header().Set(echo.HeaderLocation, "/api/products/"+strconv.FormatInt(product.ID, 10))
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := pathID(c, l, "product_update_error")
	if err != nil {
		return err
	}
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := checkUpdateID(ctx, l, "product_update_error", productEntity, id, req.ID, h.Svc.Exists); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	product, err := h.Svc.Update(ctx, id, req)
	return h.writeResult(c, l, "product_update_error", product, err)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch_product")

	id, err := pathID(c, l, "product_patch_error")
	if err != nil {
		return err
	}
	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := checkUpdateID(ctx, l, "product_patch_error", productEntity, id, req.ID, h.Svc.Exists); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	product, err := h.Svc.PartialUpdate(ctx, id, req)
	return h.writeResult(c, l, "product_patch_error", product, err)
}

func (h *ProductHTTP) writeResult(c echo.Context, l *slog.Logger, event string, product *models.Product, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn(event, "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error(event, "status", 500, "reason", "cannot save product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save product")
	}

	l.Info("product_save_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := pathID(c, l, "product_delete_error")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrConflict) {
			l.Warn("product_delete_error", "status", 409, "reason", "product is in a cart", "error", err)
			return echo.NewHTTPError(http.StatusConflict, "product is in a cart")
		}
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("product_delete_error", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("product_delete_error", "status", 500, "reason", "cannot delete product from db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product from db")
	}

	l.Info("product_delete_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
