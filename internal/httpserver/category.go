package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/m2gi/ecom/internal/service"
	"github.com/m2gi/ecom/internal/transport"
	"github.com/m2gi/ecom/pkg/logging"
)

const categoryEntity = "category"

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	categories, err := h.Svc.FindAll(ctx)
	if err != nil {
		l.Error("get_categories_error", "status", 500, "reason", "cannot list categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_category")

	id, err := pathID(c, l, "get_category_error")
	if err != nil {
		return err
	}

	category, err := h.Svc.FindOne(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_category_error", "status", 404, "reason", "category not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("get_category_error", "status", 500, "reason", "cannot get category", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get category")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_category")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ID != nil {
		l.Warn("category_create_error", "status", 400, "reason", "id already set", "id", *req.ID)
		return BadRequestAlert("A new category cannot already have an ID", categoryEntity, KeyIDExists)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("category_create_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	category, err := h.Svc.Create(ctx, req)
	if err != nil {
		l.Error("category_create_error", "status", 500, "reason", "cannot create category", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create category")
	}

	l.Info("category_create_success", "category_id", category.ID)
	c.Response().Header().Set(echo.HeaderLocation, "/api/categories/"+strconv.FormatInt(category.ID, 10))
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update_category")

	id, err := pathID(c, l, "category_update_error")
	if err != nil {
		return err
	}
	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := checkUpdateID(ctx, l, "category_update_error", categoryEntity, id, req.ID, h.Svc.Exists); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("category_update_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	category, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("category_update_error", "status", 404, "reason", "category not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("category_update_error", "status", 500, "reason", "cannot update category", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update category")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.patch_category")

	id, err := pathID(c, l, "category_patch_error")
	if err != nil {
		return err
	}
	var req transport.PatchCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := checkUpdateID(ctx, l, "category_patch_error", categoryEntity, id, req.ID, h.Svc.Exists); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("category_patch_error", "status", 400, "reason", "validation failed", "error", err)
		return err
	}

	category, err := h.Svc.PartialUpdate(ctx, id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("category_patch_error", "status", 404, "reason", "category not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("category_patch_error", "status", 500, "reason", "cannot update category", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update category")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete_category")

	id, err := pathID(c, l, "category_delete_error")
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("category_delete_error", "status", 404, "reason", "category not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		l.Error("category_delete_error", "status", 500, "reason", "cannot delete category", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete category")
	}

	l.Info("category_delete_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}
