package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/m2gi/ecom/internal/util"
	middleware "github.com/m2gi/ecom/pkg/middleware/auth"
)

func pathID(c echo.Context, l *slog.Logger, event string) (int64, error) {
	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		l.Warn(event, "status", 400, "reason", "id is not a positive integer", "id", c.Param("id"))
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}
	return id, nil
}

func currentLogin(c echo.Context, l *slog.Logger, event string) (string, error) {
	login, ok := middleware.Login(c)
	if !ok {
		l.Warn(event, "status", 401, "reason", "no login in context")
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return login, nil
}

// checkUpdateID applies the id rules shared by every PUT and PATCH: the body must carry an id,
// it must match the path, and the entity must exist.
func checkUpdateID(ctx context.Context, l *slog.Logger, event, entity string, pathID int64, bodyID *int64,
	exists func(context.Context, int64) (bool, error)) error {
	if bodyID == nil {
		l.Warn(event, "status", 400, "reason", "id is null")
		return BadRequestAlert("Invalid id", entity, KeyIDNull)
	}
	if *bodyID != pathID {
		l.Warn(event, "status", 400, "reason", "path and body ids differ", "path_id", pathID, "body_id", *bodyID)
		return BadRequestAlert("Invalid ID", entity, KeyIDInvalid)
	}

	ok, err := exists(ctx, pathID)
	if err != nil {
		l.Error(event, "status", 500, "reason", "cannot check existence", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot check existence")
	}
	if !ok {
		l.Warn(event, "status", 400, "reason", "entity not found", "id", pathID)
		return BadRequestAlert("Entity not found", entity, KeyIDNotFound)
	}
	return nil
}
