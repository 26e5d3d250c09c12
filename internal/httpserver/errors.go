package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AlertError is the 400 body returned when a request names an entity id it may not use.
type AlertError struct {
	Status     int    `json:"status"`
	Title      string `json:"title"`
	EntityName string `json:"entityName"`
	ErrorKey   string `json:"errorKey"`
	Message    string `json:"message"`
	Params     string `json:"params"`
}

func (e *AlertError) Error() string {
	return e.Title + " (" + e.EntityName + "." + e.ErrorKey + ")"
}

const (
	KeyIDExists   = "idexists"
	KeyIDNull     = "idnull"
	KeyIDInvalid  = "idinvalid"
	KeyIDNotFound = "idnotfound"
)

func BadRequestAlert(title, entityName, errorKey string) *AlertError {
	return &AlertError{
		Status:     http.StatusBadRequest,
		Title:      title,
		EntityName: entityName,
		ErrorKey:   errorKey,
		Message:    "error." + errorKey,
		Params:     entityName,
	}
}

// ErrorHandler renders *AlertError as JSON and hands everything else to echo's default handler.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var alert *AlertError
		if !errors.As(err, &alert) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}
		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(alert.Status)
			return
		}
		_ = c.JSON(alert.Status, alert)
	}
}
