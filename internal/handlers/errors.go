package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/engagement/backend/internal/engagement"
	"github.com/anonto42/engagement/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps engine and repository errors to HTTP errors. The cause is
// kept as the internal error so the request logger records it.
func toHTTPError(err error) *echo.HTTPError {
	var engErr *engagement.Error
	if errors.As(err, &engErr) {
		switch engErr.Code {
		case engagement.CodeNotFound:
			return echo.NewHTTPError(http.StatusNotFound, notFoundMessage(engErr.Resource)).SetInternal(err)
		case engagement.CodeConflict:
			return echo.NewHTTPError(http.StatusConflict, "Reaction was changed by a concurrent request, please retry").SetInternal(err)
		case engagement.CodeInvalidArgument:
			msg := "Invalid request"
			if engErr.Err != nil {
				msg = engErr.Err.Error()
			}
			return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(err)
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Service temporarily unavailable").SetInternal(err)
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found").SetInternal(err)
	case errors.Is(err, repositories.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, "Already exists").SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusServiceUnavailable, "Service temporarily unavailable").SetInternal(err)
}

func notFoundMessage(resource string) string {
	if resource == "" {
		return "Not found"
	}
	return strings.ToUpper(resource[:1]) + resource[1:] + " not found"
}
