package middleware

import (
	"context"

	"crateDigger/business/selection"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns every request a trace id, honoring one supplied by the
// caller, and threads it through the request context so the selection
// pipeline can log against it.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(requestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}

			ctx := context.WithValue(c.Request().Context(), selection.TraceIDKey, rid)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(requestIDHeader, rid)

			return next(c)
		}
	}
}
