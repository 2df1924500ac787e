package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"aits/internal/auth"
	apperrors "aits/internal/errors"
	"aits/internal/validation"
	"aits/internal/workflow"
)

// ValidationErrorResponse lists field-level validation failures.
type ValidationErrorResponse struct {
	Errors validation.Errors `json:"errors"`
	Code   string            `json:"code"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

func badRequestBody() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_REQUEST",
	})
}

// respondError converts a service error into an HTTP error. Server-side
// failures and creation failures are logged with their cause.
func respondError(c echo.Context, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return echo.NewHTTPError(http.StatusBadRequest, ValidationErrorResponse{
			Errors: verrs,
			Code:   "VALIDATION_ERROR",
		})
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError || errors.Is(err, apperrors.ErrCreation) {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// actorFrom builds the acting identity from the claims the JWT middleware
// stored on the context.
func actorFrom(c echo.Context) (workflow.Actor, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return workflow.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "invalid token",
			Code:  "UNAUTHORIZED",
		})
	}
	return workflow.Actor{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
