package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "aits/internal/errors"
	"aits/internal/model"
	"aits/internal/service"
)

// UserHandler serves the caller's own account and profile.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateProfileRequest replaces the editable fields of one profile kind.
// Kind is taken from the path, not the body.
type UpdateProfileRequest struct {
	Kind string `json:"-"`

	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`

	StudentNumber string `json:"student_number" validate:"required_if=Kind student,max=50"`
	Programme     string `json:"programme" validate:"max=255"`
	YearOfStudy   int    `json:"year_of_study" validate:"omitempty,min=1,max=10"`

	StaffNumber string `json:"staff_number" validate:"required_if=Kind lecturer,required_if=Kind registrar,max=50"`
	Department  string `json:"department" validate:"max=255"`
	College     string `json:"college" validate:"max=255"`
}

// Me godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Profile kind" Enums(student, lecturer, registrar)
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile/{kind} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := profileKind(c)
	if err != nil {
		return err
	}

	profile, err := h.svc.GetProfile(c.Request().Context(), actor, kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Profile kind" Enums(student, lecturer, registrar)
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.Profile
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile/{kind} [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	kind, err := profileKind(c)
	if err != nil {
		return err
	}

	if kind != actor.Role {
		return respondError(c, apperrors.ErrProfileNotFound)
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	req.Kind = string(kind)
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	profile, err := h.svc.UpdateProfile(c.Request().Context(), actor, kind, service.UpdateProfileInput{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		StudentNumber: req.StudentNumber,
		Programme:     req.Programme,
		YearOfStudy:   req.YearOfStudy,
		StaffNumber:   req.StaffNumber,
		Department:    req.Department,
		College:       req.College,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func profileKind(c echo.Context) (model.Role, error) {
	kind, err := model.ParseRole(c.Param("kind"))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrProfileNotFound)
		return "", echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return kind, nil
}
