package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"aits/internal/auth"
	apperrors "aits/internal/errors"
	"aits/internal/model"
	"aits/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request. Profile fields
// not matching the role are ignored.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Password  string `json:"password" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Role      string `json:"role" validate:"required,oneof=student lecturer registrar"`

	StudentNumber string `json:"student_number" validate:"required_if=Role student"`
	Programme     string `json:"programme"`
	YearOfStudy   int    `json:"year_of_study" validate:"omitempty,min=1,max=10"`

	StaffNumber string `json:"staff_number" validate:"required_if=Role lecturer,required_if=Role registrar"`
	Department  string `json:"department"`
	College     string `json:"college"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message  string `json:"message"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	LoginType string `json:"loginType" validate:"omitempty,oneof=student lecturer registrar"`
}

// LoginResponse represents an authentication response.
type LoginResponse struct {
	Refresh   string         `json:"refresh"`
	Access    string         `json:"access"`
	TokenType string         `json:"token_type"`
	User      model.UserView `json:"user"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries a newly minted access token.
type RefreshResponse struct {
	Access string `json:"access"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}

	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:      req.Username,
		Password:      req.Password,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          model.Role(req.Role),
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

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message:  "User created successfully",
		UserID:   user.ID,
		Username: user.Username,
	})
}

// Login godoc
// @Summary Login user
// @Description loginType, when given, must match the account's role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}

	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, model.Role(req.LoginType))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Refresh:   result.Tokens.Refresh,
		Access:    result.Tokens.Access,
		TokenType: auth.BearerTokenType,
		User:      result.User.View(),
	})
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} RefreshResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /token/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}

	access, err := h.authService.RefreshToken(c.Request().Context(), req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenRequired),
			errors.Is(err, apperrors.ErrInvalidRefreshToken),
			errors.Is(err, apperrors.ErrTokenBlacklisted):
			httpErr := apperrors.MapErrorToHTTP(err)
			return echo.NewHTTPError(http.StatusUnauthorized, httpErr.ToErrorResponse())
		}
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, RefreshResponse{Access: access})
}

// Logout godoc
// @Summary Logout user
// @Description Blacklists the refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RefreshRequest true "Refresh token"
// @Success 205 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}

	if err := h.authService.Logout(c.Request().Context(), req.Refresh); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusResetContent, MessageResponse{Message: "Successfully logged out"})
}
