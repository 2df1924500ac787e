package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "aits/internal/errors"
	"aits/internal/model"
	"aits/internal/service"
	"aits/internal/validation"
)

// IssueHandler handles academic issue endpoints.
type IssueHandler struct {
	issueService service.IssueService
}

// NewIssueHandler creates a new issue handler.
func NewIssueHandler(issueService service.IssueService) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

// CreateIssueRequest represents a new issue submission.
type CreateIssueRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"omitempty,oneof=missing_marks appeal correction other"`
	CourseCode  string `json:"course_code" validate:"max=30"`
}

// AssignIssueRequest names the lecturer an issue is handed to.
type AssignIssueRequest struct {
	LecturerID LecturerID `json:"lecturer_id" swaggertype:"integer"`
}

// LecturerID accepts a user id as a JSON number or a numeric string. A
// missing, null or empty value decodes to zero. Anything else marks the
// value invalid instead of failing the whole body.
type LecturerID struct {
	Value   uint
	Invalid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LecturerID) UnmarshalJSON(data []byte) error {
	*l = LecturerID{}
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			return nil
		}
	}
	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		l.Invalid = true
		return nil
	}
	l.Value = uint(v)
	return nil
}

// Create godoc
// @Summary Submit an issue
// @Description Students only. The new issue starts pending.
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIssueRequest true "Issue"
// @Success 201 {object} model.Issue
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /issues [post]
func (h *IssueHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req CreateIssueRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	issue, err := h.issueService.Create(c.Request().Context(), actor, service.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    model.IssueCategory(req.Category),
		CourseCode:  req.CourseCode,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, issue)
}

// Assign godoc
// @Summary Assign an issue to a lecturer
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Issue ID"
// @Param request body AssignIssueRequest true "Lecturer"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /issues/{id}/assign [post]
func (h *IssueHandler) Assign(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := issueID(c)
	if err != nil {
		return err
	}

	var req AssignIssueRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	if req.LecturerID.Invalid {
		return respondError(c, validation.Errors{"lecturer_id": {"A valid integer is required."}})
	}

	if _, err := h.issueService.Assign(c.Request().Context(), actor, id, req.LecturerID.Value); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Issue assigned successfully"})
}

// Resolve godoc
// @Summary Resolve an assigned issue
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param id path int true "Issue ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /issues/{id}/resolve [post]
func (h *IssueHandler) Resolve(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := issueID(c)
	if err != nil {
		return err
	}

	if _, err := h.issueService.Resolve(c.Request().Context(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Issue resolved successfully"})
}

// Get godoc
// @Summary Get an issue
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param id path int true "Issue ID"
// @Success 200 {object} model.Issue
// @Failure 404 {object} errors.ErrorResponse
// @Router /issues/{id} [get]
func (h *IssueHandler) Get(c echo.Context) error {
	id, err := issueID(c)
	if err != nil {
		return err
	}
	issue, err := h.issueService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, issue)
}

// Mine godoc
// @Summary List own issues
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Issue
// @Router /issues/mine [get]
func (h *IssueHandler) Mine(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	issues, err := h.issueService.ListMine(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, issues)
}

// Resolved godoc
// @Summary List own resolved issues
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Issue
// @Router /issues/resolved [get]
func (h *IssueHandler) Resolved(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	issues, err := h.issueService.ListResolved(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, issues)
}

// Count godoc
// @Summary Issue totals
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.IssueCounts
// @Router /issues/count [get]
func (h *IssueHandler) Count(c echo.Context) error {
	counts, err := h.issueService.Counts(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

// issueID parses the :id path parameter. Anything that is not a positive
// integer cannot name an issue.
func issueID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrIssueNotFound)
		return 0, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return uint(id), nil
}
