package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"user-management-service/internal/usecase/user"
	apperrors "user-management-service/pkg/errors"
	"user-management-service/pkg/logger"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	svc user.Service
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(svc user.Service, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// CreateUserRequest is the body of POST /v1/users. Name and email rules are
// enforced by the domain; binding only caps the size.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"max=100"`
	Email string `json:"email" binding:"max=254"`
}

// UpdateUserRequest is the body of PUT /v1/users/:id. Omitted fields are kept.
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Email *string `json:"email" binding:"omitempty,max=254"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
	Count int            `json:"count"`
}

// DeleteUserResponse represents the HTTP response for a deletion
type DeleteUserResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// CreateUser handles POST /v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.svc.CreateUser(c.Request.Context(), user.CreateUserRequest{Name: req.Name, Email: req.Email})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(resp))
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	resp, err := h.svc.GetUser(c.Request.Context(), user.GetUserRequest{ID: c.Param("id")})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}

// UpdateUser handles PUT /v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.svc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:    c.Param("id"),
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}

// DeleteUser handles DELETE /v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	resp, err := h.svc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: c.Param("id")})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteUserResponse{ID: resp.ID, Deleted: resp.Deleted})
}

// ListUsers handles GET /v1/users. A non-empty ?query= switches to search.
func (h *UserHandler) ListUsers(c *gin.Context) {
	var (
		resp *user.ListUsersResponse
		err  error
	)
	if query, ok := c.GetQuery("query"); ok && strings.TrimSpace(query) != "" {
		resp, err = h.svc.SearchUsers(c.Request.Context(), user.SearchUsersRequest{Query: query})
	} else {
		resp, err = h.svc.ListUsers(c.Request.Context())
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toUserResponse(&resp.Users[i])
	}
	c.JSON(http.StatusOK, ListUsersResponse{Users: users, Count: resp.Count})
}

func toUserResponse(u *user.UserResponse) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// badRequest answers a body that could not be bound.
func (h *UserHandler) badRequest(c *gin.Context, err error) {
	logger.WithContext(c.Request.Context(), h.log).Warn("invalid request body", zap.Error(err))

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   apperrors.KindValidation.String(),
			Message: formatFieldError(fe),
			Field:   strings.ToLower(fe.Field()),
		})
		return
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: "request body must be valid JSON",
	})
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "required":
		return field + " is required"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// handleError maps service errors to HTTP responses. Internal details are
// logged but never returned to the client.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	code := apperrors.HTTPStatus(err)
	log := logger.WithContext(c.Request.Context(), h.log)

	resp := ErrorResponse{Error: kind.String(), Message: err.Error()}
	switch kind {
	case apperrors.KindValidation:
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			resp.Field = verr.Field
		}
	case apperrors.KindNotFound, apperrors.KindDuplicateEmail:
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		resp = ErrorResponse{Error: apperrors.KindInternal.String(), Message: "an internal error occurred"}
		code = http.StatusInternalServerError
	}

	c.JSON(code, resp)
}
