package user

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"
)

// SubscriptionChecker answers whether a follower is subscribed to authors.
type SubscriptionChecker interface {
	IsSubscribed(ctx context.Context, followerID, authorID int64) (bool, error)
	SubscribedAmong(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error)
}

type Handler struct {
	service       *Service
	subscriptions SubscriptionChecker
	pageSize      int
	maxPageSize   int
}

func NewHandler(service *Service, subscriptions SubscriptionChecker, pageSize, maxPageSize int) *Handler {
	return &Handler{
		service:       service,
		subscriptions: subscriptions,
		pageSize:      pageSize,
		maxPageSize:   maxPageSize,
	}
}

// Register godoc
// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "payload"
// @Success 201 {object} Response
// @Router /users/ [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.Validation(c, errs)
		return
	}

	u, err := h.service.Register(c.Request.Context(), RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			response.Validation(c, map[string]string{"email": err.Error()})
		case errors.Is(err, ErrUsernameExists):
			response.Validation(c, map[string]string{"username": err.Error()})
		case errors.Is(err, ErrPasswordTooLong):
			response.Validation(c, map[string]string{"password": err.Error()})
		default:
			response.Internal(c, err)
		}
		return
	}

	response.Success(c, http.StatusCreated, ToResponse(u, false))
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Router /users/ [get]
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	p := pagination.FromQuery(c, h.pageSize, h.maxPageSize)

	users, total, err := h.service.List(ctx, p.Limit, p.Offset())
	if err != nil {
		response.Internal(c, err)
		return
	}

	ids := make([]int64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subscribed, err := h.subscribedAmong(ctx, middleware.CurrentUserID(c), ids)
	if err != nil {
		response.Internal(c, err)
		return
	}

	items := make([]Response, len(users))
	for i := range users {
		items[i] = ToResponse(&users[i], subscribed[users[i].ID])
	}
	response.Success(c, http.StatusOK, pagination.New(c, p, total, items))
}

// Get godoc
// @Summary User profile
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Router /users/{id}/ [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidID, "Invalid user ID")
		return
	}
	h.respondProfile(c, id)
}

// Me godoc
// @Summary Current user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Router /users/me/ [get]
func (h *Handler) Me(c *gin.Context) {
	h.respondProfile(c, middleware.CurrentUserID(c))
}

func (h *Handler) respondProfile(c *gin.Context, id int64) {
	ctx := c.Request.Context()
	u, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "User not found")
			return
		}
		response.Internal(c, err)
		return
	}

	subscribed := false
	if viewer := middleware.CurrentUserID(c); viewer != 0 && viewer != id && h.subscriptions != nil {
		subscribed, err = h.subscriptions.IsSubscribed(ctx, viewer, id)
		if err != nil {
			response.Internal(c, err)
			return
		}
	}
	response.Success(c, http.StatusOK, ToResponse(u, subscribed))
}

// SetPassword godoc
// @Summary Change password
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Param body body SetPasswordRequest true "payload"
// @Success 204
// @Router /users/set_password/ [post]
func (h *Handler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.Validation(c, errs)
		return
	}

	err := h.service.SetPassword(c.Request.Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			response.Validation(c, map[string]string{"current_password": err.Error()})
		case errors.Is(err, ErrPasswordTooLong):
			response.Validation(c, map[string]string{"new_password": err.Error()})
		default:
			response.Internal(c, err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// Login godoc
// @Summary Obtain an auth token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Router /auth/token/login/ [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.Validation(c, errs)
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusBadRequest, "INVALID_CREDENTIALS", err.Error())
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"auth_token": token})
}

// Logout godoc
// @Summary Log out
// @Tags Auth
// @Security BearerAuth
// @Success 204
// @Router /auth/token/logout/ [post]
func (h *Handler) Logout(c *gin.Context) {
	// tokens are stateless and expire on their own
	c.Status(http.StatusNoContent)
}

func (h *Handler) subscribedAmong(ctx context.Context, viewer int64, ids []int64) (map[int64]bool, error) {
	if viewer == 0 || h.subscriptions == nil || len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	return h.subscriptions.SubscribedAmong(ctx, viewer, ids)
}
