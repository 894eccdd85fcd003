package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/AnnaCarter465/taxpadi/access"
	"github.com/AnnaCarter465/taxpadi/database"
	"github.com/AnnaCarter465/taxpadi/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type UserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=Admin Accountant Employee"`
}

type UsersResponse struct {
	Users []access.User `json:"users"`
}

type RoleResponse struct {
	Role     access.Role       `json:"role"`
	Features []FeatureResponse `json:"features"`
}

type UserDB interface {
	FindAllUsers(ctx context.Context) ([]access.User, error)
	CreateUser(ctx context.Context, u access.User) (access.User, error)
	UpdateUser(ctx context.Context, u access.User) (access.User, error)
}

type AdminHandler struct {
	vl       *validator.Validate
	db       UserDB
	resolver *access.Resolver
	log      zerolog.Logger
}

func NewAdminHandler(vl *validator.Validate, db UserDB, resolver *access.Resolver) *AdminHandler {
	return &AdminHandler{vl, db, resolver, logger.WithComponent("admin-handler")}
}

func (h *AdminHandler) bindUser(c echo.Context) (access.User, bool) {
	var req UserRequest

	if err := c.Bind(&req); err != nil {
		return access.User{}, false
	}

	if err := h.vl.Struct(req); err != nil {
		return access.User{}, false
	}

	return access.User{Name: req.Name, Email: req.Email, Role: access.Role(req.Role)}, true
}

func (h *AdminHandler) storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, database.ErrDuplicate):
		return c.JSON(http.StatusConflict, ResponseMsg{
			Message: "Email already in use",
		})
	case errors.Is(err, database.ErrNotFound):
		return c.JSON(http.StatusNotFound, ResponseMsg{
			Message: "User not found",
		})
	default:
		h.log.Error().Err(err).Msg("user store failed")
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.db.FindAllUsers(c.Request().Context())
	if err != nil {
		return h.storeError(c, err)
	}

	if users == nil {
		users = []access.User{}
	}

	return c.JSON(http.StatusOK, &UsersResponse{Users: users})
}

func (h *AdminHandler) CreateUser(c echo.Context) error {
	u, ok := h.bindUser(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	created, err := h.db.CreateUser(c.Request().Context(), u)
	if err != nil {
		return h.storeError(c, err)
	}

	h.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")

	return c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	u, ok := h.bindUser(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	u.ID = c.Param("id")

	updated, err := h.db.UpdateUser(c.Request().Context(), u)
	if err != nil {
		return h.storeError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) RolePermissions(c echo.Context) error {
	role := access.Role(c.Param("role"))
	if !role.Valid() {
		return c.JSON(http.StatusNotFound, ResponseMsg{
			Message: "Unknown role",
		})
	}

	return c.JSON(http.StatusOK, &RoleResponse{
		Role:     role,
		Features: featureList(h.resolver.AllowedFeatures(role)),
	})
}
