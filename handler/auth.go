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

const (
	HeaderUserID = "X-User-ID"
	userKey      = "user"
)

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type FeatureResponse struct {
	Feature access.Feature `json:"feature"`
	Label   string         `json:"label"`
}

type SessionResponse struct {
	User        access.User       `json:"user"`
	Features    []FeatureResponse `json:"features"`
	DefaultView access.Feature    `json:"defaultView"`
}

type ViewResponse struct {
	Requested  access.Feature `json:"requested"`
	Feature    access.Feature `json:"feature"`
	Label      string         `json:"label"`
	Redirected bool           `json:"redirected"`
}

type UserLookup interface {
	FindUserByID(ctx context.Context, id string) (access.User, error)
	FindUserByEmail(ctx context.Context, email string) (access.User, error)
}

type AuthHandler struct {
	vl       *validator.Validate
	db       UserLookup
	resolver *access.Resolver
	log      zerolog.Logger
}

func NewAuthHandler(vl *validator.Validate, db UserLookup, resolver *access.Resolver) *AuthHandler {
	return &AuthHandler{vl, db, resolver, logger.WithComponent("auth-handler")}
}

func featureList(features []access.Feature) []FeatureResponse {
	resp := []FeatureResponse{}

	for _, f := range features {
		resp = append(resp, FeatureResponse{Feature: f, Label: f.Label()})
	}

	return resp
}

func (h *AuthHandler) session(u access.User) *SessionResponse {
	return &SessionResponse{
		User:        u,
		Features:    featureList(h.resolver.AllowedFeatures(u.Role)),
		DefaultView: h.resolver.DefaultFeature(u.Role),
	}
}

// Login is a mock sign-in: any registered email is accepted without a
// password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := h.vl.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	u, err := h.db.FindUserByEmail(c.Request().Context(), req.Email)

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, h.session(u))
	case errors.Is(err, database.ErrNotFound):
		return c.JSON(http.StatusUnauthorized, ResponseMsg{
			Message: "Unknown user",
		})
	default:
		h.log.Error().Err(err).Msg("failed to look up user")
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}
}

func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session(CurrentUser(c)))
}

// View reports the view the caller actually lands on. Features outside the
// caller's role silently fall back to the classifier.
func (h *AuthHandler) View(c echo.Context) error {
	requested := access.Feature(c.Param("feature"))
	if !requested.Valid() {
		return c.JSON(http.StatusNotFound, ResponseMsg{
			Message: "Unknown view",
		})
	}

	u := CurrentUser(c)
	resolved := h.resolver.Resolve(u.Role, requested)

	return c.JSON(http.StatusOK, &ViewResponse{
		Requested:  requested,
		Feature:    resolved,
		Label:      resolved.Label(),
		Redirected: resolved != requested,
	})
}

// Authenticate identifies the caller from the X-User-ID header.
func (h *AuthHandler) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(HeaderUserID)
		if id == "" {
			return c.JSON(http.StatusUnauthorized, ResponseMsg{
				Message: "Unauthorized",
			})
		}

		u, err := h.db.FindUserByID(c.Request().Context(), id)

		switch {
		case err == nil:
			c.Set(userKey, u)
			return next(c)
		case errors.Is(err, database.ErrNotFound):
			return c.JSON(http.StatusUnauthorized, ResponseMsg{
				Message: "Unauthorized",
			})
		default:
			h.log.Error().Err(err).Msg("failed to look up user")
			return c.JSON(http.StatusInternalServerError, ResponseMsg{
				Message: "Internal server error",
			})
		}
	}
}

// RequireFeature must run after Authenticate.
func (h *AuthHandler) RequireFeature(f access.Feature) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !h.resolver.CanAccess(CurrentUser(c).Role, f) {
				return c.JSON(http.StatusForbidden, ResponseMsg{
					Message: "Forbidden",
				})
			}

			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) access.User {
	u, _ := c.Get(userKey).(access.User)
	return u
}
