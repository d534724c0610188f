package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := bind(c, l, "signup_failed", &req); err != nil {
		return err
	}

	user, err := h.Svc.Signup(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			l.Warn("signup_failed", "status", http.StatusBadRequest, "reason", "email already exists")
			return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Email already exists"})
		}
		return failure{event: "signup_failed", entity: "User", internal: "Failed to create user"}.respond(l, err)
	}

	l.Info("signup_success", "user_id", user.ID.String())
	return c.JSON(http.StatusOK, transport.MessageResponse{Success: true, Message: "User created successfully", ID: user.ID.String()})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, l, "login_failed", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return failure{event: "login_failed", entity: "User", internal: "Failed to log in"}.respond(l, err)
	}

	l.Info("login_success", "user_id", res.User.ID.String())
	return c.JSON(http.StatusOK, transport.AuthResponse{Token: res.Token, User: transport.NewUserResponse(res.User)})
}
