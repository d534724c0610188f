package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/domain"
)

// failure names the messages a handler answers with for each error kind.
type failure struct {
	event    string
	entity   string
	internal string
}

func (f failure) status(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidReference):
		return http.StatusBadRequest, "Invalid " + strings.ToLower(f.entity) + " ID"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, f.entity + " not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, f.entity + " already exists"
	}
	return http.StatusInternalServerError, f.internal
}

// respond logs err under the handler's event name and converts it into the
// HTTP error rendered by echo.
func (f failure) respond(l *slog.Logger, err error) error {
	code, msg := f.status(err)
	if code >= http.StatusInternalServerError {
		l.Error(f.event, "status", code, "reason", msg, "error", err)
	} else {
		l.Warn(f.event, "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}

func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(domain.ErrValidation.Error())+2:]
	}
	if msg == "" {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
