package authmw

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/pkg/tokens"
)

const (
	UserIDKey   = "user_id"
	UserTypeKey = "user_type"
)

type Verifier interface {
	Verify(token string) (*tokens.AccessClaims, error)
}

type BearerMiddleware struct {
	Tokens Verifier
}

func NewBearerMiddleware(v Verifier) *BearerMiddleware {
	return &BearerMiddleware{Tokens: v}
}

// RequireAuth accepts "Authorization: Bearer <token>" and stores the subject
// and user type in the echo context.
func (m *BearerMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization")
		}

		claims, err := m.Tokens.Verify(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		setUserContext(c, claims)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(UserIDKey, claims.Subject)
	c.Set(UserTypeKey, claims.UserType)
}

// UserID returns the authenticated subject, or "" outside RequireAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}
