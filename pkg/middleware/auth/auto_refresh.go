package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/m2gi/ecom/pkg/authclient"
	jwthelp "github.com/m2gi/ecom/pkg/jwt"
	"github.com/m2gi/ecom/pkg/tokens"
)

const (
	LoginKey = "login"
	RoleKey  = "role"
)

type AutoRefreshMiddleware struct {
	JWTSecret  []byte
	AuthClient *authclient.Client
}

func NewAutoRefreshMiddleware(secret []byte, authClient *authclient.Client) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret:  secret,
		AuthClient: authClient,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if !claims.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, fromCookie := accessToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err == nil {
			return m.admit(c, next, claims, validator)
		}

		// Bearer tokens belong to API clients that refresh on their own.
		if !errors.Is(err, jwt.ErrTokenExpired) || !fromCookie || m.AuthClient == nil {
			if fromCookie {
				clearAuthCookies(c)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie(jwthelp.RefreshCookie)
		if rErr != nil || refreshCookie.Value == "" {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}

		refreshResp, refErr := m.AuthClient.RefreshTokens(c.Request().Context(), refreshCookie.Value, raw)
		if refErr != nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed: "+refErr.Error())
		}

		c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, refreshResp.AccessToken, "/", time.Unix(refreshResp.AccessExp, 0)))
		c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, refreshResp.RefreshToken, "/", time.Unix(refreshResp.RefreshExp, 0)))

		newClaims, pErr := tokens.AccessClaimsFromToken(refreshResp.AccessToken, m.JWTSecret)
		if pErr != nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
		}

		return m.admit(c, next, newClaims, validator)
	}
}

func (m *AutoRefreshMiddleware) admit(c echo.Context, next echo.HandlerFunc, claims *tokens.AccessClaims, validator ValidatorFunc) error {
	if claims.Subject == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
	}
	if validator != nil {
		if err := validator(claims); err != nil {
			return err
		}
	}
	setUserContext(c, claims)
	return next(c)
}

// accessToken prefers the auth cookie and falls back to an Authorization bearer header.
func accessToken(c echo.Context) (string, bool) {
	if ck, err := c.Cookie(jwthelp.AccessCookie); err == nil && ck.Value != "" {
		return ck.Value, true
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:]), false
	}
	return "", false
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(LoginKey, claims.Subject)
	c.Set(RoleKey, claims.Role)
}

// Login returns the authenticated caller set by RequireAuth or RequireAdmin.
func Login(c echo.Context) (string, bool) {
	s, ok := c.Get(LoginKey).(string)
	return s, ok && s != ""
}
