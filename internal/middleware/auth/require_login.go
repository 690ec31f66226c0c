package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// RequireLogin parses the Authorization: Bearer header, verifies the
// access token and puts userID and role into the echo context. Missing or
// invalid tokens yield 401.
func RequireLogin(jwtSecret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearer(c, jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			setUserContext(c, claims)
			return next(c)
		}
	}
}

func parseBearer(c echo.Context, secret []byte) (jwt.MapClaims, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("cannot parse claims")
	}
	if _, ok := claims["sub"].(float64); !ok {
		return nil, fmt.Errorf("token missing sub")
	}
	if _, ok := claims["role"].(string); !ok {
		return nil, fmt.Errorf("token missing role")
	}
	return claims, nil
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	c.Set("userID", uint(claims["sub"].(float64)))
	c.Set("role", claims["role"].(string))
}

// UserID returns the authenticated user's id from the context.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, fmt.Errorf("no user in context")
	}
	return id, nil
}

// Role returns the authenticated user's role from the context.
func Role(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}
