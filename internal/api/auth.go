package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// API roles, in increasing privilege order.
const (
	roleViewer = "viewer"
	roleAdmin  = "admin"
)

// LoginRequest carries API credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the login result.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	for _, u := range s.cfg.Auth.Users {
		if u.Username == req.Username && u.Password == req.Password {
			token, err := s.issueToken(u.Username, u.Role)
			if err != nil {
				return err
			}
			return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
		}
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password")
}

func (s *Server) issueToken(username, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"exp":  time.Now().Add(s.cfg.Auth.TokenTTL.Duration()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Auth.Secret))
}

func (s *Server) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Auth.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// requireRole returns middleware enforcing a bearer token whose role grants
// at least the given role. Admins pass viewer checks.
func (s *Server) requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			claims, err := s.parseToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			got, _ := claims["role"].(string)
			if role == roleAdmin && got != roleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			if got != roleAdmin && got != roleViewer {
				return echo.NewHTTPError(http.StatusForbidden, "unknown role")
			}
			c.Set("user", claims)
			return next(c)
		}
	}
}
