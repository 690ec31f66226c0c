package handlers

import (
	"errors"
	"fmt"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/farmify/farmify-api/internal/hash"
	"github.com/farmify/farmify-api/internal/models"
	"github.com/farmify/farmify-api/internal/mykafka"
	"github.com/farmify/farmify-api/internal/service/token"
	"github.com/farmify/farmify-api/internal/upload"
	"github.com/farmify/farmify-api/internal/validation"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *token.Service
	Producer *mykafka.Producer
	Uploads  *upload.Store
	Validate *validatorv10.Validate
	BaseURL  string
}

// Signup registers a user. The request may be multipart with an optional
// profilePic file part, or plain JSON.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req validation.SignupRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return err
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	profilePic := ""
	if fh, err := c.FormFile("profilePic"); err == nil && h.Uploads != nil {
		name, err := h.Uploads.SaveMultipart(fh)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "could not save profile picture")
		}
		profilePic = fmt.Sprintf("%s/uploads/%s", h.BaseURL, name)
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
		ProfilePic:   profilePic,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	access, refresh, err := h.Tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message":       "user created successfully",
		"token":         access,
		"refresh_token": refresh,
		"user":          user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		return err
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	access, refresh, err := h.Tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "login successful",
		"access_token":  access,
		"refresh_token": refresh,
		"user":          user,
	})
}

// Refresh rotates a refresh token and returns a fresh pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh_token required")
	}

	access, refresh, err := h.Tokens.Rotate(req.RefreshToken)
	if err != nil {
		if errors.Is(err, token.ErrInvalidRefresh) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh_token required")
	}

	if err := h.Tokens.Revoke(req.RefreshToken); err != nil {
		if errors.Is(err, token.ErrInvalidRefresh) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
