package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmify/farmify-api/internal/models"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

var ErrInvalidRefresh = errors.New("invalid refresh token")

type Service struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

// IssuePair signs a fresh access/refresh token pair and persists the
// refresh token so it can be revoked.
func (s *Service) IssuePair(userID uint, role string) (access, refresh string, err error) {
	access, err = s.SignAccessToken(userID, role)
	if err != nil {
		return "", "", err
	}

	refresh, err = s.signRefreshToken(userID, role)
	if err != nil {
		return "", "", err
	}

	if err := s.saveRefreshToken(s.DB, refresh, userID); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *Service) SignAccessToken(userID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.JWTSecret)
}

func (s *Service) signRefreshToken(userID uint, role string) (string, error) {
	// jti keeps tokens unique even when two are signed in the same second.
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(refreshTTL).Unix(),
		"typ":  "refresh",
		"jti":  uuid.NewString(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.RefreshSecret)
}

func (s *Service) saveRefreshToken(db *gorm.DB, raw string, userID uint) error {
	rec := models.RefreshToken{
		Token:     raw,
		UserID:    userID,
		ExpiresAt: time.Now().Add(refreshTTL).Unix(),
		Revoked:   false,
	}
	if err := db.Create(&rec).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Rotate validates a refresh token and swaps it for a new pair. The old
// token is revoked and the new one saved in one transaction, so a failure
// mid-rotation never strands the caller without a valid refresh token.
func (s *Service) Rotate(raw string) (access, refresh string, err error) {
	claims, err := s.validateRefresh(raw)
	if err != nil {
		return "", "", err
	}

	userID := uint(claims["sub"].(float64))
	role, _ := claims["role"].(string)

	access, err = s.SignAccessToken(userID, role)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.signRefreshToken(userID, role)
	if err != nil {
		return "", "", err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("token = ? AND revoked = ?", raw, false).
			Update("revoked", true)
		if res.Error != nil {
			return fmt.Errorf("db error: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidRefresh
		}
		return s.saveRefreshToken(tx, refresh, userID)
	})
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Revoke marks a stored refresh token as revoked.
func (s *Service) Revoke(raw string) error {
	res := s.DB.Model(&models.RefreshToken{}).
		Where("token = ?", raw).
		Update("revoked", true)
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidRefresh
	}
	return nil
}

func (s *Service) validateRefresh(raw string) (jwt.MapClaims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.RefreshSecret, nil
	})
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefresh, err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidRefresh
	}
	if typ, ok := claims["typ"].(string); !ok || typ != "refresh" {
		return nil, fmt.Errorf("%w: not a refresh token", ErrInvalidRefresh)
	}
	if _, ok := claims["sub"].(float64); !ok {
		return nil, ErrInvalidRefresh
	}

	var stored models.RefreshToken
	if err := s.DB.Where("token = ?", raw).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stored.Revoked {
		return nil, fmt.Errorf("%w: revoked", ErrInvalidRefresh)
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, fmt.Errorf("%w: expired", ErrInvalidRefresh)
	}

	return claims, nil
}
