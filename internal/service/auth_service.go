package service

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/creator_match_api/internal/config"
	"github.com/GTDGit/creator_match_api/internal/utils"
)

// AuthService authenticates the single dashboard account.
type AuthService struct {
	cfg config.AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{cfg: cfg}
}

// Enabled reports whether login is configured.
func (s *AuthService) Enabled() bool {
	return s.cfg.Enabled()
}

// Login checks the credentials and returns a signed token and its expiry.
func (s *AuthService) Login(username, password string) (string, time.Time, error) {
	if !s.cfg.Enabled() {
		return "", time.Time{}, utils.ErrAuthDisabled
	}

	if username != s.cfg.Username {
		log.Warn().Str("username", username).Msg("Login with unknown username")
		return "", time.Time{}, utils.ErrInvalidCredentials
	}

	// Verify password using bcrypt
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("username", username).Msg("Password verification failed")
		return "", time.Time{}, utils.ErrInvalidCredentials
	}

	token, expires, err := utils.GenerateJWT(username, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return "", time.Time{}, err
	}

	log.Info().Str("username", username).Msg("Login successful")
	return token, expires, nil
}
