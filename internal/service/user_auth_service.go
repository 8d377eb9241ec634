package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/sabzihub/backend/internal/cache"
	"github.com/sabzihub/backend/internal/config"
	"github.com/sabzihub/backend/internal/constants"
	"github.com/sabzihub/backend/internal/logger"
	"github.com/sabzihub/backend/internal/models"
	"github.com/sabzihub/backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

var phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// UserAuthService signs customers in with phone OTPs.
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService creates a user auth service.
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// UserJWTClaims is the customer token payload.
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Phone  string `json:"phone"`
	jwt.RegisteredClaims
}

// GenerateUserJWT issues a customer token.
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.UserJWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 720
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID: user.ID,
		Phone:  user.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT validates and decodes a customer token.
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidCredentials
}

// RequestOTP generates and stores a login code for the phone. The code
// goes out through the SMS provider; it is never returned to the caller.
func (s *UserAuthService) RequestOTP(ctx context.Context, phone string) error {
	phone = normalizePhone(phone)
	if !phonePattern.MatchString(phone) {
		return ErrPhoneInvalid
	}

	interval := time.Duration(s.cfg.OTP.SendIntervalSeconds) * time.Second
	if existing, hit, err := cache.GetOTP(ctx, constants.OTPPurposeLogin, phone); err == nil && hit {
		issuedAt := time.Unix(existing.CreatedAt, 0)
		if interval > 0 && time.Since(issuedAt) < interval {
			return ErrOTPTooFrequent
		}
	}

	code, err := randomNumericCode(constants.OTPLength)
	if err != nil {
		return err
	}
	ttl := time.Duration(s.cfg.OTP.ExpireSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if err := cache.SetOTP(ctx, constants.OTPPurposeLogin, &cache.OTPState{
		Phone:     phone,
		Code:      code,
		CreatedAt: time.Now().Unix(),
	}, ttl); err != nil {
		return err
	}

	// SMS delivery is fire-and-forget from the API's point of view; the
	// code in the log is for local development only.
	logger.Infow("otp_issued", "phone", phone)
	logger.Debugw("otp_code_debug", "phone", phone, "code", code)
	return nil
}

// VerifyOTP checks a login code, creating the user on first login, and
// issues a token.
func (s *UserAuthService) VerifyOTP(ctx context.Context, phone, code string) (*models.User, string, time.Time, error) {
	phone = normalizePhone(phone)
	if !phonePattern.MatchString(phone) {
		return nil, "", time.Time{}, ErrPhoneInvalid
	}

	state, hit, err := cache.GetOTP(ctx, constants.OTPPurposeLogin, phone)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !hit {
		return nil, "", time.Time{}, ErrOTPInvalid
	}
	if state.Tries >= constants.OTPMaxVerifyTries {
		_ = cache.DelOTP(ctx, constants.OTPPurposeLogin, phone)
		return nil, "", time.Time{}, ErrOTPInvalid
	}
	if subtle.ConstantTimeCompare([]byte(state.Code), []byte(strings.TrimSpace(code))) != 1 {
		state.Tries++
		ttl := time.Duration(s.cfg.OTP.ExpireSeconds) * time.Second
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		_ = cache.SetOTP(ctx, constants.OTPPurposeLogin, state, ttl)
		return nil, "", time.Time{}, ErrOTPInvalid
	}
	if err := cache.DelOTP(ctx, constants.OTPPurposeLogin, phone); err != nil {
		logger.Warnw("otp_delete_failed", "phone", phone, "error", err)
	}

	user, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		user = &models.User{Phone: phone, Status: constants.UserStatusActive}
		if err := s.userRepo.Create(user); err != nil {
			return nil, "", time.Time{}, err
		}
		logger.Infow("user_registered", "user_id", user.ID)
	}
	if user.Status == constants.UserStatusBlocked {
		return nil, "", time.Time{}, ErrUserBlocked
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Warnw("user_last_login_update_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	logger.Infow("user_login", "user_id", user.ID)
	return user, token, expiresAt, nil
}

// GetProfile fetches the signed-in user.
func (s *UserAuthService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile sets the user's display name.
func (s *UserAuthService) UpdateProfile(userID uint, name string) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(name)
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+91")
	return strings.TrimSpace(phone)
}

func randomNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String(), nil
}
