package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasktrack-api/internal/domain"
	"github.com/tasktrack-api/internal/infrastructure/dynamo"
	"github.com/tasktrack-api/internal/infrastructure/mail"
	"github.com/tasktrack-api/internal/pkg/hashing"
	"github.com/tasktrack-api/internal/pkg/id"
	"github.com/tasktrack-api/internal/pkg/validate"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (token string, user *domain.User, err error)
	GetCurrentUser(ctx context.Context, userID string) (*domain.User, error)
	SendVerificationCode(ctx context.Context, req domain.SendCodeRequest) error
	VerifyVerificationCode(ctx context.Context, req domain.VerifyCodeRequest) error
	SendForgotPasswordCode(ctx context.Context, req domain.SendCodeRequest) error
	VerifyForgotPasswordCode(ctx context.Context, req domain.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID string, verified bool, req domain.ChangePasswordRequest) error
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type tokenSigner interface {
	Sign(userID, email string, verified bool, role string) (string, error)
}

type service struct {
	users      userStore
	mailer     mail.Mailer
	tokens     tokenSigner
	hmacSecret string
	codeExpiry time.Duration
	log        zerolog.Logger

	// now is swapped in tests to simulate code expiry.
	now func() time.Time
}

type ServiceDeps struct {
	UserRepo   userStore
	Mailer     mail.Mailer
	Tokens     tokenSigner
	HMACSecret string
	CodeExpiry time.Duration
	Logger     zerolog.Logger
}

func NewService(deps ServiceDeps) Service {
	codeExpiry := deps.CodeExpiry
	if codeExpiry == 0 {
		codeExpiry = 10 * time.Minute
	}
	return &service{
		users:      deps.UserRepo,
		mailer:     deps.Mailer,
		tokens:     deps.Tokens,
		hmacSecret: deps.HMACSecret,
		codeExpiry: codeExpiry,
		log:        deps.Logger,
		now:        time.Now,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	hash, err := hashing.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        normalizeEmail(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PasswordHash: hash,
		Verified:     false,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", u.UserID).Msg("user registered")
	return u, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error) {
	if err := validate.Struct(&req); err != nil {
		return "", nil, err
	}
	// The same error is returned for an unknown email and a wrong password so
	// responses don't reveal which accounts exist.
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("email or password incorrect: %w", domain.ErrInvalidCredentials)
		}
		return "", nil, err
	}
	if !hashing.VerifyPassword(req.Password, u.PasswordHash) {
		return "", nil, fmt.Errorf("email or password incorrect: %w", domain.ErrInvalidCredentials)
	}
	token, err := s.tokens.Sign(u.UserID, u.Email, u.Verified, u.Role)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *service) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) SendVerificationCode(ctx context.Context, req domain.SendCodeRequest) error {
	if err := validate.Struct(&req); err != nil {
		return err
	}
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}
	if u.Verified {
		return fmt.Errorf("account already verified: %w", domain.ErrAlreadyVerified)
	}
	code, err := randomCode()
	if err != nil {
		return err
	}
	// Persist only after the SMTP server accepts the message; a failed
	// dispatch must not leave a dangling code on the record.
	if err := s.mailer.SendEmail(u.Email, "Verification code", "Your verification code: "+code); err != nil {
		s.log.Error().Err(err).Str("user_id", u.UserID).Msg("verification code dispatch failed")
		return fmt.Errorf("could not send verification code: %w", domain.ErrEmailDelivery)
	}
	return s.users.Update(ctx, u.UserID, map[string]interface{}{
		dynamo.FieldVerificationCode:         hashing.HashCode(code, s.hmacSecret),
		dynamo.FieldVerificationCodeIssuedAt: s.now().Unix(),
	})
}

func (s *service) VerifyVerificationCode(ctx context.Context, req domain.VerifyCodeRequest) error {
	if err := validate.Struct(&req); err != nil {
		return err
	}
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}
	if u.Verified {
		return fmt.Errorf("account already verified: %w", domain.ErrAlreadyVerified)
	}
	if err := s.checkCode(req.ProvidedCode, u.VerificationCode, u.VerificationCodeIssuedAt); err != nil {
		return err
	}
	// Flag and code slot change together in a single update.
	return s.users.Update(ctx, u.UserID, map[string]interface{}{
		dynamo.FieldVerified:                 true,
		dynamo.FieldVerificationCode:         "",
		dynamo.FieldVerificationCodeIssuedAt: int64(0),
	})
}

func (s *service) SendForgotPasswordCode(ctx context.Context, req domain.SendCodeRequest) error {
	if err := validate.Struct(&req); err != nil {
		return err
	}
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}
	code, err := randomCode()
	if err != nil {
		return err
	}
	if err := s.mailer.SendEmail(u.Email, "Password reset code", "Your password reset code: "+code); err != nil {
		s.log.Error().Err(err).Str("user_id", u.UserID).Msg("reset code dispatch failed")
		return fmt.Errorf("could not send reset code: %w", domain.ErrEmailDelivery)
	}
	return s.users.Update(ctx, u.UserID, map[string]interface{}{
		dynamo.FieldForgotCode:         hashing.HashCode(code, s.hmacSecret),
		dynamo.FieldForgotCodeIssuedAt: s.now().Unix(),
	})
}

func (s *service) VerifyForgotPasswordCode(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := validate.Struct(&req); err != nil {
		return err
	}
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}
	if err := s.checkCode(req.ProvidedCode, u.ForgotPasswordCode, u.ForgotPasswordCodeIssuedAt); err != nil {
		return err
	}
	hash, err := hashing.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	// A completed reset proves mailbox ownership, so the account is marked
	// verified as part of the same update.
	return s.users.Update(ctx, u.UserID, map[string]interface{}{
		dynamo.FieldPasswordHash:       hash,
		dynamo.FieldVerified:           true,
		dynamo.FieldForgotCode:         "",
		dynamo.FieldForgotCodeIssuedAt: int64(0),
	})
}

func (s *service) ChangePassword(ctx context.Context, userID string, verified bool, req domain.ChangePasswordRequest) error {
	if !verified {
		return fmt.Errorf("verify your account first: %w", domain.ErrNotVerified)
	}
	if err := validate.Struct(&req); err != nil {
		return err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !hashing.VerifyPassword(req.OldPassword, u.PasswordHash) {
		return fmt.Errorf("old password incorrect: %w", domain.ErrInvalidCredentials)
	}
	hash, err := hashing.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, userID, map[string]interface{}{
		dynamo.FieldPasswordHash: hash,
	})
}

// checkCode validates a provided one-time code against a stored slot.
// Expiry is evaluated here, at verification time, by timestamp comparison.
func (s *service) checkCode(provided, storedHash string, issuedAt int64) error {
	if storedHash == "" || issuedAt == 0 {
		return fmt.Errorf("no code was issued: %w", domain.ErrNoCode)
	}
	if s.now().Unix()-issuedAt > int64(s.codeExpiry.Seconds()) {
		return fmt.Errorf("code expired: %w", domain.ErrCodeExpired)
	}
	if hashing.HashCode(provided, s.hmacSecret) != storedHash {
		return fmt.Errorf("code does not match: %w", domain.ErrInvalidCode)
	}
	return nil
}

// randomCode returns a uniform 6-digit code in [100000, 999999].
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
