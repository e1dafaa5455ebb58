package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack-api/internal/domain"
	"github.com/tasktrack-api/internal/infrastructure/dynamo"
	"github.com/tasktrack-api/internal/pkg/hashing"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockTokenSigner struct{ mock.Mock }

func (m *mockTokenSigner) Sign(userID, email string, verified bool, role string) (string, error) {
	args := m.Called(userID, email, verified, role)
	return args.String(0), args.Error(1)
}

// --- builder ---

const testHMACSecret = "test-hmac-secret"

func newTestService(us *mockUserStore, ml *mockMailer, ts *mockTokenSigner) *service {
	svc := NewService(ServiceDeps{
		UserRepo:   us,
		Mailer:     ml,
		Tokens:     ts,
		HMACSecret: testHMACSecret,
		CodeExpiry: 10 * time.Minute,
		Logger:     zerolog.Nop(),
	})
	return svc.(*service)
}

func registerReq() domain.RegisterRequest {
	return domain.RegisterRequest{
		FirstName:       "Ann",
		LastName:        "Lee",
		Phone:           "1234567890",
		Email:           "ann@x.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	}
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := hashing.HashPassword(plain)
	require.NoError(t, err)
	return h
}

// --- Register ---

func TestRegister_PasswordMismatch(t *testing.T) {
	svc := newTestService(&mockUserStore{}, nil, nil)
	req := registerReq()
	req.ConfirmPassword = "different1"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestService(&mockUserStore{}, nil, nil)
	req := registerReq()
	req.Password = "short"
	req.ConfirmPassword = "short"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(fmt.Errorf("email already registered: %w", domain.ErrConflict))

	svc := newTestService(us, nil, nil)
	_, err := svc.Register(context.Background(), registerReq())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRegister_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	var created *domain.User
	us.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
		Return(nil)

	svc := newTestService(us, nil, nil)
	req := registerReq()
	req.Email = "Ann@X.com"
	u, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "ann@x.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.False(t, u.Verified)
	assert.NotEqual(t, "password1", created.PasswordHash)
	assert.True(t, hashing.VerifyPassword("password1", created.PasswordHash))
	us.AssertExpectations(t)
}

// --- Login ---

func TestLogin_UnknownEmailAndWrongPassword_Indistinguishable(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, domain.ErrNotFound)
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{
		UserID:       "u1",
		Email:        "ann@x.com",
		PasswordHash: mustHash(t, "password1"),
	}, nil)

	svc := newTestService(us, nil, nil)

	_, _, errUnknown := svc.Login(context.Background(), domain.LoginRequest{Email: "ghost@x.com", Password: "password1"})
	_, _, errWrongPw := svc.Login(context.Background(), domain.LoginRequest{Email: "ann@x.com", Password: "wrongpass1"})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.True(t, errors.Is(errUnknown, domain.ErrInvalidCredentials))
	assert.True(t, errors.Is(errWrongPw, domain.ErrInvalidCredentials))
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLogin_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	ts := &mockTokenSigner{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{
		UserID:       "u1",
		Email:        "ann@x.com",
		PasswordHash: mustHash(t, "password1"),
		Role:         domain.RoleUser,
	}, nil)
	ts.On("Sign", "u1", "ann@x.com", false, domain.RoleUser).Return("signed-token", nil)

	svc := newTestService(us, nil, ts)
	token, u, err := svc.Login(context.Background(), domain.LoginRequest{Email: "Ann@X.com", Password: "password1"})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	assert.Equal(t, "u1", u.UserID)
	ts.AssertExpectations(t)
}

// --- SendVerificationCode ---

func TestSendVerificationCode_UserNotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, nil, nil)
	err := svc.SendVerificationCode(context.Background(), domain.SendCodeRequest{Email: "ghost@x.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSendVerificationCode_AlreadyVerified(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{UserID: "u1", Verified: true}, nil)

	svc := newTestService(us, nil, nil)
	err := svc.SendVerificationCode(context.Background(), domain.SendCodeRequest{Email: "ann@x.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyVerified))
}

func TestSendVerificationCode_MailFailure_NoStateMutation(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{UserID: "u1", Email: "ann@x.com"}, nil)
	ml.On("SendEmail", "ann@x.com", mock.Anything, mock.Anything).Return(errors.New("smtp refused"))

	svc := newTestService(us, ml, nil)
	err := svc.SendVerificationCode(context.Background(), domain.SendCodeRequest{Email: "ann@x.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmailDelivery))
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendVerificationCode_StoresHashedCodeWithTimestamp(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{UserID: "u1", Email: "ann@x.com"}, nil)

	var sentBody string
	ml.On("SendEmail", "ann@x.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sentBody = args.String(2) }).
		Return(nil)

	var updates map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)

	svc := newTestService(us, ml, nil)
	require.NoError(t, svc.SendVerificationCode(context.Background(), domain.SendCodeRequest{Email: "ann@x.com"}))

	require.NotNil(t, updates)
	storedHash, ok := updates[dynamo.FieldVerificationCode].(string)
	require.True(t, ok)
	assert.NotContains(t, sentBody, storedHash)
	issuedAt, ok := updates[dynamo.FieldVerificationCodeIssuedAt].(int64)
	require.True(t, ok)
	assert.InDelta(t, time.Now().Unix(), issuedAt, 5)
}

// --- VerifyVerificationCode ---

func verifyUser(t *testing.T, code string, issuedAt time.Time) *domain.User {
	t.Helper()
	return &domain.User{
		UserID:                   "u1",
		Email:                    "ann@x.com",
		VerificationCode:         hashing.HashCode(code, testHMACSecret),
		VerificationCodeIssuedAt: issuedAt.Unix(),
	}
}

func TestVerifyVerificationCode_NoCodeIssued(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{UserID: "u1"}, nil)

	svc := newTestService(us, nil, nil)
	err := svc.VerifyVerificationCode(context.Background(), domain.VerifyCodeRequest{Email: "ann@x.com", ProvidedCode: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoCode))
}

func TestVerifyVerificationCode_Expired(t *testing.T) {
	us := &mockUserStore{}
	issued := time.Now()
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(verifyUser(t, "123456", issued), nil)

	svc := newTestService(us, nil, nil)
	// Simulated clock: eleven minutes after issuance.
	svc.now = func() time.Time { return issued.Add(11 * time.Minute) }

	err := svc.VerifyVerificationCode(context.Background(), domain.VerifyCodeRequest{Email: "ann@x.com", ProvidedCode: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeExpired))
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyVerificationCode_WithinWindow(t *testing.T) {
	us := &mockUserStore{}
	issued := time.Now()
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(verifyUser(t, "123456", issued), nil)

	var updates map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)

	svc := newTestService(us, nil, nil)
	svc.now = func() time.Time { return issued.Add(9 * time.Minute) }

	require.NoError(t, svc.VerifyVerificationCode(context.Background(), domain.VerifyCodeRequest{Email: "ann@x.com", ProvidedCode: "123456"}))

	require.NotNil(t, updates)
	assert.Equal(t, true, updates[dynamo.FieldVerified])
	assert.Equal(t, "", updates[dynamo.FieldVerificationCode])
	assert.Equal(t, int64(0), updates[dynamo.FieldVerificationCodeIssuedAt])
}

func TestVerifyVerificationCode_WrongCode(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(verifyUser(t, "123456", time.Now()), nil)

	svc := newTestService(us, nil, nil)
	err := svc.VerifyVerificationCode(context.Background(), domain.VerifyCodeRequest{Email: "ann@x.com", ProvidedCode: "654321"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
}

func TestVerifyVerificationCode_SecondUseFailsWithNoCode(t *testing.T) {
	// After a successful verification both slot fields are cleared, so the
	// same code presented again finds an empty slot.
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{
		UserID:                   "u1",
		VerificationCode:         "",
		VerificationCodeIssuedAt: 0,
	}, nil)

	svc := newTestService(us, nil, nil)
	err := svc.VerifyVerificationCode(context.Background(), domain.VerifyCodeRequest{Email: "ann@x.com", ProvidedCode: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoCode))
}

func TestVerifyVerificationCode_AlreadyVerified(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{UserID: "u1", Verified: true}, nil)

	svc := newTestService(us, nil, nil)
	err := svc.VerifyVerificationCode(context.Background(), domain.VerifyCodeRequest{Email: "ann@x.com", ProvidedCode: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyVerified))
}

// --- Forgot-password flow ---

func TestVerifyForgotPasswordCode_ResetsPasswordAndMarksVerified(t *testing.T) {
	us := &mockUserStore{}
	issued := time.Now()
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{
		UserID:                     "u1",
		Email:                      "ann@x.com",
		ForgotPasswordCode:         hashing.HashCode("654321", testHMACSecret),
		ForgotPasswordCodeIssuedAt: issued.Unix(),
	}, nil)

	var updates map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)

	svc := newTestService(us, nil, nil)
	err := svc.VerifyForgotPasswordCode(context.Background(), domain.ResetPasswordRequest{
		Email:           "ann@x.com",
		ProvidedCode:    "654321",
		NewPassword:     "newpassword1",
		ConfirmPassword: "newpassword1",
	})

	require.NoError(t, err)
	require.NotNil(t, updates)
	assert.Equal(t, true, updates[dynamo.FieldVerified])
	assert.Equal(t, "", updates[dynamo.FieldForgotCode])
	newHash, ok := updates[dynamo.FieldPasswordHash].(string)
	require.True(t, ok)
	assert.True(t, hashing.VerifyPassword("newpassword1", newHash))
	assert.False(t, hashing.VerifyPassword("password1", newHash))
}

func TestVerifyForgotPasswordCode_MismatchedConfirm(t *testing.T) {
	svc := newTestService(&mockUserStore{}, nil, nil)
	err := svc.VerifyForgotPasswordCode(context.Background(), domain.ResetPasswordRequest{
		Email:           "ann@x.com",
		ProvidedCode:    "654321",
		NewPassword:     "newpassword1",
		ConfirmPassword: "different1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSendForgotPasswordCode_WorksForUnverifiedAccount(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(&domain.User{UserID: "u1", Email: "ann@x.com", Verified: false}, nil)
	ml.On("SendEmail", "ann@x.com", mock.Anything, mock.Anything).Return(nil)
	us.On("Update", mock.Anything, "u1", mock.Anything).Return(nil)

	svc := newTestService(us, ml, nil)
	require.NoError(t, svc.SendForgotPasswordCode(context.Background(), domain.SendCodeRequest{Email: "ann@x.com"}))
	ml.AssertExpectations(t)
}

// --- ChangePassword ---

func TestChangePassword_RequiresVerifiedAccount(t *testing.T) {
	svc := newTestService(&mockUserStore{}, nil, nil)
	err := svc.ChangePassword(context.Background(), "u1", false, domain.ChangePasswordRequest{
		OldPassword:     "password1",
		NewPassword:     "newpassword1",
		ConfirmPassword: "newpassword1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotVerified))
}

func TestChangePassword_WrongOldPassword_HashUnchanged(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{
		UserID:       "u1",
		PasswordHash: mustHash(t, "password1"),
	}, nil)

	svc := newTestService(us, nil, nil)
	err := svc.ChangePassword(context.Background(), "u1", true, domain.ChangePasswordRequest{
		OldPassword:     "wrongpass1",
		NewPassword:     "newpassword1",
		ConfirmPassword: "newpassword1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	us.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{
		UserID:       "u1",
		PasswordHash: mustHash(t, "password1"),
	}, nil)

	var updates map[string]interface{}
	us.On("Update", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { updates = args.Get(2).(map[string]interface{}) }).
		Return(nil)

	svc := newTestService(us, nil, nil)
	err := svc.ChangePassword(context.Background(), "u1", true, domain.ChangePasswordRequest{
		OldPassword:     "password1",
		NewPassword:     "newpassword1",
		ConfirmPassword: "newpassword1",
	})

	require.NoError(t, err)
	require.NotNil(t, updates)
	newHash, ok := updates[dynamo.FieldPasswordHash].(string)
	require.True(t, ok)
	assert.True(t, hashing.VerifyPassword("newpassword1", newHash))
}

// --- GetCurrentUser ---

func TestGetCurrentUser_DeletedAccount(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, nil, nil)
	_, err := svc.GetCurrentUser(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
