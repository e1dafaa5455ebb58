package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack-api/internal/domain"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthService) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(1).(*domain.User); u != nil {
		return args.String(0), u, args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}
func (m *mockAuthService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthService) SendVerificationCode(ctx context.Context, req domain.SendCodeRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthService) VerifyVerificationCode(ctx context.Context, req domain.VerifyCodeRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthService) SendForgotPasswordCode(ctx context.Context, req domain.SendCodeRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthService) VerifyForgotPasswordCode(ctx context.Context, req domain.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthService) ChangePassword(ctx context.Context, userID string, verified bool, req domain.ChangePasswordRequest) error {
	return m.Called(ctx, userID, verified, req).Error(0)
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == "Authorization" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return("tok123", &domain.User{UserID: "u1", Email: "ann@x.com"}, nil)

	h := NewAuthHandler(svc, 8*time.Hour, true)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ann@x.com","password":"password1"}`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	c := sessionCookie(t, rr)
	assert.Equal(t, "Bearer tok123", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, int((8 * time.Hour).Seconds()), c.MaxAge)

	// Dual delivery: token also appears in the body.
	assert.Contains(t, rr.Body.String(), `"token":"tok123"`)
	assert.Contains(t, rr.Body.String(), `"success":true`)
}

func TestLogin_DevCookieNotSecure(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return("tok123", &domain.User{UserID: "u1"}, nil)

	h := NewAuthHandler(svc, 8*time.Hour, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ann@x.com","password":"password1"}`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, sessionCookie(t, rr).Secure)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return("", nil, domain.ErrInvalidCredentials)

	h := NewAuthHandler(svc, 8*time.Hour, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ann@x.com","password":"wrong"}`))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, 8*time.Hour, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	c := sessionCookie(t, rr)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
}

func TestRegister_Created(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Register", mock.Anything, mock.Anything).
		Return(&domain.User{UserID: "u1", Email: "ann@x.com"}, nil)

	h := NewAuthHandler(svc, 8*time.Hour, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"firstName":"Ann","lastName":"Lee","phone":"1234567890","email":"ann@x.com","password":"password1","confirmPassword":"password1"}`))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestRegister_Conflict(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Register", mock.Anything, mock.Anything).
		Return(nil, domain.ErrConflict)

	h := NewAuthHandler(svc, 8*time.Hour, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"ann@x.com"}`))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRegister_MalformedBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, 8*time.Hour, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCSRFToken_CookieMatchesBody(t *testing.T) {
	h := NewCSRFHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	rr := httptest.NewRecorder()
	h.Token(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "csrf_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.False(t, cookie.HttpOnly)
	assert.Contains(t, rr.Body.String(), cookie.Value)
}
