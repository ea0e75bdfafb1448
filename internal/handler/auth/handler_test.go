package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type stubAuth struct {
	login    *model.LoginRequest
	register *model.RegisterRequest
	token    string
}

func (s *stubAuth) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	s.register = req
	return &model.User{Base: model.Base{ID: uuid.New()}, Email: req.Email, Name: req.Name}, nil
}

func (s *stubAuth) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	s.login = req
	if req.Password != "correct-horse" {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}
	return &model.TokenResponse{AccessToken: "jwt", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubAuth) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	s.token = token
	return &model.User{Base: model.Base{ID: uuid.New()}, EmailVerified: true}, nil
}

func perform(svc *stubAuth, method, path string, body interface{}) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDispatch(t *testing.T) {
	t.Run("login", func(t *testing.T) {
		svc := &stubAuth{}
		w := perform(svc, http.MethodPost, "/api/auth", gin.H{
			"action":   "login",
			"email":    "nurse@example.com",
			"password": "correct-horse",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.login)
		assert.Equal(t, "nurse@example.com", svc.login.Email)
		assert.Contains(t, w.Body.String(), `"token_type":"Bearer"`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		w := perform(&stubAuth{}, http.MethodPost, "/api/auth", gin.H{
			"action":   "login",
			"email":    "nurse@example.com",
			"password": "wrong-horse",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid credentials")
	})

	t.Run("register validates the selected fields", func(t *testing.T) {
		svc := &stubAuth{}
		w := perform(svc, http.MethodPost, "/api/auth", gin.H{
			"action":   "register",
			"email":    "not-an-email",
			"password": "long-enough-password",
			"name":     "Sam",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.register)
	})

	t.Run("register", func(t *testing.T) {
		svc := &stubAuth{}
		w := perform(svc, http.MethodPost, "/api/auth", gin.H{
			"action":   "register",
			"email":    "sam@example.com",
			"password": "long-enough-password",
			"name":     "Sam",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, svc.register)
		assert.Equal(t, "Sam", svc.register.Name)
	})

	t.Run("register cannot claim admin", func(t *testing.T) {
		svc := &stubAuth{}
		w := perform(svc, http.MethodPost, "/api/auth", gin.H{
			"action":   "register",
			"email":    "sam@example.com",
			"password": "long-enough-password",
			"name":     "Sam",
			"role":     "admin",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.register)

		w = perform(svc, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "sam@example.com",
			"password": "long-enough-password",
			"name":     "Sam",
			"role":     "admin",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.register)
	})

	t.Run("verify email", func(t *testing.T) {
		svc := &stubAuth{}
		w := perform(svc, http.MethodPost, "/api/auth", gin.H{"action": "verify-email", "token": "tok"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tok", svc.token)
	})

	t.Run("unknown action", func(t *testing.T) {
		w := perform(&stubAuth{}, http.MethodPost, "/api/auth", gin.H{"action": "logout"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVerifyEmail_QueryToken(t *testing.T) {
	svc := &stubAuth{}
	w := perform(svc, http.MethodGet, "/api/auth/verify-email?token=abc", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", svc.token)

	w = perform(svc, http.MethodGet, "/api/auth/verify-email", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "verification token is required")
}
