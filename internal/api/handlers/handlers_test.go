package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	token string
	user  models.User
	err   error

	gotPassword string
}

func (s *stubAuthService) Register(_ context.Context, _, _, password string) (string, error) {
	s.gotPassword = password
	return s.token, s.err
}

func (s *stubAuthService) Login(_ context.Context, _, password string) (string, error) {
	s.gotPassword = password
	return s.token, s.err
}

func (s *stubAuthService) CurrentUser(context.Context, string) (models.User, error) {
	return s.user, s.err
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegister_InternalErrorIsOpaque(t *testing.T) {
	svc := &stubAuthService{err: errors.New("lookup user by email: db error: connection refused")}
	rec := post(NewUserHandler(svc).Register, `{"name":"Ann","email":"ann@x.com","password":"secret1"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", strings.TrimSpace(rec.Body.String()))
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestLogin_InternalErrorIsOpaque(t *testing.T) {
	svc := &stubAuthService{err: errors.New("compare password: bad hash")}
	rec := post(NewAuthHandler(svc).Login, `{"email":"ann@x.com","password":"secret1"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", strings.TrimSpace(rec.Body.String()))
}

func TestLogin_PassesPasswordThrough(t *testing.T) {
	svc := &stubAuthService{token: "tok"}
	rec := post(NewAuthHandler(svc).Login, `{"email":"ann@x.com","password":"p4ss"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"tok"}`, rec.Body.String())
	assert.Equal(t, "p4ss", svc.gotPassword)
}

func TestGetMe_MissingIdentity(t *testing.T) {
	rec := httptest.NewRecorder()
	NewAuthHandler(&stubAuthService{}).GetMe(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetMe_OmitsPasswordHash(t *testing.T) {
	svc := &stubAuthService{user: models.User{ID: "u-1", Name: "Ann", PasswordHash: "$2a$secret"}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "u-1"))
	rec := httptest.NewRecorder()

	NewAuthHandler(svc).GetMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "$2a$secret")
}

func TestPayloadValidation(t *testing.T) {
	pw := "x"
	assert.NoError(t, AuthPayload{Email: "ann@x.com", Password: &pw}.Validate())
	assert.NoError(t, RegisterPayload{Name: "Ann", Email: "ann@x.com", Password: "secret1"}.Validate())

	errs, ok := fieldErrors(RegisterPayload{Email: "ann@x.com", Password: "secret1"}.Validate(), "name", "email", "password")
	require.True(t, ok)
	assert.Equal(t, []FieldError{{Msg: msgNameRequired, Param: "name"}}, errs)

	_, ok = fieldErrors(errors.New("not a validation error"), "name")
	assert.False(t, ok)
}
