package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/validator"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccountUsecase implements usecase.AccountUsecase with func fields so
// each test overrides only what it needs.
type fakeAccountUsecase struct {
	register             func(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error)
	login                func(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error)
	verifyEmail          func(ctx context.Context, input usecase.VerifyEmailInput) (*usecase.VerifyEmailOutput, error)
	listAccounts         func(ctx context.Context, input usecase.ListAccountsInput) ([]*entity.PublicAccount, error)
	requestPasswordReset func(ctx context.Context, input usecase.RequestPasswordResetInput) error
	completeReset        func(ctx context.Context, input usecase.CompletePasswordResetInput) error
	deleteAccount        func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeAccountUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	return f.register(ctx, input)
}

func (f *fakeAccountUsecase) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	return f.login(ctx, input)
}

func (f *fakeAccountUsecase) VerifyEmail(ctx context.Context, input usecase.VerifyEmailInput) (*usecase.VerifyEmailOutput, error) {
	return f.verifyEmail(ctx, input)
}

func (f *fakeAccountUsecase) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*entity.PublicAccount, error) {
	return f.listAccounts(ctx, input)
}

func (f *fakeAccountUsecase) RequestPasswordReset(ctx context.Context, input usecase.RequestPasswordResetInput) error {
	return f.requestPasswordReset(ctx, input)
}

func (f *fakeAccountUsecase) CompletePasswordReset(ctx context.Context, input usecase.CompletePasswordResetInput) error {
	return f.completeReset(ctx, input)
}

func (f *fakeAccountUsecase) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return f.deleteAccount(ctx, id)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	return e
}

func newTestHandler(uc usecase.AccountUsecase) *AccountHandler {
	return NewAccountHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAccountHandler_Register_Created(t *testing.T) {
	accountID := uuid.New()
	uc := &fakeAccountUsecase{
		register: func(_ context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
			assert.Equal(t, "jo.do@example.com", input.Email)

			return &usecase.RegisterOutput{Account: &entity.PublicAccount{
				ID:    accountID,
				Email: input.Email,
			}}, nil
		},
	}

	e := newTestEcho()
	body := `{"email":"jo.do@example.com","password":"pw","firstname":"Jo","lastname":"Do"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, newTestHandler(uc).Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// The payload never includes a password hash field.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAccountHandler_Register_DuplicateAnswers400(t *testing.T) {
	uc := &fakeAccountUsecase{
		register: func(_ context.Context, _ usecase.RegisterInput) (*usecase.RegisterOutput, error) {
			return nil, domainerrors.ErrAccountExists
		},
	}

	e := newTestEcho()
	handler := newTestHandler(uc)
	e.POST("/accounts", handler.Register)

	req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{"email":"jo.do@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountHandler_Login_BadCredentialsAnswer404(t *testing.T) {
	uc := &fakeAccountUsecase{
		login: func(_ context.Context, _ usecase.LoginInput) (*usecase.LoginOutput, error) {
			return nil, domainerrors.ErrInvalidCredentials
		},
	}

	e := newTestEcho()
	e.POST("/accounts/login", newTestHandler(uc).Login)

	req := httptest.NewRequest(http.MethodPost, "/accounts/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountHandler_Login_ReturnsToken(t *testing.T) {
	uc := &fakeAccountUsecase{
		login: func(_ context.Context, _ usecase.LoginInput) (*usecase.LoginOutput, error) {
			return &usecase.LoginOutput{
				Message: "login successful",
				Token:   "session-token",
				Account: &entity.PublicAccount{ID: uuid.New()},
			}, nil
		},
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/accounts/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, newTestHandler(uc).Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "session-token")
}

func TestAccountHandler_VerifyEmail_InvalidTokenAnswers422(t *testing.T) {
	uc := &fakeAccountUsecase{
		verifyEmail: func(_ context.Context, input usecase.VerifyEmailInput) (*usecase.VerifyEmailOutput, error) {
			assert.Equal(t, "bad-token", input.Token)

			return nil, domainerrors.ErrInvalidToken
		},
	}

	e := newTestEcho()
	e.GET("/accounts/verify/:token", newTestHandler(uc).VerifyEmail)

	req := httptest.NewRequest(http.MethodGet, "/accounts/verify/bad-token", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAccountHandler_ListAccounts_PassesQueryFilters(t *testing.T) {
	var gotInput usecase.ListAccountsInput
	uc := &fakeAccountUsecase{
		listAccounts: func(_ context.Context, input usecase.ListAccountsInput) ([]*entity.PublicAccount, error) {
			gotInput = input

			return []*entity.PublicAccount{{ID: uuid.New()}}, nil
		},
	}

	e := newTestEcho()
	e.GET("/accounts", newTestHandler(uc).ListAccounts)

	req := httptest.NewRequest(http.MethodGet, "/accounts?firstname=Jo&lastname=Do&email=jo.do@example.com", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jo", gotInput.FirstName)
	assert.Equal(t, "Do", gotInput.LastName)
	assert.Equal(t, "jo.do@example.com", gotInput.Email)
}

func TestAccountHandler_ListAccounts_NoMatchesAnswer404(t *testing.T) {
	uc := &fakeAccountUsecase{
		listAccounts: func(_ context.Context, _ usecase.ListAccountsInput) ([]*entity.PublicAccount, error) {
			return nil, domainerrors.ErrNoAccountsMatched
		},
	}

	e := newTestEcho()
	e.GET("/accounts", newTestHandler(uc).ListAccounts)

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountHandler_ForgotPassword_Answers201(t *testing.T) {
	uc := &fakeAccountUsecase{
		requestPasswordReset: func(_ context.Context, input usecase.RequestPasswordResetInput) error {
			assert.Equal(t, "jo.do@example.com", input.Email)

			return nil
		},
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/accounts/password/forgot", strings.NewReader(`{"email":"jo.do@example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, newTestHandler(uc).ForgotPassword(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAccountHandler_ResetPassword_StaleTokenAnswers422(t *testing.T) {
	uc := &fakeAccountUsecase{
		completeReset: func(_ context.Context, _ usecase.CompletePasswordResetInput) error {
			return domainerrors.ErrInvalidToken
		},
	}

	e := newTestEcho()
	e.POST("/accounts/password/reset", newTestHandler(uc).ResetPassword)

	req := httptest.NewRequest(http.MethodPost, "/accounts/password/reset", strings.NewReader(`{"token":"stale","password":"new"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAccountHandler_ResetPassword_Answers201(t *testing.T) {
	uc := &fakeAccountUsecase{
		completeReset: func(_ context.Context, input usecase.CompletePasswordResetInput) error {
			assert.Equal(t, "mailed-token", input.Token)
			assert.Equal(t, "NewPassword456!", input.NewPassword)

			return nil
		},
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/accounts/password/reset", strings.NewReader(`{"token":"mailed-token","password":"NewPassword456!"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, newTestHandler(uc).ResetPassword(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAccountHandler_DeleteAccount_InvalidIDAnswers404(t *testing.T) {
	uc := &fakeAccountUsecase{
		deleteAccount: func(_ context.Context, _ uuid.UUID) error {
			t.Fatal("usecase must not be reached with an invalid id")

			return nil
		},
	}

	e := newTestEcho()
	e.DELETE("/accounts/:id", newTestHandler(uc).DeleteAccount)

	req := httptest.NewRequest(http.MethodDelete, "/accounts/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountHandler_DeleteAccount_Success(t *testing.T) {
	target := uuid.New()
	uc := &fakeAccountUsecase{
		deleteAccount: func(_ context.Context, id uuid.UUID) error {
			assert.Equal(t, target, id)

			return nil
		},
	}

	e := newTestEcho()
	e.DELETE("/accounts/:id", newTestHandler(uc).DeleteAccount)

	req := httptest.NewRequest(http.MethodDelete, "/accounts/"+target.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
}
