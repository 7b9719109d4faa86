// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// registerRequest is the wire shape of a registration payload.
type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// loginRequest is the wire shape of a login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// forgotPasswordRequest identifies the account asking for a reset.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// resetPasswordRequest carries the mailed token and the replacement password.
type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// listAccountsQuery narrows the account listing via query parameters.
type listAccountsQuery struct {
	FirstName string `query:"firstname"`
	LastName  string `query:"lastname"`
	Email     string `query:"email" validate:"omitempty,email"`
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.Account, "Account registered, verification email sent")
}

// Login handles the login request and returns a session token.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// VerifyEmail consumes the emailed verification link.
func (h *AccountHandler) VerifyEmail(c echo.Context) error {
	output, err := h.uc.VerifyEmail(c.Request().Context(), usecase.VerifyEmailInput{
		Token: c.Param("token"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output.Account, "Email verified")
}

// ListAccounts returns accounts matching the optional query filters.
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	var query listAccountsQuery
	if err := c.Bind(&query); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing filters")
	}
	if err := c.Validate(&query); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid email filter")
	}

	accounts, err := h.uc.ListAccounts(c.Request().Context(), usecase.ListAccountsInput{
		FirstName: query.FirstName,
		LastName:  query.LastName,
		Email:     query.Email,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, accounts, "Accounts retrieved")
}

// ForgotPassword mails a single-use reset token to the account holder.
func (h *AccountHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password reset input")
	}

	if err := h.uc.RequestPasswordReset(c.Request().Context(), usecase.RequestPasswordResetInput{
		Email: req.Email,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Password reset email sent")
}

// ResetPassword consumes a mailed reset token and installs the new password.
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password reset input")
	}

	if err := h.uc.CompletePasswordReset(c.Request().Context(), usecase.CompletePasswordResetInput{
		Token:       req.Token,
		NewPassword: req.Password,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Password updated")
}

// DeleteAccount removes an account permanently. Admin only.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.NotFound(c, "DELETION_FAILED", "Invalid account id")
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Account deleted")
}
