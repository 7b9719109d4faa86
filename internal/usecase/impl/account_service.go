// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultResetTokenTTL = 15 * time.Minute

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	resetRepo   repository.PasswordResetRepository
	hasher      service.PasswordHasher
	tokens      service.TokenService
	composer    service.MailComposer
	mailer      service.Mailer
	events      service.EventPublisher
	baseURL     string
	mailFrom    string
	resetTTL    time.Duration
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	AccountRepo  repository.AccountRepository
	ResetRepo    repository.PasswordResetRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Composer     service.MailComposer
	Mailer       service.Mailer
	Events       service.EventPublisher
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	baseURL := ""
	mailFrom := ""
	resetTTL := defaultResetTokenTTL

	if params.Config != nil {
		if params.Config.App != nil {
			baseURL = strings.TrimRight(params.Config.App.BaseURL, "/")
		}
		if params.Config.Mail != nil {
			mailFrom = params.Config.Mail.From
		}
		if params.Config.Auth != nil && params.Config.Auth.ResetTokenTTL > 0 {
			resetTTL = params.Config.Auth.ResetTokenTTL
		}
	}

	return &accountService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		resetRepo:   params.ResetRepo,
		hasher:      params.Hasher,
		tokens:      params.TokenService,
		composer:    params.Composer,
		mailer:      params.Mailer,
		events:      params.Events,
		baseURL:     baseURL,
		mailFrom:    mailFrom,
		resetTTL:    resetTTL,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// canonicalEmail lowercases and trims an email so every lookup and store
// uses the same form.
func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register orchestrates the complete account registration process.
func (srv *accountService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	// Required fields are reported one at a time, in a fixed order.
	if input.Email == "" {
		return nil, domainerrors.NewMissingFieldError("email")
	}
	if input.Password == "" {
		return nil, domainerrors.NewMissingFieldError("password")
	}
	if input.FirstName == "" {
		return nil, domainerrors.NewMissingFieldError("firstname")
	}
	if input.LastName == "" {
		return nil, domainerrors.NewMissingFieldError("lastname")
	}

	email := canonicalEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newAccount := &entity.Account{
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         entity.RoleCustomer,
		PasswordHash: hashedPassword,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		// Fast-path existence check. The unique index on email remains the
		// authoritative guard against concurrent registrations.
		_, findErr := accountRepo.FindByEmail(ctx, email)
		if findErr == nil {
			return domainerrors.ErrAccountExists.WrapMessage("account already registered for this email")
		}
		if !errors.Is(findErr, repository.ErrAccountNotFound) {
			return errors.Wrap(findErr, "failed to check existing account")
		}

		return accountRepo.Create(ctx, newAccount)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	if err := srv.sendVerificationMail(ctx, newAccount); err != nil {
		srv.log(ctx).Error("Failed to send verification mail", slog.String("email", email), slog.Any("error", err))

		return nil, domainerrors.ErrMailDeliveryFailed.WrapMessage("failed to send verification email")
	}

	srv.publishEvent(ctx, service.AccountEventRegistered, newAccount)
	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", newAccount.ID))

	return &usecase.RegisterOutput{Account: newAccount.Public()}, nil
}

// Login checks credentials and issues a signed session token.
func (srv *accountService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	if input.Email == "" {
		return nil, domainerrors.NewMissingFieldError("email")
	}
	if input.Password == "" {
		return nil, domainerrors.NewMissingFieldError("password")
	}

	email := canonicalEmail(input.Email)
	srv.log(ctx).Debug("Starting login", slog.String("email", email))

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", err))

		// An unknown email and a wrong password answer identically, so a
		// caller cannot probe which addresses are registered.
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to load account for login")
	}

	// bcrypt comparison is CPU-bound; kept outside any transaction.
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	token, err := srv.tokens.IssueSession(account)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{
		Message: "login successful",
		Token:   token,
		Account: account.Public(),
	}, nil
}

// VerifyEmail consumes an emailed verification token and marks the account verified.
func (srv *accountService) VerifyEmail(ctx context.Context, input usecase.VerifyEmailInput) (*usecase.VerifyEmailOutput, error) {
	if input.Token == "" {
		return nil, domainerrors.ErrMissingToken.WrapMessage("verification token missing")
	}

	accountID, err := srv.tokens.ValidateVerification(input.Token)
	if err != nil {
		srv.log(ctx).Warn("Email verification failed", slog.Any("error", err))

		return nil, domainerrors.ErrInvalidToken.WrapMessage("verification token rejected")
	}

	var verified *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, findErr := accountRepo.FindByID(ctx, accountID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound.WrapMessage("account for verification token no longer exists")
			}

			return errors.Wrap(findErr, "failed to load account for verification")
		}

		// Verification is one-way and idempotent. A second click on the
		// same link succeeds without touching the row.
		if !account.Verified {
			account.Verified = true
			if updateErr := accountRepo.Update(ctx, account); updateErr != nil {
				return errors.Wrap(updateErr, "failed to mark account verified")
			}
		}

		verified = account

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.publishEvent(ctx, service.AccountEventVerified, verified)
	srv.log(ctx).Info("Email verified", slog.Any("accountID", verified.ID))

	return &usecase.VerifyEmailOutput{Account: verified.Public()}, nil
}

// ListAccounts returns the public projection of every account matching the filters.
func (srv *accountService) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*entity.PublicAccount, error) {
	filter := repository.AccountFilter{
		FirstName: strings.ToLower(strings.TrimSpace(input.FirstName)),
		LastName:  strings.ToLower(strings.TrimSpace(input.LastName)),
		Email:     canonicalEmail(input.Email),
	}

	accounts, err := srv.accountRepo.Find(ctx, filter)
	if err != nil {
		srv.log(ctx).Error("Failed to list accounts", slog.Any("error", err))

		return nil, domainerrors.ErrListFailed.WrapMessage("account listing query failed")
	}

	if len(accounts) == 0 {
		return nil, domainerrors.ErrNoAccountsMatched.WrapMessage("no accounts matched the given filters")
	}

	public := make([]*entity.PublicAccount, 0, len(accounts))
	for _, account := range accounts {
		public = append(public, account.Public())
	}

	return public, nil
}

// RequestPasswordReset mails an opaque single-use reset token to the account holder.
func (srv *accountService) RequestPasswordReset(ctx context.Context, input usecase.RequestPasswordResetInput) error {
	if input.Email == "" {
		return domainerrors.NewMissingFieldError("email")
	}

	email := canonicalEmail(input.Email)
	srv.log(ctx).Info("Password reset requested", slog.String("email", email))

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrAccountNotFound.WrapMessage("no account for this email")
		}

		return errors.Wrap(err, "failed to load account for password reset")
	}

	plainToken, tokenHash, err := srv.tokens.NewResetToken()
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	reset := &entity.PasswordReset{
		AccountID: account.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(srv.resetTTL),
	}
	if err := srv.resetRepo.Create(ctx, reset); err != nil {
		return errors.Wrap(err, "failed to store password reset")
	}

	if err := srv.sendResetMail(ctx, account, plainToken); err != nil {
		srv.log(ctx).Error("Failed to send reset mail", slog.String("email", email), slog.Any("error", err))

		return domainerrors.ErrMailDeliveryFailed.WrapMessage("failed to send password reset email")
	}

	return nil
}

// CompletePasswordReset consumes a mailed reset token and installs the new password.
func (srv *accountService) CompletePasswordReset(ctx context.Context, input usecase.CompletePasswordResetInput) error {
	if input.Token == "" {
		return domainerrors.ErrMissingToken.WrapMessage("reset token missing")
	}
	if input.NewPassword == "" {
		return domainerrors.NewMissingFieldError("password")
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash replacement password")
	}

	tokenHash := srv.tokens.HashToken(input.Token)

	// Lookup, consume, and password swap happen in one transaction so a
	// token can never be redeemed twice.
	var account *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		resetRepo := repoFactory.PasswordResetRepo()
		accountRepo := repoFactory.AccountRepo()

		reset, findErr := resetRepo.FindByTokenHash(ctx, tokenHash)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrResetNotFound) {
				return domainerrors.ErrInvalidToken.WrapMessage("reset token unknown")
			}

			return errors.Wrap(findErr, "failed to load password reset")
		}

		if reset.Used() || reset.Expired(time.Now()) {
			return domainerrors.ErrInvalidToken.WrapMessage("reset token expired or already used")
		}

		if markErr := resetRepo.MarkUsed(ctx, reset.ID); markErr != nil {
			return errors.Wrap(markErr, "failed to consume reset token")
		}

		loaded, findErr := accountRepo.FindByID(ctx, reset.AccountID)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load account for password reset")
		}

		loaded.PasswordHash = hashedPassword
		if updateErr := accountRepo.Update(ctx, loaded); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update account password")
		}

		account = loaded

		return nil
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("accountID", account.ID))

	// The password is already swapped at this point, so a notification
	// failure only gets logged.
	if mailErr := srv.sendPasswordChangedMail(ctx, account); mailErr != nil {
		srv.log(ctx).Warn("Failed to send password changed mail",
			slog.String("email", account.Email),
			slog.Any("error", mailErr),
		)
	}

	return nil
}

// DeleteAccount removes an account permanently.
func (srv *accountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	srv.log(ctx).Info("Deleting account", slog.Any("accountID", id))

	account, err := srv.accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrDeletionFailed.WrapMessage("account does not exist")
		}

		return errors.Wrap(err, "failed to load account for deletion")
	}

	if err := srv.accountRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrDeletionFailed.WrapMessage("account already deleted")
		}

		return errors.Wrap(err, "failed to delete account")
	}

	srv.publishEvent(ctx, service.AccountEventDeleted, account)

	return nil
}

// sendVerificationMail issues a verification token and mails the confirm link.
func (srv *accountService) sendVerificationMail(ctx context.Context, account *entity.Account) error {
	token, err := srv.tokens.IssueVerification(account.ID)
	if err != nil {
		return errors.Wrap(err, "failed to issue verification token")
	}

	body, err := srv.composer.Compose(service.MailDescription{
		Name:               account.FirstName,
		Intros:             []string{"Welcome! We're very excited to have you on board."},
		ActionInstructions: "To get started, please confirm your email address:",
		ActionLabel:        "Confirm your account",
		ActionLink:         srv.baseURL + "/accounts/verify/" + token,
		Outros:             []string{"Need help, or have questions? Just reply to this email, we'd love to help."},
	})
	if err != nil {
		return errors.Wrap(err, "failed to compose verification mail")
	}

	return srv.mailer.Send(ctx, &service.MailMessage{
		From:     srv.mailFrom,
		To:       account.Email,
		Subject:  "Please confirm your account",
		HTMLBody: body,
	})
}

// sendResetMail mails the opaque reset token link.
func (srv *accountService) sendResetMail(ctx context.Context, account *entity.Account, plainToken string) error {
	body, err := srv.composer.Compose(service.MailDescription{
		Name:               account.FirstName,
		Intros:             []string{"You have received this email because a password reset request for your account was received."},
		ActionInstructions: "Click the button below to reset your password:",
		ActionLabel:        "Reset your password",
		ActionLink:         srv.baseURL + "/accounts/password/reset/" + plainToken,
		Outros:             []string{"If you did not request a password reset, no further action is required on your part."},
	})
	if err != nil {
		return errors.Wrap(err, "failed to compose reset mail")
	}

	return srv.mailer.Send(ctx, &service.MailMessage{
		From:     srv.mailFrom,
		To:       account.Email,
		Subject:  "Reset your password",
		HTMLBody: body,
	})
}

// sendPasswordChangedMail notifies the account holder their password changed.
func (srv *accountService) sendPasswordChangedMail(ctx context.Context, account *entity.Account) error {
	body, err := srv.composer.Compose(service.MailDescription{
		Name:   account.FirstName,
		Intros: []string{"The password for your account was just changed."},
		Outros: []string{"If you did not make this change, please contact support immediately."},
	})
	if err != nil {
		return errors.Wrap(err, "failed to compose password changed mail")
	}

	return srv.mailer.Send(ctx, &service.MailMessage{
		From:     srv.mailFrom,
		To:       account.Email,
		Subject:  "Your password was changed",
		HTMLBody: body,
	})
}

// publishEvent emits an account lifecycle event. Publishing is best effort;
// a failure is logged and never fails the request.
func (srv *accountService) publishEvent(ctx context.Context, eventType string, account *entity.Account) {
	event := &service.AccountEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		Type:      eventType,
		AccountID: account.ID.String(),
		Email:     account.Email,
	}

	if err := srv.events.PublishAccountEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account event",
			slog.String("type", eventType),
			slog.Any("accountID", account.ID),
			slog.Any("error", err),
		)
	}
}
