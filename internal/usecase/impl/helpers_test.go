package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{ResetTokenTTL: 15 * time.Minute},
		Mail: &config.MailConfig{From: "noreply@shop.example.com"},
		App: &config.AppConfig{
			BaseURL:     "https://shop.example.com",
			ProductName: "Example Shop",
		},
	}
}

// --- hand-rolled fakes, one func field per interface method ---

type fakeAccountRepo struct {
	findByID    func(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	findByEmail func(ctx context.Context, email string) (*entity.Account, error)
	find        func(ctx context.Context, filter repository.AccountFilter) ([]*entity.Account, error)
	create      func(ctx context.Context, account *entity.Account) error
	update      func(ctx context.Context, account *entity.Account) error
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	if f.findByID == nil {
		return nil, repository.ErrAccountNotFound
	}

	return f.findByID(ctx, id)
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if f.findByEmail == nil {
		return nil, repository.ErrAccountNotFound
	}

	return f.findByEmail(ctx, email)
}

func (f *fakeAccountRepo) Find(ctx context.Context, filter repository.AccountFilter) ([]*entity.Account, error) {
	if f.find == nil {
		return nil, nil
	}

	return f.find(ctx, filter)
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *entity.Account) error {
	if f.create == nil {
		account.ID = uuid.New()

		return nil
	}

	return f.create(ctx, account)
}

func (f *fakeAccountRepo) Update(ctx context.Context, account *entity.Account) error {
	if f.update == nil {
		return nil
	}

	return f.update(ctx, account)
}

func (f *fakeAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.delete == nil {
		return nil
	}

	return f.delete(ctx, id)
}

type fakeResetRepo struct {
	create          func(ctx context.Context, reset *entity.PasswordReset) error
	findByTokenHash func(ctx context.Context, tokenHash string) (*entity.PasswordReset, error)
	markUsed        func(ctx context.Context, id uuid.UUID) error
	deleteExpired   func(ctx context.Context, cutoff time.Time) error
}

func (f *fakeResetRepo) Create(ctx context.Context, reset *entity.PasswordReset) error {
	if f.create == nil {
		reset.ID = uuid.New()

		return nil
	}

	return f.create(ctx, reset)
}

func (f *fakeResetRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.PasswordReset, error) {
	if f.findByTokenHash == nil {
		return nil, repository.ErrResetNotFound
	}

	return f.findByTokenHash(ctx, tokenHash)
}

func (f *fakeResetRepo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	if f.markUsed == nil {
		return nil
	}

	return f.markUsed(ctx, id)
}

func (f *fakeResetRepo) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	if f.deleteExpired == nil {
		return nil
	}

	return f.deleteExpired(ctx, cutoff)
}

// fakeFactory hands the same fakes back for transactional use, so a test
// configures one repo regardless of whether the call goes through the
// transaction manager.
type fakeFactory struct {
	accounts *fakeAccountRepo
	resets   *fakeResetRepo
}

func (f *fakeFactory) AccountRepo() repository.AccountRepository {
	return f.accounts
}

func (f *fakeFactory) PasswordResetRepo() repository.PasswordResetRepository {
	return f.resets
}

// fakeTxManager runs the callback inline; commit/rollback semantics are the
// persistence layer's concern, not the service's.
type fakeTxManager struct {
	factory *fakeFactory
}

func (f *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(f.factory)
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

type fakeTokens struct {
	issueSession       func(account *entity.Account) (string, error)
	issueVerification  func(accountID uuid.UUID) (string, error)
	validateSession    func(token string) (*service.SessionClaims, error)
	validateVerify     func(token string) (uuid.UUID, error)
	newResetToken      func() (string, string, error)
}

func (f *fakeTokens) IssueSession(account *entity.Account) (string, error) {
	if f.issueSession == nil {
		return "session-token", nil
	}

	return f.issueSession(account)
}

func (f *fakeTokens) IssueVerification(accountID uuid.UUID) (string, error) {
	if f.issueVerification == nil {
		return "verify-token", nil
	}

	return f.issueVerification(accountID)
}

func (f *fakeTokens) ValidateSession(token string) (*service.SessionClaims, error) {
	if f.validateSession == nil {
		return nil, nil
	}

	return f.validateSession(token)
}

func (f *fakeTokens) ValidateVerification(token string) (uuid.UUID, error) {
	if f.validateVerify == nil {
		return uuid.Nil, nil
	}

	return f.validateVerify(token)
}

func (f *fakeTokens) NewResetToken() (string, string, error) {
	if f.newResetToken == nil {
		return "plain-reset-token", "hash:plain-reset-token", nil
	}

	return f.newResetToken()
}

func (f *fakeTokens) HashToken(token string) string {
	return "hash:" + token
}

type fakeComposer struct{}

func (fakeComposer) Compose(desc service.MailDescription) (string, error) {
	return "<html>" + desc.ActionLink + "</html>", nil
}

type fakeMailer struct {
	sendErr error
	sent    []*service.MailMessage
}

func (f *fakeMailer) Send(_ context.Context, msg *service.MailMessage) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)

	return nil
}

type fakeEvents struct {
	publishErr error
	published  []*service.AccountEvent
}

func (f *fakeEvents) PublishAccountEvent(_ context.Context, event *service.AccountEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, event)

	return nil
}

func (f *fakeEvents) Close() error {
	return nil
}

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service  usecase.AccountUsecase
	accounts *fakeAccountRepo
	resets   *fakeResetRepo
	tokens   *fakeTokens
	mailer   *fakeMailer
	events   *fakeEvents
}

func createTestAccountService() accountServiceFixtures {
	accounts := &fakeAccountRepo{}
	resets := &fakeResetRepo{}
	tokens := &fakeTokens{}
	mailer := &fakeMailer{}
	events := &fakeEvents{}
	factory := &fakeFactory{accounts: accounts, resets: resets}

	svc := NewAccountService(AccountServiceParams{
		TxManager:    &fakeTxManager{factory: factory},
		AccountRepo:  accounts,
		ResetRepo:    resets,
		Hasher:       fakeHasher{},
		TokenService: tokens,
		Composer:     fakeComposer{},
		Mailer:       mailer,
		Events:       events,
		Config:       newTestConfig(),
		Logger:       newDiscardLogger(),
	})

	return accountServiceFixtures{
		service:  svc,
		accounts: accounts,
		resets:   resets,
		tokens:   tokens,
		mailer:   mailer,
		events:   events,
	}
}
