package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sampark/sampark/internal/models"
	"github.com/sampark/sampark/internal/notifier"
	"github.com/sampark/sampark/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AccountStore is the durable-account boundary. Create must enforce
// uniqueness on the normalized email and return repository.ErrAccountExists
// when it is violated.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

// VerificationService drives the signup verification workflow:
// issue a passcode, stage the registration, verify the code, and promote
// the staged payload into a durable account. All shared state lives in the
// injected stores; the service itself holds no mutable state, so concurrent
// requests are safe under the stores' per-key semantics.
type VerificationService struct {
	staging  *StagingManager
	limiter  *RateLimiter
	accounts AccountStore
	mailer   notifier.Notifier
	logger   *logrus.Logger
}

func NewVerificationService(
	staging *StagingManager,
	limiter *RateLimiter,
	accounts AccountStore,
	mailer notifier.Notifier,
	logger *logrus.Logger,
) *VerificationService {
	return &VerificationService{
		staging:  staging,
		limiter:  limiter,
		accounts: accounts,
		mailer:   mailer,
		logger:   logger,
	}
}

// Issue starts a signup: rate-limit, generate a passcode, stage the
// registration, then deliver the code. If delivery fails the staged session
// is discarded before the error surfaces, so no passcode can exist that was
// never sent. Returns the remaining issuance budget for the window.
func (s *VerificationService) Issue(ctx context.Context, name, email, rawPassword string) (int, error) {
	email = NormalizeEmail(email)

	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return 0, repository.ErrAccountExists
	}

	limit := s.limiter.CheckAndConsume(ctx, email)
	if !limit.Allowed {
		return 0, ErrRateLimited
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := GeneratePasscode()
	if err != nil {
		return 0, err
	}

	pending := models.PendingSignup{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
	}

	if err := s.staging.Stage(ctx, pending, code); err != nil {
		return 0, err
	}

	subject, body := notifier.OTPEmail(name, code)
	if !s.mailer.Send(ctx, email, subject, body) {
		// Roll back so the identity returns to a clean state instead of
		// holding a code the user never received.
		if err := s.staging.Discard(ctx, email); err != nil {
			s.logger.WithError(err).WithField("email", email).Error("Failed to roll back staged signup after delivery failure")
		}
		return 0, ErrDeliveryFailed
	}

	s.logger.WithField("email", email).Info("Verification code issued")
	return limit.Remaining, nil
}

// Resend replaces the outstanding passcode with a fresh one while leaving
// the staged registration and its TTL untouched. It requires an existing
// pending session and is rate-limited like Issue.
func (s *VerificationService) Resend(ctx context.Context, email string) (int, error) {
	email = NormalizeEmail(email)

	session, err := s.staging.Peek(ctx, email)
	if err != nil {
		return 0, err
	}
	if session == nil {
		return 0, ErrNotFoundOrExpired
	}

	limit := s.limiter.CheckAndConsume(ctx, email)
	if !limit.Allowed {
		return 0, ErrRateLimited
	}

	code, err := GeneratePasscode()
	if err != nil {
		return 0, err
	}

	// Deliver before committing: a failed send leaves the prior code
	// outstanding, so the user never holds a code that no longer matches.
	subject, body := notifier.OTPEmail(session.Name, code)
	if !s.mailer.Send(ctx, email, subject, body) {
		return 0, ErrDeliveryFailed
	}

	session.Code = code
	session.Verified = false
	if err := s.staging.Update(ctx, session); err != nil {
		return 0, err
	}

	s.logger.WithField("email", email).Info("Verification code resent")
	return limit.Remaining, nil
}

// Verify compares the supplied code against the outstanding passcode. On
// match the code is cleared so it can never be replayed, and the session is
// marked verified for promotion. On mismatch the passcode is left intact;
// retries are bounded only by the session's expiry.
func (s *VerificationService) Verify(ctx context.Context, email, code string) error {
	email = NormalizeEmail(email)

	session, err := s.staging.Peek(ctx, email)
	if err != nil {
		return err
	}
	if session == nil || session.Code == "" {
		// "never issued" and "expired" are deliberately indistinguishable.
		return ErrNotFoundOrExpired
	}

	if !passcodesEqual(session.Code, code) {
		return ErrCodeMismatch
	}

	session.Code = ""
	session.Verified = true
	if err := s.staging.Update(ctx, session); err != nil {
		return err
	}

	s.logger.WithField("email", email).Info("Verification code accepted")
	return nil
}

// Promote turns a verified staged signup into a durable account. The
// session is read without being consumed, the account is created, and only
// then is the session discarded: if the durable write fails, the staged
// payload survives and promotion can be retried. A duplicate concurrent
// promote loses the durable store's uniqueness race and resolves to the
// already-created account.
func (s *VerificationService) Promote(ctx context.Context, email string) (*models.Account, error) {
	email = NormalizeEmail(email)

	session, err := s.staging.Peek(ctx, email)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.Verified {
		return nil, ErrSessionExpired
	}

	account := &models.Account{
		Email:        session.Email,
		Name:         session.Name,
		PasswordHash: session.PasswordHash,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			existing, findErr := s.accounts.FindByEmail(ctx, email)
			if findErr != nil || existing == nil {
				return nil, fmt.Errorf("%w: %v", ErrAccountCreateFailed, err)
			}
			if discardErr := s.staging.Discard(ctx, email); discardErr != nil {
				s.logger.WithError(discardErr).WithField("email", email).Error("Failed to discard session after duplicate promote")
			}
			return existing, nil
		}
		s.logger.WithError(err).WithField("email", email).Error("Durable account creation failed, staged signup kept for retry")
		return nil, fmt.Errorf("%w: %v", ErrAccountCreateFailed, err)
	}

	if err := s.staging.Discard(ctx, email); err != nil {
		s.logger.WithError(err).WithField("email", email).Error("Failed to discard session after promotion")
	}

	subject, body := notifier.WelcomeEmail(account.Name)
	if !s.mailer.Send(ctx, email, subject, body) {
		s.logger.WithField("email", email).Debug("Welcome email not delivered")
	}

	s.logger.WithField("email", email).Info("Account created")
	return account, nil
}
