package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sampark/sampark/internal/cache"
	"github.com/sampark/sampark/internal/models"
	"github.com/sirupsen/logrus"
)

// NormalizeEmail lower-cases and trims an identity so every ephemeral key
// and durable lookup agrees on the same form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StagingManager owns the pending-signup session in the ephemeral store.
// Passcode and staged payload live together under one key with one TTL, so
// they can never drift apart under concurrent writes.
type StagingManager struct {
	store  *cache.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewStagingManager(store *cache.Client, ttl time.Duration, logger *logrus.Logger) *StagingManager {
	return &StagingManager{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func sessionKey(email string) string {
	return "signup:pending:" + email
}

// Stage writes a fresh session with the full TTL, silently overwriting any
// prior session for the identity.
func (m *StagingManager) Stage(ctx context.Context, pending models.PendingSignup, code string) error {
	session := models.SignupSession{
		PendingSignup: pending,
		Code:          code,
		CreatedAt:     time.Now(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal signup session: %w", err)
	}

	if err := m.store.SetWithTTL(ctx, sessionKey(pending.Email), string(data), m.ttl); err != nil {
		m.logger.WithError(err).Error("Failed to stage signup session")
		return fmt.Errorf("failed to stage signup session: %w", err)
	}

	return nil
}

// Peek reads the session without consuming it. A missing or expired session
// returns (nil, nil).
func (m *StagingManager) Peek(ctx context.Context, email string) (*models.SignupSession, error) {
	data, found, err := m.store.Get(ctx, sessionKey(email))
	if err != nil {
		return nil, fmt.Errorf("failed to read signup session: %w", err)
	}
	if !found {
		return nil, nil
	}

	var session models.SignupSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signup session: %w", err)
	}

	return &session, nil
}

// Update rewrites the session in place, preserving its remaining TTL. Used
// to replace the passcode on resend and to mark a successful compare; it
// never extends the session's life. The write is conditional on the key
// still existing: a session that expired since it was read must not be
// recreated without a TTL, so that case surfaces as ErrNotFoundOrExpired.
func (m *StagingManager) Update(ctx context.Context, session *models.SignupSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal signup session: %w", err)
	}

	set, err := m.store.SetIfExistsKeepTTL(ctx, sessionKey(session.Email), string(data))
	if err != nil {
		m.logger.WithError(err).Error("Failed to update signup session")
		return fmt.Errorf("failed to update signup session: %w", err)
	}
	if !set {
		return ErrNotFoundOrExpired
	}

	return nil
}

// Consume reads the session and deletes it only when it was actually
// present, so an already-expired session is reported to the caller rather
// than masked by a blind delete.
func (m *StagingManager) Consume(ctx context.Context, email string) (*models.SignupSession, error) {
	session, err := m.Peek(ctx, email)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if err := m.store.Delete(ctx, sessionKey(email)); err != nil {
		return nil, fmt.Errorf("failed to consume signup session: %w", err)
	}

	return session, nil
}

// Discard unconditionally removes the session. Used for rollback when
// passcode delivery fails and for cleanup after promotion.
func (m *StagingManager) Discard(ctx context.Context, email string) error {
	if err := m.store.Delete(ctx, sessionKey(email)); err != nil {
		m.logger.WithError(err).Error("Failed to discard signup session")
		return fmt.Errorf("failed to discard signup session: %w", err)
	}
	return nil
}
