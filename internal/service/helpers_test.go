package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sampark/sampark/internal/cache"
	"github.com/sampark/sampark/internal/config"
	"github.com/sampark/sampark/internal/models"
	"github.com/sampark/sampark/internal/repository"
	"github.com/sirupsen/logrus"
)

func newTestStore(t *testing.T) (*cache.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return cache.New(rdb), mr
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testRateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		MaxAttempts: 3,
		Window:      time.Hour,
		FailOpen:    true,
	}
}

// fakeAccountStore is an in-memory stand-in for the durable account store,
// keyed by normalized email.
type fakeAccountStore struct {
	mu        sync.Mutex
	accounts  map[string]*models.Account
	createErr error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]*models.Account)}
}

func (f *fakeAccountStore) Create(_ context.Context, account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	email := strings.ToLower(account.Email)
	if _, ok := f.accounts[email]; ok {
		return repository.ErrAccountExists
	}
	account.CreatedAt = time.Now()
	f.accounts[email] = account
	return nil
}

func (f *fakeAccountStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return account, nil
}

type sentMail struct {
	Recipient string
	Subject   string
	Body      string
}

// fakeNotifier records outgoing mail; set fail to simulate delivery failure.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (f *fakeNotifier) Send(_ context.Context, recipient, subject, body string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return false
	}
	f.sent = append(f.sent, sentMail{Recipient: recipient, Subject: subject, Body: body})
	return true
}

func (f *fakeNotifier) lastSent() (sentMail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.sent) == 0 {
		return sentMail{}, false
	}
	return f.sent[len(f.sent)-1], true
}

// codeFromSubject extracts the passcode from the verification mail subject
// ("Your Sampark Verification Code: 417203").
func codeFromSubject(subject string) string {
	idx := strings.LastIndex(subject, " ")
	if idx < 0 {
		return ""
	}
	return subject[idx+1:]
}
